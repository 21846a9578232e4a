// Package cache stores generated recipes keyed by their ingredient list.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrMiss is returned by Get when no live entry exists for the key
var ErrMiss = errors.New("cache miss")

// GenerationCache stores serialized generation results with an explicit TTL
type GenerationCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Key derives the cache key for a cleaned ingredient list. Order and case do
// not change the key.
func Key(ingredients []string) string {
	canonical := make([]string, 0, len(ingredients))
	for _, item := range ingredients {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			canonical = append(canonical, item)
		}
	}
	sort.Strings(canonical)

	hash := sha256.Sum256([]byte(strings.Join(canonical, "\n")))
	return "ingredients:" + hex.EncodeToString(hash[:])
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error)              { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Delete(context.Context, string) error                     { return nil }
