package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pageza/recipebox/backend/internal/apperror"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for counter keys
	KeyPrefix string
}

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// LimitStore spends one request of a limit-per-window budget for key
type LimitStore interface {
	Take(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

// RedisStore shares fixed-window counts between instances through Redis
type RedisStore struct {
	redis *redis.Client
	now   func() time.Time
}

// NewRedisStore creates a store backed by client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{redis: client, now: time.Now}
}

// Take counts the request in the current fixed window
func (r *RedisStore) Take(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	windowStart := r.now().Truncate(window)
	windowKey := fmt.Sprintf("%s:%d", key, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := r.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(incrCmd.Val())
	return Decision{
		Allowed:   count <= limit,
		Remaining: max(0, limit-count),
		Reset:     windowStart.Add(window),
	}, nil
}

// LocalStore keeps a token bucket per key in process for single-instance
// deployments. A bucket holds limit tokens and refills one every
// window/limit.
type LocalStore struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	lastSweep time.Time
	now       func() time.Time
}

// NewLocalStore creates an empty in-process store
func NewLocalStore() *LocalStore {
	return &LocalStore{
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

// Take spends one token from the bucket for key
func (l *LocalStore) Take(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if limit < 1 {
		limit = 1
	}
	every := rate.Every(window / time.Duration(limit))

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= window {
		l.sweep(now)
		l.lastSweep = now
	}

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(every, limit)
		l.limiters[key] = limiter
	}

	allowed := limiter.AllowN(now, 1)
	tokens := limiter.TokensAt(now)

	reset := now
	if tokens < 1 {
		reset = now.Add(time.Duration((1 - tokens) / float64(every) * float64(time.Second)))
	}
	return Decision{
		Allowed:   allowed,
		Remaining: max(0, int(math.Floor(tokens))),
		Reset:     reset,
	}, nil
}

// sweep drops buckets that have refilled completely; a fresh bucket behaves
// the same. Caller holds the lock.
func (l *LocalStore) sweep(now time.Time) {
	for key, limiter := range l.limiters {
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			delete(l.limiters, key)
		}
	}
}

// RateLimiter enforces a per-user request budget
type RateLimiter struct {
	store  LimitStore
	config RateLimitConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(store LimitStore, config RateLimitConfig, logger *zap.Logger) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit"
	}
	return &RateLimiter{
		store:  store,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// NewGenerationRateLimiter limits AI generation requests per user
func NewGenerationRateLimiter(store LimitStore, limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(store, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:generation",
	}, logger)
}

// IsAllowed checks if a request from the given user is allowed
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, userID string) (bool, int, time.Time, error) {
	key := rl.config.KeyPrefix + ":" + userID
	d, err := rl.store.Take(ctx, key, rl.config.Limit, rl.config.Window)
	if err != nil {
		return false, 0, time.Time{}, err
	}
	return d.Allowed, d.Remaining, d.Reset, nil
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting.
// It must run after AuthMiddleware.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			WriteError(c, apperror.Unauthorized("user not authenticated"))
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), userID.String())
		if err != nil {
			// Log error but don't fail the request
			rl.logger.Warn("rate limit check failed", zap.Error(err))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(resetTime.Sub(rl.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			WriteError(c, apperror.New(apperror.CodeTooManyRequests, http.StatusTooManyRequests,
				fmt.Sprintf("rate limit of %d requests per %v exceeded", rl.config.Limit, rl.config.Window)))
			return
		}

		c.Next()
	}
}
