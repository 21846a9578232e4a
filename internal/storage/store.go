// Package storage uploads recipe images to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/apperror"
)

// ObjectPutter is the subset of the S3 client used for uploads
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// UploadInput describes one upload. Data takes precedence over SourceURL.
type UploadInput struct {
	Data        []byte
	SourceURL   string
	Folder      string
	PublicID    string
	ContentType string
}

// ObjectStore uploads images and returns their public URL
type ObjectStore struct {
	putter      ObjectPutter
	bucket      string
	region      string
	publicBase  string
	folder      string
	placeholder string
	downloader  *resty.Client
	logger      *zap.Logger
}

// NewObjectStore builds a store. A nil putter or empty bucket yields an
// unconfigured store whose uploads always resolve to the placeholder URL.
func NewObjectStore(putter ObjectPutter, cfg config.StorageConfig, logger *zap.Logger) *ObjectStore {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ObjectStore{
		putter:      putter,
		bucket:      strings.TrimSpace(cfg.Bucket),
		region:      cfg.Region,
		publicBase:  strings.TrimRight(cfg.PublicBaseURL, "/"),
		folder:      cfg.Folder,
		placeholder: cfg.PlaceholderURL,
		downloader:  resty.New().SetTimeout(timeout),
		logger:      logger.Named("storage"),
	}
}

// Configured reports whether uploads reach a real bucket
func (s *ObjectStore) Configured() bool {
	return s.putter != nil && s.bucket != ""
}

// PlaceholderURL is the image used when nothing can be uploaded
func (s *ObjectStore) PlaceholderURL() string {
	return s.placeholder
}

// Upload stores the image and returns its secure URL. An unconfigured store
// or an unusable source URL returns the placeholder without error. Download
// and put failures are returned as upload failures.
func (s *ObjectStore) Upload(ctx context.Context, in UploadInput) (string, error) {
	if !s.Configured() {
		s.logger.Warn("object storage not configured, using placeholder image")
		return s.placeholder, nil
	}

	data := in.Data
	contentType := in.ContentType
	if len(data) == 0 {
		if !usableSourceURL(in.SourceURL) {
			s.logger.Warn("unusable image source URL, using placeholder image", zap.String("source_url", in.SourceURL))
			return s.placeholder, nil
		}

		resp, err := s.downloader.R().SetContext(ctx).Get(in.SourceURL)
		if err != nil {
			return "", apperror.Upload("failed to download image", err)
		}
		if resp.StatusCode() != http.StatusOK {
			return "", apperror.Upload(fmt.Sprintf("failed to download image, status: %d", resp.StatusCode()), nil)
		}
		data = resp.Body()
		if contentType == "" {
			contentType = resp.Header().Get("Content-Type")
		}
	}
	if len(data) == 0 {
		return "", apperror.Upload("image body is empty", nil)
	}
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = "image/png"
	}

	key := s.objectKey(in.Folder, in.PublicID, contentType)
	_, err := s.putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", apperror.Upload("failed to upload image", err)
	}

	publicURL := s.publicURL(key)
	s.logger.Info("uploaded image", zap.String("key", key), zap.String("url", publicURL))
	return publicURL, nil
}

func (s *ObjectStore) objectKey(folder, publicID, contentType string) string {
	if folder == "" {
		folder = s.folder
	}
	if publicID == "" {
		publicID = uuid.NewString()
	}

	ext := ".png"
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	}
	return path.Join(folder, publicID+ext)
}

func (s *ObjectStore) publicURL(key string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	if s.region == "" || s.region == "us-east-1" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func usableSourceURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
