package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/storage"
)

const (
	maxImagePromptLength   = 900
	defaultImageTaskExpiry = 60 * time.Second
)

// Image outcomes reported to metrics
const (
	ImageUploaded         = "uploaded"
	ImageOriginalFallback = "original_fallback"
	ImagePlaceholder      = "placeholder"
	ImageNone             = "none"
)

// ImageService generates recipe images and copies them to object storage.
// Failures never propagate: the caller always gets a URL or "".
type ImageService struct {
	images  ImageModel
	store   ImageStore
	folder  string
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewImageService creates a new ImageService instance
func NewImageService(images ImageModel, store ImageStore, folder string, m *metrics.Collector, logger *zap.Logger) *ImageService {
	if folder == "" {
		folder = "recipe-images"
	}
	return &ImageService{
		images:  images,
		store:   store,
		folder:  folder,
		metrics: m,
		logger:  logger.Named("image"),
	}
}

// GenerateImage returns a durable image URL for the recipe. It falls back to
// the model's temporary URL when the upload fails, and returns "" when no
// image could be generated.
func (s *ImageService) GenerateImage(ctx context.Context, title, description string) string {
	if strings.TrimSpace(title) == "" {
		s.logger.Warn("skipping image generation for recipe without title")
		s.metrics.ImageOutcome(ImageNone)
		return ""
	}

	prompt := BuildImagePrompt(title, description)

	start := time.Now()
	sourceURL, err := s.images.GenerateImage(ctx, prompt)
	s.metrics.ModelCall("image", err, time.Since(start))
	if err != nil {
		s.logger.Warn("image generation failed", zap.String("title", title), zap.Error(err))
		s.metrics.ImageOutcome(ImageNone)
		return ""
	}
	if strings.TrimSpace(sourceURL) == "" {
		s.logger.Warn("image model returned no url", zap.String("title", title))
		s.metrics.ImageOutcome(ImageNone)
		return ""
	}

	stored, err := s.store.Upload(ctx, storage.UploadInput{
		SourceURL: sourceURL,
		Folder:    s.folder,
		PublicID:  uuid.NewString(),
	})
	if err != nil {
		s.logger.Warn("image upload failed, keeping model url", zap.String("title", title), zap.Error(err))
		s.metrics.ImageOutcome(ImageOriginalFallback)
		return sourceURL
	}

	if stored == s.store.PlaceholderURL() {
		s.metrics.ImageOutcome(ImagePlaceholder)
	} else {
		s.metrics.ImageOutcome(ImageUploaded)
	}
	return stored
}

// GenerateImageAsync starts image generation in the background. The task is
// bound to ctx and stops at the deadline given by timeout.
func (s *ImageService) GenerateImageAsync(ctx context.Context, title, description string, timeout time.Duration) *ImageTask {
	if timeout <= 0 {
		timeout = defaultImageTaskExpiry
	}
	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	deadline, _ := taskCtx.Deadline()

	task := &ImageTask{
		done:     make(chan struct{}),
		cancel:   cancel,
		deadline: deadline,
	}

	go func() {
		defer cancel()
		defer close(task.done)
		task.url = s.GenerateImage(taskCtx, title, description)
	}()

	return task
}

// ImageTask is a handle on a background image generation
type ImageTask struct {
	done     chan struct{}
	cancel   context.CancelFunc
	deadline time.Time
	url      string
}

// Done is closed once the task has finished
func (t *ImageTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx ends. The URL is "" when no
// image was produced.
func (t *ImageTask) Wait(ctx context.Context) (string, error) {
	select {
	case <-t.done:
		return t.url, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Cancel stops the task. The task still closes Done.
func (t *ImageTask) Cancel() {
	t.cancel()
}

// Deadline is when the task gives up on the image
func (t *ImageTask) Deadline() time.Time {
	return t.deadline
}

// BuildImagePrompt describes a food photograph of the recipe
func BuildImagePrompt(title, description string) string {
	basePrompt := "A professional food photography shot of "

	subject := strings.ToLower(strings.TrimSpace(title))
	if d := strings.TrimSpace(description); d != "" {
		subject += ", " + strings.ToLower(d)
	}

	stylePrompt := ", shot with natural lighting, shallow depth of field, garnished beautifully, restaurant quality presentation, high resolution, food styling, appetizing colors"

	fullPrompt := basePrompt + subject + stylePrompt
	if len(fullPrompt) > maxImagePromptLength {
		fullPrompt = truncateUTF8(fullPrompt, maxImagePromptLength)
	}
	return fullPrompt
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
