package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/apperror"
	"github.com/pageza/recipebox/backend/internal/cache"
	"github.com/pageza/recipebox/backend/internal/generation"
	"github.com/pageza/recipebox/backend/internal/mapper"
	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/types"
)

// Generation outcomes reported to metrics
const (
	OutcomeGenerated  = "generated"
	OutcomeCached     = "cached"
	OutcomeRejected   = "rejected"
	OutcomeModelError = "model_error"
	OutcomeParseError = "parse_error"
)

// GenerationConfig tunes the generation pipeline
type GenerationConfig struct {
	MaxIngredients int
	ImageEnabled   bool
	CacheTTL       time.Duration
}

// GenerateInput is one generation request. UserID is nil for anonymous
// callers, in which case nothing is persisted.
type GenerateInput struct {
	Ingredients []string
	UserID      *uuid.UUID
}

// GenerationService turns an ingredient list into a complete recipe
type GenerationService struct {
	chat    ChatModel
	images  RecipeImager
	cache   cache.GenerationCache
	recipes RecipeSaver
	cfg     GenerationConfig
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewGenerationService wires the pipeline. A nil cache disables caching and a
// nil recipe saver disables persistence.
func NewGenerationService(
	chat ChatModel,
	images RecipeImager,
	generationCache cache.GenerationCache,
	recipes RecipeSaver,
	cfg GenerationConfig,
	m *metrics.Collector,
	logger *zap.Logger,
) *GenerationService {
	if generationCache == nil {
		generationCache = cache.Noop{}
	}
	if cfg.MaxIngredients <= 0 {
		cfg.MaxIngredients = generation.DefaultMaxIngredients
	}
	return &GenerationService{
		chat:    chat,
		images:  images,
		cache:   generationCache,
		recipes: recipes,
		cfg:     cfg,
		metrics: m,
		logger:  logger.Named("generation"),
	}
}

// Generate runs the full pipeline. It returns a complete recipe whose image
// URL may be nil, or a single GenerationFailure.
func (s *GenerationService) Generate(ctx context.Context, in GenerateInput) (*types.GeneratedRecipeResponse, error) {
	ingredients := generation.CleanIngredients(in.Ingredients, s.cfg.MaxIngredients)
	key := cache.Key(ingredients)

	if cached, ok := s.lookup(ctx, key); ok {
		s.metrics.GenerationOutcome(OutcomeCached)
		resp := mapper.DraftToGeneratedResponse(cached.Draft, cached.ImageURL, nil)
		s.persist(ctx, resp, cached.Draft, cached.ImageURL, in.UserID)
		return resp, nil
	}

	token := generation.NewUniquenessToken()
	prompt := generation.BuildPrompt(ingredients, token)

	start := time.Now()
	content, err := s.chat.Complete(ctx, generation.SystemPrompt, prompt)
	s.metrics.ModelCall("chat", err, time.Since(start))
	if err != nil {
		s.metrics.GenerationOutcome(OutcomeModelError)
		s.logger.Error("language model call failed", zap.Int("ingredients", len(ingredients)), zap.Error(err))
		return nil, apperror.Generation("recipe generation failed", err)
	}

	draft, err := generation.ParseResponse(content)
	if err != nil {
		s.metrics.GenerationOutcome(parseOutcome(content, err))
		s.logger.Warn("could not use model response", zap.String("token", token), zap.Error(err))
		return nil, err
	}
	draft = generation.Normalize(draft)

	imageURL := ""
	if s.cfg.ImageEnabled && s.images != nil && strings.TrimSpace(draft.Title) != "" {
		imageURL = s.images.GenerateImage(ctx, draft.Title, draft.Description)
		if imageURL == "" {
			s.logger.Warn("continuing without image", zap.String("title", draft.Title))
		}
	}

	resp := mapper.DraftToGeneratedResponse(draft, imageURL, nil)
	s.store(ctx, key, &cachedGeneration{Draft: draft, ImageURL: imageURL})
	s.persist(ctx, resp, draft, imageURL, in.UserID)

	s.metrics.GenerationOutcome(OutcomeGenerated)
	s.logger.Info("generated recipe",
		zap.String("title", resp.Title),
		zap.Int("ingredients", len(ingredients)),
		zap.Bool("image", resp.ImageURL != nil),
	)
	return resp, nil
}

// Invalidate drops the cached generation for the ingredient list
func (s *GenerationService) Invalidate(ctx context.Context, ingredients []string) error {
	key := cache.Key(generation.CleanIngredients(ingredients, s.cfg.MaxIngredients))
	return s.cache.Delete(ctx, key)
}

// cachedGeneration is the cache value for one ingredient list. It keeps the
// normalized draft so a hit persists the same recipe a fresh call would.
type cachedGeneration struct {
	Draft    *generation.RecipeDraft `json:"draft"`
	ImageURL string                  `json:"imageUrl,omitempty"`
}

func (s *GenerationService) lookup(ctx context.Context, key string) (*cachedGeneration, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("generation cache read failed", zap.Error(err))
		}
		s.metrics.CacheLookup(false)
		return nil, false
	}

	var entry cachedGeneration
	if err := json.Unmarshal(data, &entry); err != nil || entry.Draft == nil || strings.TrimSpace(entry.Draft.Title) == "" {
		s.logger.Warn("discarding unreadable cache entry", zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		s.metrics.CacheLookup(false)
		return nil, false
	}
	s.metrics.CacheLookup(true)
	return &entry, true
}

// store caches the draft and image URL. Recipe ids belong to one user and
// are never cached.
func (s *GenerationService) store(ctx context.Context, key string, entry *cachedGeneration) {
	if s.cfg.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		s.logger.Warn("could not encode cache entry", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("generation cache write failed", zap.Error(err))
	}
}

// persist saves an owned copy of the draft for known users and sets the
// recipe id on resp. Failures are logged and resp goes out without an id.
func (s *GenerationService) persist(ctx context.Context, resp *types.GeneratedRecipeResponse, draft *generation.RecipeDraft, imageURL string, userID *uuid.UUID) {
	if userID == nil || s.recipes == nil {
		return
	}
	recipe := mapper.DraftToRecipe(draft, *userID, imageURL)
	if err := s.recipes.Save(ctx, recipe); err != nil {
		s.logger.Error("could not save generated recipe",
			zap.String("title", resp.Title),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return
	}
	resp.RecipeID = &recipe.ID
}

// parseOutcome tells a rejection payload apart from unusable output. Both
// are generation failures; only rejections carry no cause.
func parseOutcome(content string, err error) string {
	appErr, ok := apperror.As(err)
	if ok && appErr.Cause == nil && generation.StripFences(content) != "" {
		return OutcomeRejected
	}
	return OutcomeParseError
}
