package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/apperror"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// RecipeGenerator runs the generation pipeline
type RecipeGenerator interface {
	Generate(ctx context.Context, in service.GenerateInput) (*types.GeneratedRecipeResponse, error)
}

// AsyncImager starts background image generation
type AsyncImager interface {
	GenerateImageAsync(ctx context.Context, title, description string, timeout time.Duration) *service.ImageTask
}

type GenerationHandler struct {
	generator    RecipeGenerator
	imager       AsyncImager
	imageTimeout time.Duration
	validator    middleware.TokenValidator
	limiter      *middleware.RateLimiter
	logger       *zap.Logger
}

// NewGenerationHandler creates the generation endpoints. limiter may be nil
// to disable rate limiting.
func NewGenerationHandler(
	generator RecipeGenerator,
	imager AsyncImager,
	imageTimeout time.Duration,
	validator middleware.TokenValidator,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) *GenerationHandler {
	return &GenerationHandler{
		generator:    generator,
		imager:       imager,
		imageTimeout: imageTimeout,
		validator:    validator,
		limiter:      limiter,
		logger:       logger.Named("generate"),
	}
}

func (h *GenerationHandler) RegisterRoutes(router *gin.RouterGroup) {
	chain := []gin.HandlerFunc{middleware.AuthMiddleware(h.validator)}
	if h.limiter != nil {
		chain = append(chain, h.limiter.RateLimitMiddleware())
	}

	generate := router.Group("/generate", chain...)
	{
		generate.POST("", h.GenerateRecipe)
		generate.POST("/image", h.GenerateImage)
	}
}

// GenerateRecipe creates a recipe from the posted ingredients and saves it
// for the caller
func (h *GenerationHandler) GenerateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.GenerateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.generator.Generate(c.Request.Context(), service.GenerateInput{
		Ingredients: req.Ingredients,
		UserID:      &userID,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateImage produces an image for a title and waits for the background
// task while the client is connected
func (h *GenerationHandler) GenerateImage(c *gin.Context) {
	if h.imager == nil {
		fail(c, apperror.Unavailable("image generation is disabled", nil))
		return
	}
	var req types.GenerateImageRequest
	if !bindJSON(c, &req) {
		return
	}

	task := h.imager.GenerateImageAsync(c.Request.Context(), req.Title, req.Description, h.imageTimeout)
	url, err := task.Wait(c.Request.Context())
	if err != nil {
		task.Cancel()
		h.logger.Warn("image request ended before the task finished", zap.String("title", req.Title), zap.Error(err))
		fail(c, apperror.Unavailable("image generation did not finish", err))
		return
	}

	var resp types.GenerateImageResponse
	if url != "" {
		resp.ImageURL = &url
	}
	c.JSON(http.StatusOK, resp)
}
