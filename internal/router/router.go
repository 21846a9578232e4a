package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/middleware"
)

// Handlers groups the API handlers mounted by SetupRouter. Nil handlers are
// skipped.
type Handlers struct {
	Health     *api.HealthHandler
	Recipes    *api.RecipeHandler
	Comments   *api.CommentHandler
	Favorites  *api.FavoriteHandler
	Votes      *api.VoteHandler
	Generation *api.GenerationHandler
	Users      *api.UserHandler
}

// Options configures the middleware stack
type Options struct {
	AllowedOrigins []string
	Metrics        *metrics.Collector
	Logger         *zap.Logger
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(opts.AllowedOrigins),
	)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.HTTPMiddleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	router.Use(middleware.ErrorHandler(logger))
	router.NoRoute(middleware.NotFound())

	if h.Health != nil {
		h.Health.RegisterRoutes(router)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	if h.Recipes != nil {
		h.Recipes.RegisterRoutes(v1)
	}
	if h.Comments != nil {
		h.Comments.RegisterRoutes(v1)
	}
	if h.Favorites != nil {
		h.Favorites.RegisterRoutes(v1)
	}
	if h.Votes != nil {
		h.Votes.RegisterRoutes(v1)
	}
	if h.Generation != nil {
		h.Generation.RegisterRoutes(v1)
	}
	if h.Users != nil {
		h.Users.RegisterRoutes(v1)
	}

	return router
}
