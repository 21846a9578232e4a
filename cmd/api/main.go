package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/cache"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/llm"
	"github.com/pageza/recipebox/backend/internal/logger"
	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/router"
	"github.com/pageza/recipebox/backend/internal/server"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/userclient"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "recipebox: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: !cfg.Environment.IsProduction(),
	})
	defer func() { _ = log.Sync() }()

	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := database.RunMigrations(db, cfg.Database.MigrationsDir, log); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedisClient(cfg.Redis, log)
		if err != nil {
			// generation cache and rate limits fall back to process memory
			log.Warn("redis unavailable, using in-memory fallbacks", zap.Error(err))
			redisClient = nil
		} else {
			defer func() { _ = redisClient.Close() }()
		}
	}

	collector := metrics.NewCollector()

	generationCache, closeCache := newGenerationCache(cfg.AI, redisClient, log)
	defer closeCache()

	objectStore, err := newObjectStore(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}

	aiOpts := llm.Options{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		ChatModel:   cfg.AI.ChatModel,
		ImageModel:  cfg.AI.ImageModel,
		ImageSize:   cfg.AI.ImageSize,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
		MaxRetries:  cfg.AI.MaxRetries,
	}
	chat := llm.NewChatClient(aiOpts, log)
	images := service.NewImageService(
		llm.NewImageClient(aiOpts, cfg.AI.ImageTimeout, log),
		objectStore,
		cfg.Storage.Folder,
		collector,
		log,
	)

	recipeRepo := repository.NewRecipeRepository(db)
	recipes := service.NewRecipeService(recipeRepo, log)
	comments := service.NewCommentService(repository.NewCommentRepository(db), recipeRepo, log)
	favorites := service.NewFavoriteService(repository.NewFavoriteRepository(db), recipeRepo)
	votes := service.NewVoteService(repository.NewVoteRepository(db), recipeRepo)

	generator := service.NewGenerationService(chat, images, generationCache, recipes, service.GenerationConfig{
		MaxIngredients: cfg.AI.MaxIngredients,
		ImageEnabled:   cfg.AI.ImageGenerationEnabled,
		CacheTTL:       cfg.AI.CacheTTL,
	}, collector, log)

	users := userclient.New(cfg.UserService, collector, log)
	validator := middleware.NewJWTValidator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewGenerationRateLimiter(
			rateLimitStore(redisClient),
			cfg.RateLimit.GenerationLimit,
			cfg.RateLimit.Window,
			log,
		)
	}

	var imager api.AsyncImager
	if cfg.AI.ImageGenerationEnabled {
		imager = images
	}

	engine := router.SetupRouter(router.Handlers{
		Health:     api.NewHealthHandler(db, redisClient),
		Recipes:    api.NewRecipeHandler(recipes, users, validator, log),
		Comments:   api.NewCommentHandler(comments, validator, log),
		Favorites:  api.NewFavoriteHandler(favorites, users, validator, log),
		Votes:      api.NewVoteHandler(votes, validator),
		Generation: api.NewGenerationHandler(generator, imager, cfg.AI.ImageTimeout, validator, limiter, log),
		Users:      api.NewUserHandler(users, recipes, log),
	}, router.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        collector,
		Logger:         log,
	})

	log.Info("starting recipe api",
		zap.String("environment", string(cfg.Environment)),
		zap.String("database", cfg.Database.Driver),
		zap.Bool("redis", redisClient != nil),
		zap.Bool("object_storage", objectStore.Configured()),
	)

	srv := server.New(cfg.Server, engine, log)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// newGenerationCache picks the configured cache backend. A redis backend
// without a reachable redis falls back to memory.
func newGenerationCache(cfg config.AIConfig, client *redis.Client, log *zap.Logger) (cache.GenerationCache, func()) {
	switch cfg.CacheBackend {
	case "none":
		return cache.Noop{}, func() {}
	case "redis":
		if client != nil {
			return cache.NewRedisCache(client), func() {}
		}
		log.Warn("redis cache requested without redis, using memory cache")
	}
	mem := cache.NewMemoryCache(cfg.CacheMaxEntries, time.Minute)
	return mem, mem.Close
}

func newObjectStore(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*storage.ObjectStore, error) {
	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure object storage: %w", err)
	}
	if s3cfg == nil {
		return storage.NewObjectStore(nil, cfg, log), nil
	}
	return storage.NewObjectStore(s3cfg.Client, cfg, log), nil
}

func rateLimitStore(client *redis.Client) middleware.LimitStore {
	if client != nil {
		return middleware.NewRedisStore(client)
	}
	return middleware.NewLocalStore()
}
