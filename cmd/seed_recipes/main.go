package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/llm"
	"github.com/pageza/recipebox/backend/internal/logger"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
)

const batchSize = 5 // Number of recipes to generate before pausing

var pantries = [][]string{
	{"spaghetti", "garlic", "olive oil", "chili flakes", "parmesan"},
	{"chickpeas", "spinach", "coconut milk", "curry paste", "rice"},
	{"eggs", "bread", "milk", "cinnamon", "maple syrup"},
	{"salmon", "lemon", "dill", "potatoes", "butter"},
	{"black beans", "corn", "tortillas", "avocado", "lime"},
	{"chicken thighs", "soy sauce", "ginger", "honey", "broccoli"},
	{"tofu", "mushrooms", "bok choy", "sesame oil", "noodles"},
	{"lentils", "carrots", "onion", "cumin", "tomatoes"},
	{"oats", "banana", "peanut butter", "yogurt", "berries"},
	{"ground beef", "bell peppers", "onion", "paprika", "rice"},
	{"shrimp", "garlic", "butter", "parsley", "linguine"},
	{"cauliflower", "tahini", "lemon", "chickpeas", "parsley"},
	{"pork chops", "apples", "sage", "onion", "cider"},
	{"quinoa", "cucumber", "feta", "olives", "tomatoes"},
	{"sweet potatoes", "black beans", "chili powder", "lime", "cilantro"},
}

func main() {
	count := flag.Int("count", len(pantries), "Number of recipes to generate")
	author := flag.String("author", "", "Author id for the seeded recipes (random when empty)")
	withImages := flag.Bool("images", false, "Generate images for seeded recipes")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: "console", Development: true})
	defer func() { _ = log.Sync() }()

	authorID := uuid.New()
	if *author != "" {
		if authorID, err = uuid.Parse(*author); err != nil {
			log.Fatal("invalid author id", zap.String("author", *author), zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()
	if err := database.RunMigrations(db, cfg.Database.MigrationsDir, log); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
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

	// Seeding runs without S3; images keep the model URL or the placeholder
	images := service.NewImageService(
		llm.NewImageClient(aiOpts, cfg.AI.ImageTimeout, log),
		storage.NewObjectStore(nil, cfg.Storage, log),
		cfg.Storage.Folder,
		nil,
		log,
	)
	recipes := service.NewRecipeService(repository.NewRecipeRepository(db), log)
	generator := service.NewGenerationService(llm.NewChatClient(aiOpts, log), images, nil, recipes, service.GenerationConfig{
		MaxIngredients: cfg.AI.MaxIngredients,
		ImageEnabled:   *withImages,
	}, nil, log)

	created := 0
	for i := 0; i < *count; i++ {
		if ctx.Err() != nil {
			break
		}
		if i > 0 && i%batchSize == 0 {
			// Pause between batches to avoid rate limiting
			time.Sleep(2 * time.Second)
		}

		ingredients := pantries[i%len(pantries)]
		resp, err := generator.Generate(ctx, service.GenerateInput{Ingredients: ingredients, UserID: &authorID})
		if err != nil {
			log.Warn("failed to generate recipe", zap.Strings("ingredients", ingredients), zap.Error(err))
			continue
		}
		if resp.RecipeID == nil {
			log.Warn("generated recipe was not saved", zap.String("title", resp.Title))
			continue
		}

		created++
		log.Info("created recipe", zap.String("title", resp.Title), zap.String("id", resp.RecipeID.String()))
	}

	log.Info("seeding finished", zap.Int("created", created), zap.Int("requested", *count), zap.String("author", authorID.String()))
	if created == 0 && *count > 0 {
		os.Exit(1)
	}
}
