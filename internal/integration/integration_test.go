// Package integration drives the assembled HTTP stack against fake model,
// object storage and user service backends.
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/cache"
	"github.com/pageza/recipebox/backend/internal/llm"
	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/router"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/testingutils"
	"github.com/pageza/recipebox/backend/internal/types"
	"github.com/pageza/recipebox/backend/internal/userclient"
)

const chefRecipe = `{
  "title": "Garlic Butter Rice",
  "description": "Fluffy rice tossed in garlic butter",
  "ingredients": ["1 cup rice", "2 cloves garlic", "2 tbsp butter"],
  "instructions": ["Cook the rice.", "Melt butter with garlic.", "Toss together."],
  "macros": {"calories": 380, "proteinGrams": 6, "carbsGrams": 60, "fatGrams": 12},
  "difficulty": "easy",
  "servings": 2,
  "tags": ["side"]
}`

// fakeAI imitates the chat and image endpoints of an OpenAI-compatible API
type fakeAI struct {
	server      *httptest.Server
	mu          sync.Mutex
	chatReply   string
	chatCalls   int32
	imageCalls  int32
	imageStatus int
}

func newFakeAI(t *testing.T) *fakeAI {
	t.Helper()
	f := &fakeAI{chatReply: chefRecipe, imageStatus: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.chatCalls, 1)
		f.mu.Lock()
		reply := f.chatReply
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "```json\n" + reply + "\n```"}},
			},
		})
	})
	mux.HandleFunc("/images/generations", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.imageCalls, 1)
		f.mu.Lock()
		status := f.imageStatus
		f.mu.Unlock()
		if status != http.StatusOK {
			http.Error(w, `{"error":"quota"}`, status)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"created": time.Now().Unix(),
			"data":    []map[string]string{{"url": f.server.URL + "/tmp/image.png"}},
		})
	})
	mux.HandleFunc("/tmp/image.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG fake image"))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAI) setChatReply(reply string) {
	f.mu.Lock()
	f.chatReply = reply
	f.mu.Unlock()
}

// fakeBucket records S3 puts
type fakeBucket struct {
	mu   sync.Mutex
	keys []string
}

func (b *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys = append(b.keys, aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

func (b *fakeBucket) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.keys...)
}

type stack struct {
	router *gin.Engine
	ai     *fakeAI
	bucket *fakeBucket
	chef   types.User
}

func newStack(t *testing.T) *stack {
	t.Helper()
	logger := zap.NewNop()
	chef := types.User{ID: uuid.New(), Username: "chef"}

	users := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/users/"+chef.ID.String():
			_ = json.NewEncoder(w).Encode(chef)
		case r.URL.Path == "/api/v1/users":
			found := []types.User{}
			if strings.Contains(r.URL.Query().Get("ids"), chef.ID.String()) {
				found = append(found, chef)
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"users": found})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(users.Close)

	ai := newFakeAI(t)
	bucket := &fakeBucket{}
	db := testingutils.NewTestDB(t)
	collector := metrics.NewCollector()

	aiOpts := llm.Options{
		BaseURL:    ai.server.URL,
		APIKey:     "test-key",
		ChatModel:  "chat-test",
		ImageModel: "image-test",
		Timeout:    5 * time.Second,
	}
	store := storage.NewObjectStore(bucket, config.StorageConfig{
		Bucket:         "recipes",
		Region:         "us-east-1",
		PlaceholderURL: "https://placehold.test/recipe.png",
		Timeout:        5 * time.Second,
	}, logger)
	images := service.NewImageService(llm.NewImageClient(aiOpts, 5*time.Second, logger), store, "", collector, logger)

	recipeRepo := repository.NewRecipeRepository(db)
	recipes := service.NewRecipeService(recipeRepo, logger)
	memCache := cache.NewMemoryCache(100, 0)
	generator := service.NewGenerationService(llm.NewChatClient(aiOpts, logger), images, memCache, recipes, service.GenerationConfig{
		MaxIngredients: 20,
		ImageEnabled:   true,
		CacheTTL:       time.Hour,
	}, collector, logger)

	directory := userclient.New(config.UserServiceConfig{
		BaseURL:         users.URL,
		Timeout:         2 * time.Second,
		BreakerFailures: 5,
		BreakerTimeout:  time.Minute,
	}, collector, logger)
	validator := middleware.NewJWTValidator(testingutils.TestJWTSecret, "")
	limiter := middleware.NewGenerationRateLimiter(middleware.NewLocalStore(), 100, time.Hour, logger)

	engine := router.SetupRouter(router.Handlers{
		Health:     api.NewHealthHandler(db, nil),
		Recipes:    api.NewRecipeHandler(recipes, directory, validator, logger),
		Comments:   api.NewCommentHandler(service.NewCommentService(repository.NewCommentRepository(db), recipeRepo, logger), validator, logger),
		Favorites:  api.NewFavoriteHandler(service.NewFavoriteService(repository.NewFavoriteRepository(db), recipeRepo), directory, validator, logger),
		Votes:      api.NewVoteHandler(service.NewVoteService(repository.NewVoteRepository(db), recipeRepo), validator),
		Generation: api.NewGenerationHandler(generator, images, 5*time.Second, validator, limiter, logger),
		Users:      api.NewUserHandler(directory, recipes, logger),
	}, router.Options{Metrics: collector, Logger: logger})

	require.NotNil(t, engine)
	return &stack{router: engine, ai: ai, bucket: bucket, chef: chef}
}
