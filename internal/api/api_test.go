package api

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/apperror"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/testingutils"
	"github.com/pageza/recipebox/backend/internal/types"
)

// fakeUsers stands in for the user service
type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]types.User
	err   error
	calls int
}

func newFakeUsers(users ...types.User) *fakeUsers {
	f := &fakeUsers{users: make(map[uuid.UUID]types.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetUser(_ context.Context, id uuid.UUID) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.New(apperror.CodeUserNotFound, http.StatusNotFound, "user not found")
	}
	return &u, nil
}

func (f *fakeUsers) GetUsers(_ context.Context, ids []uuid.UUID) ([]types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]types.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type apiFixture struct {
	router  *gin.Engine
	db      *gorm.DB
	recipes *service.RecipeService
	users   *fakeUsers
}

func newAPIFixture(t *testing.T, users ...types.User) *apiFixture {
	t.Helper()

	db := testingutils.NewTestDB(t)
	logger := zap.NewNop()
	validator := middleware.NewJWTValidator(testingutils.TestJWTSecret, "")
	directory := newFakeUsers(users...)

	recipeRepo := repository.NewRecipeRepository(db)
	recipes := service.NewRecipeService(recipeRepo, logger)
	comments := service.NewCommentService(repository.NewCommentRepository(db), recipeRepo, logger)
	favorites := service.NewFavoriteService(repository.NewFavoriteRepository(db), recipeRepo)
	votes := service.NewVoteService(repository.NewVoteRepository(db), recipeRepo)

	router := testingutils.SetupTestRouter()
	router.Use(middleware.ErrorHandler(logger))
	v1 := router.Group("/api/v1")
	NewRecipeHandler(recipes, directory, validator, logger).RegisterRoutes(v1)
	NewCommentHandler(comments, validator, logger).RegisterRoutes(v1)
	NewFavoriteHandler(favorites, directory, validator, logger).RegisterRoutes(v1)
	NewVoteHandler(votes, validator).RegisterRoutes(v1)
	NewUserHandler(directory, recipes, logger).RegisterRoutes(v1)

	return &apiFixture{router: router, db: db, recipes: recipes, users: directory}
}

// createRecipe posts a recipe as author and returns the decoded response
func (f *apiFixture) createRecipe(t *testing.T, author uuid.UUID, title string) types.RecipeResponse {
	t.Helper()

	w := testingutils.PerformRequest(f.router, http.MethodPost, "/api/v1/recipes", map[string]interface{}{
		"title":        title,
		"description":  "A simple " + title,
		"ingredients":  []string{"flour", "water", "salt"},
		"instructions": "Mix, rest and bake.",
		"difficulty":   "easy",
	}, testingutils.MakeToken(t, author, "author"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Recipe types.RecipeResponse `json:"recipe"`
	}
	testingutils.DecodeJSON(t, w, &body)
	return body.Recipe
}
