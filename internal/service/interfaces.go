package service

import (
	"context"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
)

// ChatModel completes a system and user prompt pair
type ChatModel interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ImageModel turns a prompt into a temporary image URL
type ImageModel interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ImageStore copies generated images to durable storage
type ImageStore interface {
	Upload(ctx context.Context, in storage.UploadInput) (string, error)
	PlaceholderURL() string
}

// RecipeImager produces an image URL for a recipe, or "" when none could be made
type RecipeImager interface {
	GenerateImage(ctx context.Context, title, description string) string
}

// RecipeSaver persists a recipe built elsewhere
type RecipeSaver interface {
	Save(ctx context.Context, recipe *model.Recipe) error
}

type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, recipe *model.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter types.RecipeFilter, queryVector pgvector.Vector) ([]model.Recipe, int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	ListByRecipe(ctx context.Context, recipeID uuid.UUID, offset, limit int) ([]model.Comment, int64, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type FavoriteRepository interface {
	Add(ctx context.Context, recipeID, userID uuid.UUID) (*model.FavoriteRecipe, error)
	Remove(ctx context.Context, recipeID, userID uuid.UUID) error
	Exists(ctx context.Context, recipeID, userID uuid.UUID) (bool, error)
	ListRecipes(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Recipe, int64, error)
}

type VoteRepository interface {
	Upsert(ctx context.Context, recipeID, userID uuid.UUID, value int) error
	Remove(ctx context.Context, recipeID, userID uuid.UUID) error
	Tally(ctx context.Context, recipeID uuid.UUID) (model.VoteTally, error)
	UserVote(ctx context.Context, recipeID, userID uuid.UUID) (int, error)
}
