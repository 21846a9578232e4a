package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/apperror"
	"github.com/pageza/recipebox/backend/internal/mapper"
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	recipes RecipeRepository
	logger  *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(recipes RecipeRepository, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		recipes: recipes,
		logger:  logger.Named("recipes"),
	}
}

// Save stores a fully built recipe, computing its search embedding
func (s *RecipeService) Save(ctx context.Context, recipe *model.Recipe) error {
	recipe.Embedding = RecipeEmbedding(recipe)
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return apperror.Internal("failed to save recipe", err)
	}
	return nil
}

// Create stores a recipe authored by the caller
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*model.Recipe, error) {
	recipe := mapper.CreateRequestToRecipe(req, authorID)
	if err := s.Save(ctx, recipe); err != nil {
		return nil, err
	}
	s.logger.Info("created recipe", zap.String("recipe_id", recipe.ID.String()), zap.String("author_id", authorID.String()))
	return recipe, nil
}

// Get retrieves a recipe by ID
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "recipe not found", "failed to load recipe")
	}
	return recipe, nil
}

// Update applies the present fields of req. Only the author may update.
func (s *RecipeService) Update(ctx context.Context, id, userID uuid.UUID, req *types.UpdateRecipeRequest) (*model.Recipe, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.AuthorID != userID {
		return nil, apperror.Forbidden("only the author can edit this recipe")
	}

	updated := mapper.ApplyUpdate(current, req)
	updated.Embedding = RecipeEmbedding(updated)
	if err := s.recipes.Update(ctx, updated); err != nil {
		return nil, notFoundOr(err, "recipe not found", "failed to update recipe")
	}
	return updated, nil
}

// Delete soft-deletes the recipe. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.AuthorID != userID {
		return apperror.Forbidden("only the author can delete this recipe")
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return notFoundOr(err, "recipe not found", "failed to delete recipe")
	}
	s.logger.Info("deleted recipe", zap.String("recipe_id", id.String()))
	return nil
}

// List returns a page of recipes matching the filter
func (s *RecipeService) List(ctx context.Context, filter types.RecipeFilter) ([]model.Recipe, int64, error) {
	filter.Normalize()

	var queryVector pgvector.Vector
	if filter.Query != "" {
		queryVector = GenerateEmbedding(filter.Query)
	}

	recipes, total, err := s.recipes.List(ctx, filter, queryVector)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list recipes", err)
	}
	return recipes, total, nil
}

// ListByAuthor returns a page of the author's recipes
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uuid.UUID, page types.Pagination) ([]model.Recipe, int64, error) {
	return s.List(ctx, types.RecipeFilter{AuthorID: &authorID, Page: page.Page, PageSize: page.PageSize})
}

// Exists returns a NotFound error when the recipe is missing
func (s *RecipeService) Exists(ctx context.Context, id uuid.UUID) error {
	return requireRecipe(ctx, s.recipes, id)
}

func requireRecipe(ctx context.Context, recipes RecipeRepository, id uuid.UUID) error {
	ok, err := recipes.Exists(ctx, id)
	if err != nil {
		return apperror.Internal("failed to load recipe", err)
	}
	if !ok {
		return apperror.NotFound("recipe not found")
	}
	return nil
}

func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(notFound)
	}
	return apperror.Internal(internal, err)
}
