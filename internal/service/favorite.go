package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/apperror"
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/types"
)

// FavoriteService tracks users' favorite recipes
type FavoriteService struct {
	favorites FavoriteRepository
	recipes   RecipeRepository
}

func NewFavoriteService(favorites FavoriteRepository, recipes RecipeRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, recipes: recipes}
}

// Add favorites the recipe. Favoriting twice is not an error.
func (s *FavoriteService) Add(ctx context.Context, recipeID, userID uuid.UUID) (*model.FavoriteRecipe, error) {
	if err := requireRecipe(ctx, s.recipes, recipeID); err != nil {
		return nil, err
	}

	fav, err := s.favorites.Add(ctx, recipeID, userID)
	if err != nil {
		return nil, apperror.Internal("failed to favorite recipe", err)
	}
	return fav, nil
}

// Remove unfavorites the recipe. Removing a missing favorite is not an error.
func (s *FavoriteService) Remove(ctx context.Context, recipeID, userID uuid.UUID) error {
	if err := s.favorites.Remove(ctx, recipeID, userID); err != nil {
		return apperror.Internal("failed to remove favorite", err)
	}
	return nil
}

func (s *FavoriteService) IsFavorite(ctx context.Context, recipeID, userID uuid.UUID) (bool, error) {
	ok, err := s.favorites.Exists(ctx, recipeID, userID)
	if err != nil {
		return false, apperror.Internal("failed to load favorite", err)
	}
	return ok, nil
}

// List returns the user's favorite recipes
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID, page types.Pagination) ([]model.Recipe, int64, error) {
	page.Normalize()
	recipes, total, err := s.favorites.ListRecipes(ctx, userID, page.Offset(), page.PageSize)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list favorites", err)
	}
	return recipes, total, nil
}
