package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebox/backend/internal/model"
)

// FavoriteRepository stores which users favorited which recipes
type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add records the favorite. Adding an existing favorite is a no-op and the
// stored row is returned.
func (r *FavoriteRepository) Add(ctx context.Context, recipeID, userID uuid.UUID) (*model.FavoriteRecipe, error) {
	fav := &model.FavoriteRecipe{RecipeID: recipeID, UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fav).Error
	if err != nil {
		return nil, err
	}

	var stored model.FavoriteRecipe
	err = r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&stored).Error
	if err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, recipeID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Delete(&model.FavoriteRecipe{}).Error
}

func (r *FavoriteRepository) Exists(ctx context.Context, recipeID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FavoriteRecipe{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListRecipes returns the user's favorite recipes, most recently favorited first
func (r *FavoriteRepository) ListRecipes(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Recipe{}).
		Joins("JOIN recipe_favorites ON recipe_favorites.recipe_id = recipes.id").
		Where("recipe_favorites.user_id = ?", userID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []model.Recipe
	err := query.Order("recipe_favorites.created_at DESC").Offset(offset).Limit(limit).Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}
