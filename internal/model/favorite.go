package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteRecipe struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_recipe_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_recipe_user;index"`
}

func (FavoriteRecipe) TableName() string {
	return "recipe_favorites"
}

func (f *FavoriteRecipe) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
