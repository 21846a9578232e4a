package types

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteResponse confirms a favorite
type FavoriteResponse struct {
	RecipeID  uuid.UUID `json:"recipeId"`
	UserID    uuid.UUID `json:"userId"`
	Favorited bool      `json:"favorited"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
