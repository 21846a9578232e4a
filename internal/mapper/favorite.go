package mapper

import (
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/types"
)

func FavoriteToResponse(f *model.FavoriteRecipe) types.FavoriteResponse {
	return types.FavoriteResponse{
		RecipeID:  f.RecipeID,
		UserID:    f.UserID,
		Favorited: true,
		CreatedAt: f.CreatedAt,
	}
}
