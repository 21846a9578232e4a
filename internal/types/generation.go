package types

import (
	"github.com/google/uuid"
)

// GenerateRecipeRequest is the body of a recipe generation request
type GenerateRecipeRequest struct {
	Ingredients []string `json:"ingredients" binding:"max=200"`
}

// GeneratedRecipeResponse is the simplified recipe returned by generation.
// ImageURL is null when no image could be produced. RecipeID is null when
// the recipe was not persisted.
type GeneratedRecipeResponse struct {
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Instructions       string     `json:"instructions"`
	Ingredients        []string   `json:"ingredients"`
	ImageURL           *string    `json:"imageUrl"`
	TotalTimeMinutes   int        `json:"totalTimeMinutes"`
	Macros             Macros     `json:"macros"`
	Difficulty         string     `json:"difficulty"`
	ServingSuggestions string     `json:"servingSuggestions"`
	RecipeID           *uuid.UUID `json:"recipeId"`
}

// GenerateImageRequest asks for an image for an arbitrary recipe title
type GenerateImageRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"max=2000"`
}

// GenerateImageResponse carries the resulting image URL, null when none
type GenerateImageResponse struct {
	ImageURL *string `json:"imageUrl"`
}
