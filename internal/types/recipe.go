package types

import (
	"time"

	"github.com/google/uuid"
)

// Macros is the nutrition block shared by recipe payloads
type Macros struct {
	Calories     float64 `json:"calories"`
	ProteinGrams float64 `json:"proteinGrams"`
	CarbsGrams   float64 `json:"carbsGrams"`
	FatGrams     float64 `json:"fatGrams"`
}

// RecipeResponse is the public view of a stored recipe
type RecipeResponse struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Ingredients        []string  `json:"ingredients"`
	Instructions       string    `json:"instructions"`
	TotalTimeMinutes   int       `json:"totalTimeMinutes"`
	Macros             Macros    `json:"macros"`
	Difficulty         string    `json:"difficulty"`
	ServingSuggestions string    `json:"servingSuggestions"`
	Tags               []string  `json:"tags"`
	ImageURL           string    `json:"imageUrl,omitempty"`
	AIGenerated        bool      `json:"aiGenerated"`
	AuthorID           uuid.UUID `json:"authorId"`
	Author             *User     `json:"author,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title              string   `json:"title" binding:"required,max=255"`
	Description        string   `json:"description" binding:"max=5000"`
	Ingredients        []string `json:"ingredients" binding:"required,min=1,dive,required"`
	Instructions       string   `json:"instructions" binding:"required"`
	TotalTimeMinutes   int      `json:"totalTimeMinutes" binding:"gte=0"`
	Macros             *Macros  `json:"macros"`
	Difficulty         string   `json:"difficulty" binding:"omitempty,oneof=EASY MEDIUM HARD easy medium hard"`
	ServingSuggestions string   `json:"servingSuggestions"`
	Tags               []string `json:"tags"`
	ImageURL           string   `json:"imageUrl" binding:"omitempty,url"`
}

// UpdateRecipeRequest represents the request body for updating a recipe.
// Omitted fields keep their stored value.
type UpdateRecipeRequest struct {
	Title              *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Description        *string  `json:"description"`
	Ingredients        []string `json:"ingredients" binding:"omitempty,dive,required"`
	Instructions       *string  `json:"instructions"`
	TotalTimeMinutes   *int     `json:"totalTimeMinutes" binding:"omitempty,gt=0"`
	Macros             *Macros  `json:"macros"`
	Difficulty         *string  `json:"difficulty" binding:"omitempty,oneof=EASY MEDIUM HARD easy medium hard"`
	ServingSuggestions *string  `json:"servingSuggestions"`
	Tags               []string `json:"tags"`
	ImageURL           *string  `json:"imageUrl" binding:"omitempty,url"`
}

// RecipeFilter narrows recipe listings
type RecipeFilter struct {
	Query      string     `form:"q"`
	Difficulty string     `form:"difficulty"`
	AuthorID   *uuid.UUID `form:"-"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// Normalize clamps paging values
func (f *RecipeFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
}

// Offset returns the row offset for the current page
func (f RecipeFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// RecipeListResponse is a page of recipes
type RecipeListResponse struct {
	Recipes  []RecipeResponse `json:"recipes"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}
