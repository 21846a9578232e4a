// Package mapper converts between persisted models, pipeline drafts and
// transfer objects. Every function is pure.
package mapper

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/generation"
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/types"
)

// RecipeToResponse converts a stored recipe to its public view
func RecipeToResponse(r *model.Recipe) types.RecipeResponse {
	return types.RecipeResponse{
		ID:                 r.ID,
		Title:              r.Title,
		Description:        r.Description,
		Ingredients:        copyStrings(r.Ingredients),
		Instructions:       r.Instructions,
		TotalTimeMinutes:   r.TotalTimeMinutes,
		Macros:             macrosToDTO(r.Macros),
		Difficulty:         r.Difficulty,
		ServingSuggestions: r.ServingSuggestions,
		Tags:               copyStrings(r.Tags),
		ImageURL:           r.ImageURL,
		AIGenerated:        r.AIGenerated,
		AuthorID:           r.AuthorID,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// RecipesToResponses converts a slice of stored recipes
func RecipesToResponses(recipes []model.Recipe) []types.RecipeResponse {
	out := make([]types.RecipeResponse, len(recipes))
	for i := range recipes {
		out[i] = RecipeToResponse(&recipes[i])
	}
	return out
}

// DraftToRecipe builds an owned, persistable copy of a normalized draft
func DraftToRecipe(d *generation.RecipeDraft, authorID uuid.UUID, imageURL string) *model.Recipe {
	r := &model.Recipe{
		Title:              d.Title,
		Description:        d.Description,
		Ingredients:        copyStrings(d.Ingredients),
		Instructions:       d.Instructions,
		TotalTimeMinutes:   d.TotalTimeMinutes,
		Difficulty:         string(d.Difficulty),
		ServingSuggestions: d.ServingSuggestions,
		Tags:               copyStrings(d.Tags),
		ImageURL:           imageURL,
		AIGenerated:        d.AIGenerated,
		AuthorID:           authorID,
	}
	if d.Macros != nil {
		r.Macros = model.Macros{
			Calories:     d.Macros.Calories,
			ProteinGrams: d.Macros.ProteinGrams,
			CarbsGrams:   d.Macros.CarbsGrams,
			FatGrams:     d.Macros.FatGrams,
		}
	}
	return r
}

// DraftToGeneratedResponse builds the simplified generation response
func DraftToGeneratedResponse(d *generation.RecipeDraft, imageURL string, recipeID *uuid.UUID) *types.GeneratedRecipeResponse {
	resp := &types.GeneratedRecipeResponse{
		Title:              d.Title,
		Description:        d.Description,
		Instructions:       d.Instructions,
		Ingredients:        copyStrings(d.Ingredients),
		TotalTimeMinutes:   d.TotalTimeMinutes,
		Difficulty:         string(d.Difficulty),
		ServingSuggestions: d.ServingSuggestions,
		RecipeID:           recipeID,
	}
	if imageURL != "" {
		url := imageURL
		resp.ImageURL = &url
	}
	if d.Macros != nil {
		resp.Macros = types.Macros{
			Calories:     d.Macros.Calories,
			ProteinGrams: d.Macros.ProteinGrams,
			CarbsGrams:   d.Macros.CarbsGrams,
			FatGrams:     d.Macros.FatGrams,
		}
	}
	return resp
}

// CreateRequestToRecipe converts a create request into a new recipe. Missing
// difficulty and total time are filled the same way generated drafts are.
func CreateRequestToRecipe(req *types.CreateRecipeRequest, authorID uuid.UUID) *model.Recipe {
	draft := &generation.RecipeDraft{
		Title:              strings.TrimSpace(req.Title),
		Description:        strings.TrimSpace(req.Description),
		Ingredients:        trimAll(req.Ingredients),
		Instructions:       strings.TrimSpace(req.Instructions),
		TotalTimeMinutes:   req.TotalTimeMinutes,
		ServingSuggestions: strings.TrimSpace(req.ServingSuggestions),
		Tags:               trimAll(req.Tags),
	}
	if d, ok := generation.ParseDifficulty(req.Difficulty); ok {
		draft.Difficulty = d
	}
	if req.Macros != nil {
		draft.Macros = &generation.Macros{
			Calories:     req.Macros.Calories,
			ProteinGrams: req.Macros.ProteinGrams,
			CarbsGrams:   req.Macros.CarbsGrams,
			FatGrams:     req.Macros.FatGrams,
		}
	}

	return DraftToRecipe(generation.Normalize(draft), authorID, strings.TrimSpace(req.ImageURL))
}

// ApplyUpdate copies the fields present in req onto a copy of r
func ApplyUpdate(r *model.Recipe, req *types.UpdateRecipeRequest) *model.Recipe {
	out := *r
	out.Ingredients = copyStrings(r.Ingredients)
	out.Tags = copyStrings(r.Tags)

	if req.Title != nil {
		out.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		out.Description = strings.TrimSpace(*req.Description)
	}
	if req.Ingredients != nil {
		out.Ingredients = trimAll(req.Ingredients)
	}
	if req.Instructions != nil {
		out.Instructions = strings.TrimSpace(*req.Instructions)
	}
	if req.TotalTimeMinutes != nil {
		out.TotalTimeMinutes = *req.TotalTimeMinutes
	}
	if req.Macros != nil {
		out.Macros = model.Macros{
			Calories:     max(0, req.Macros.Calories),
			ProteinGrams: max(0, req.Macros.ProteinGrams),
			CarbsGrams:   max(0, req.Macros.CarbsGrams),
			FatGrams:     max(0, req.Macros.FatGrams),
		}
	}
	if req.Difficulty != nil {
		if d, ok := generation.ParseDifficulty(*req.Difficulty); ok {
			out.Difficulty = string(d)
		}
	}
	if req.ServingSuggestions != nil {
		out.ServingSuggestions = strings.TrimSpace(*req.ServingSuggestions)
	}
	if req.Tags != nil {
		out.Tags = trimAll(req.Tags)
	}
	if req.ImageURL != nil {
		out.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	return &out
}

func macrosToDTO(m model.Macros) types.Macros {
	return types.Macros{
		Calories:     m.Calories,
		ProteinGrams: m.ProteinGrams,
		CarbsGrams:   m.CarbsGrams,
		FatGrams:     m.FatGrams,
	}
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
