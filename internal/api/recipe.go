package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/mapper"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type RecipeHandler struct {
	recipes   *service.RecipeService
	users     UserDirectory
	validator middleware.TokenValidator
	logger    *zap.Logger
}

func NewRecipeHandler(recipes *service.RecipeService, users UserDirectory, validator middleware.TokenValidator, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		users:     users,
		validator: validator,
		logger:    logger.Named("recipes"),
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.validator)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", auth, h.CreateRecipe)
		recipes.PUT("/:id", auth, h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
	}
}

// ListRecipes supports q, difficulty, author, page and page_size
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var filter types.RecipeFilter
	if !bindQuery(c, &filter) {
		return
	}
	if author := c.Query("author"); author != "" {
		id, ok := parseUUID(c, author, "author")
		if !ok {
			return
		}
		filter.AuthorID = &id
	}
	filter.Normalize()

	recipes, total, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	responses := mapper.RecipesToResponses(recipes)
	attachAuthors(c.Request.Context(), h.users, h.logger, responses)

	c.JSON(http.StatusOK, types.RecipeListResponse{
		Recipes:  responses,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	responses := []types.RecipeResponse{mapper.RecipeToResponse(recipe)}
	attachAuthors(c.Request.Context(), h.users, h.logger, responses)

	c.JSON(http.StatusOK, gin.H{"recipe": responses[0]})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": mapper.RecipeToResponse(recipe)})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": mapper.RecipeToResponse(recipe)})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id, userID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe deleted successfully",
		"id":      id,
	})
}
