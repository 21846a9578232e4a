package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/apperror"
	"github.com/pageza/recipebox/backend/internal/mapper"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// UserHandler exposes public profiles from the user service together with
// the recipes stored here
type UserHandler struct {
	users   UserDirectory
	recipes *service.RecipeService
	logger  *zap.Logger
}

func NewUserHandler(users UserDirectory, recipes *service.RecipeService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:   users,
		recipes: recipes,
		logger:  logger.Named("users"),
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/:id", h.GetUser)
		users.GET("/:id/recipes", h.GetUserRecipes)
	}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if h.users == nil {
		fail(c, apperror.Unavailable("user service is not configured", nil))
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) GetUserRecipes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if h.users == nil {
		fail(c, apperror.Unavailable("user service is not configured", nil))
		return
	}
	var page types.Pagination
	if !bindQuery(c, &page) {
		return
	}
	page.Normalize()

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	recipes, total, err := h.recipes.ListByAuthor(c.Request.Context(), id, page)
	if err != nil {
		fail(c, err)
		return
	}

	responses := mapper.RecipesToResponses(recipes)
	for i := range responses {
		responses[i].Author = user
	}

	c.JSON(http.StatusOK, types.UserRecipesResponse{
		User:    *user,
		Recipes: responses,
		Total:   total,
	})
}
