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

type FavoriteHandler struct {
	favorites *service.FavoriteService
	users     UserDirectory
	validator middleware.TokenValidator
	logger    *zap.Logger
}

func NewFavoriteHandler(favorites *service.FavoriteService, users UserDirectory, validator middleware.TokenValidator, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favorites: favorites,
		users:     users,
		validator: validator,
		logger:    logger.Named("favorites"),
	}
}

func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.validator)

	router.POST("/recipes/:id/favorite", auth, h.AddFavorite)
	router.GET("/recipes/:id/favorite", auth, h.GetFavorite)
	router.DELETE("/recipes/:id/favorite", auth, h.RemoveFavorite)
	router.GET("/favorites", auth, h.ListFavorites)
}

func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	favorite, err := h.favorites.Add(c.Request.Context(), recipeID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.FavoriteToResponse(favorite))
}

// GetFavorite reports whether the caller has favorited the recipe
func (h *FavoriteHandler) GetFavorite(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	favorited, err := h.favorites.IsFavorite(c.Request.Context(), recipeID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, types.FavoriteResponse{
		RecipeID:  recipeID,
		UserID:    userID,
		Favorited: favorited,
	})
}

func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.favorites.Remove(c.Request.Context(), recipeID, userID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, types.FavoriteResponse{
		RecipeID:  recipeID,
		UserID:    userID,
		Favorited: false,
	})
}

// ListFavorites returns the caller's favorited recipes, most recent first
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var page types.Pagination
	if !bindQuery(c, &page) {
		return
	}
	page.Normalize()

	recipes, total, err := h.favorites.List(c.Request.Context(), userID, page)
	if err != nil {
		fail(c, err)
		return
	}

	responses := mapper.RecipesToResponses(recipes)
	attachAuthors(c.Request.Context(), h.users, h.logger, responses)

	c.JSON(http.StatusOK, types.RecipeListResponse{
		Recipes:  responses,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}
