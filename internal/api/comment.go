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

type CommentHandler struct {
	comments  *service.CommentService
	validator middleware.TokenValidator
	logger    *zap.Logger
}

func NewCommentHandler(comments *service.CommentService, validator middleware.TokenValidator, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		comments:  comments,
		validator: validator,
		logger:    logger.Named("comments"),
	}
}

func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.validator)

	router.GET("/recipes/:id/comments", h.ListComments)
	router.POST("/recipes/:id/comments", auth, h.CreateComment)

	comments := router.Group("/comments", auth)
	{
		comments.PUT("/:id", h.UpdateComment)
		comments.DELETE("/:id", h.DeleteComment)
	}
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var page types.Pagination
	if !bindQuery(c, &page) {
		return
	}
	page.Normalize()

	comments, total, err := h.comments.List(c.Request.Context(), recipeID, page)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, types.CommentListResponse{
		Comments: mapper.CommentsToResponses(comments),
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), recipeID, userID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": mapper.CommentToResponse(comment)})
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), id, userID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": mapper.CommentToResponse(comment)})
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), id, userID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
		"id":      id,
	})
}
