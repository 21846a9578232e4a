package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type VoteHandler struct {
	votes     *service.VoteService
	validator middleware.TokenValidator
}

func NewVoteHandler(votes *service.VoteService, validator middleware.TokenValidator) *VoteHandler {
	return &VoteHandler{votes: votes, validator: validator}
}

func (h *VoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.validator)

	router.GET("/recipes/:id/votes", middleware.OptionalAuth(h.validator), h.GetVotes)
	router.PUT("/recipes/:id/vote", auth, h.CastVote)
	router.DELETE("/recipes/:id/vote", auth, h.RemoveVote)
}

// GetVotes returns the tally, including the caller's vote when signed in
func (h *VoteHandler) GetVotes(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var caller *uuid.UUID
	if id, ok := middleware.UserID(c); ok {
		caller = &id
	}

	summary, err := h.votes.Summary(c.Request.Context(), recipeID, caller)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *VoteHandler) CastVote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.VoteRequest
	if !bindJSON(c, &req) {
		return
	}

	summary, err := h.votes.Cast(c.Request.Context(), recipeID, userID, req.Value)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *VoteHandler) RemoveVote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.votes.Remove(c.Request.Context(), recipeID, userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
