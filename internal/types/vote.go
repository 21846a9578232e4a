package types

import (
	"github.com/google/uuid"
)

// VoteRequest casts an up (1) or down (-1) vote
type VoteRequest struct {
	Value int `json:"value" binding:"required,oneof=1 -1"`
}

// VoteSummary aggregates the votes on a recipe
type VoteSummary struct {
	RecipeID  uuid.UUID `json:"recipeId"`
	Upvotes   int64     `json:"upvotes"`
	Downvotes int64     `json:"downvotes"`
	Score     int64     `json:"score"`
	UserVote  int       `json:"userVote"`
}
