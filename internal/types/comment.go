package types

import (
	"time"

	"github.com/google/uuid"
)

// CommentResponse is the public view of a comment
type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	RecipeID  uuid.UUID `json:"recipeId"`
	AuthorID  uuid.UUID `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentRequest is the body for creating or editing a comment
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentListResponse is a page of comments
type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}
