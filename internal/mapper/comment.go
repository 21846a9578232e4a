package mapper

import (
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/types"
)

func CommentToResponse(c *model.Comment) types.CommentResponse {
	return types.CommentResponse{
		ID:        c.ID,
		RecipeID:  c.RecipeID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func CommentsToResponses(comments []model.Comment) []types.CommentResponse {
	out := make([]types.CommentResponse, len(comments))
	for i := range comments {
		out[i] = CommentToResponse(&comments[i])
	}
	return out
}
