package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/apperror"
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/types"
)

// CommentService manages comments on recipes
type CommentService struct {
	comments CommentRepository
	recipes  RecipeRepository
	logger   *zap.Logger
}

func NewCommentService(comments CommentRepository, recipes RecipeRepository, logger *zap.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		recipes:  recipes,
		logger:   logger.Named("comments"),
	}
}

// Create adds a comment to an existing recipe
func (s *CommentService) Create(ctx context.Context, recipeID, authorID uuid.UUID, content string) (*model.Comment, error) {
	content, err := cleanComment(content)
	if err != nil {
		return nil, err
	}
	if err := requireRecipe(ctx, s.recipes, recipeID); err != nil {
		return nil, err
	}

	comment := &model.Comment{RecipeID: recipeID, AuthorID: authorID, Content: content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperror.Internal("failed to save comment", err)
	}
	return comment, nil
}

// List returns the recipe's comments, newest first
func (s *CommentService) List(ctx context.Context, recipeID uuid.UUID, page types.Pagination) ([]model.Comment, int64, error) {
	if err := requireRecipe(ctx, s.recipes, recipeID); err != nil {
		return nil, 0, err
	}
	page.Normalize()
	comments, total, err := s.comments.ListByRecipe(ctx, recipeID, page.Offset(), page.PageSize)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list comments", err)
	}
	return comments, total, nil
}

// Update replaces the content. Only the author may edit.
func (s *CommentService) Update(ctx context.Context, id, userID uuid.UUID, content string) (*model.Comment, error) {
	content, err := cleanComment(content)
	if err != nil {
		return nil, err
	}
	comment, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.comments.UpdateContent(ctx, id, content); err != nil {
		return nil, notFoundOr(err, "comment not found", "failed to update comment")
	}
	return s.reload(ctx, comment.ID)
}

// Delete removes the comment. Only the author may delete.
func (s *CommentService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return notFoundOr(err, "comment not found", "failed to delete comment")
	}
	return nil
}

func (s *CommentService) owned(ctx context.Context, id, userID uuid.UUID) (*model.Comment, error) {
	comment, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, apperror.Forbidden("only the author can change this comment")
	}
	return comment, nil
}

func (s *CommentService) reload(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "comment not found", "failed to load comment")
	}
	return comment, nil
}

func cleanComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperror.Validation("comment cannot be empty")
	}
	if utf8.RuneCountInString(content) > model.MaxCommentLength {
		return "", apperror.Validation(fmt.Sprintf("comment cannot exceed %d characters", model.MaxCommentLength))
	}
	return content, nil
}
