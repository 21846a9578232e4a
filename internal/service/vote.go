package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/apperror"
	"github.com/pageza/recipebox/backend/internal/mapper"
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/types"
)

// VoteService records up and down votes on recipes
type VoteService struct {
	votes   VoteRepository
	recipes RecipeRepository
}

func NewVoteService(votes VoteRepository, recipes RecipeRepository) *VoteService {
	return &VoteService{votes: votes, recipes: recipes}
}

// Cast records the user's vote, replacing any earlier one
func (s *VoteService) Cast(ctx context.Context, recipeID, userID uuid.UUID, value int) (types.VoteSummary, error) {
	if value != model.Upvote && value != model.Downvote {
		return types.VoteSummary{}, apperror.Validation("vote must be 1 or -1")
	}
	if err := requireRecipe(ctx, s.recipes, recipeID); err != nil {
		return types.VoteSummary{}, err
	}
	if err := s.votes.Upsert(ctx, recipeID, userID, value); err != nil {
		return types.VoteSummary{}, apperror.Internal("failed to record vote", err)
	}
	return s.Summary(ctx, recipeID, &userID)
}

// Remove withdraws the user's vote
func (s *VoteService) Remove(ctx context.Context, recipeID, userID uuid.UUID) (types.VoteSummary, error) {
	if err := requireRecipe(ctx, s.recipes, recipeID); err != nil {
		return types.VoteSummary{}, err
	}
	if err := s.votes.Remove(ctx, recipeID, userID); err != nil {
		return types.VoteSummary{}, apperror.Internal("failed to remove vote", err)
	}
	return s.Summary(ctx, recipeID, &userID)
}

// Summary counts the votes. userID is optional and selects whose vote is
// reported back.
func (s *VoteService) Summary(ctx context.Context, recipeID uuid.UUID, userID *uuid.UUID) (types.VoteSummary, error) {
	if err := requireRecipe(ctx, s.recipes, recipeID); err != nil {
		return types.VoteSummary{}, err
	}
	tally, err := s.votes.Tally(ctx, recipeID)
	if err != nil {
		return types.VoteSummary{}, apperror.Internal("failed to count votes", err)
	}

	userVote := 0
	if userID != nil {
		if userVote, err = s.votes.UserVote(ctx, recipeID, *userID); err != nil {
			return types.VoteSummary{}, apperror.Internal("failed to load vote", err)
		}
	}
	return mapper.TallyToSummary(recipeID, tally, userVote), nil
}
