package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebox/backend/internal/model"
)

// VoteRepository stores one vote per user and recipe
type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Upsert creates the vote or replaces the user's previous value
func (r *VoteRepository) Upsert(ctx context.Context, recipeID, userID uuid.UUID, value int) error {
	vote := &model.RecipeVote{RecipeID: recipeID, UserID: userID, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value, "updated_at": time.Now()}),
	}).Create(vote).Error
}

func (r *VoteRepository) Remove(ctx context.Context, recipeID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Delete(&model.RecipeVote{}).Error
}

// Tally counts up and down votes for the recipe
func (r *VoteRepository) Tally(ctx context.Context, recipeID uuid.UUID) (model.VoteTally, error) {
	var tally model.VoteTally
	err := r.db.WithContext(ctx).Model(&model.RecipeVote{}).
		Select(
			"COALESCE(SUM(CASE WHEN value > 0 THEN 1 ELSE 0 END), 0) AS upvotes, "+
				"COALESCE(SUM(CASE WHEN value < 0 THEN 1 ELSE 0 END), 0) AS downvotes",
		).
		Where("recipe_id = ?", recipeID).
		Scan(&tally).Error
	return tally, err
}

// UserVote returns the user's vote value, or 0 when they have not voted
func (r *VoteRepository) UserVote(ctx context.Context, recipeID, userID uuid.UUID) (int, error) {
	var vote model.RecipeVote
	err := r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return vote.Value, nil
}
