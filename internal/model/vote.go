package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	Upvote   = 1
	Downvote = -1
)

type RecipeVote struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_recipe_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_recipe_user"`
	Value     int       `gorm:"not null"`
}

func (RecipeVote) TableName() string {
	return "recipe_votes"
}

func (v *RecipeVote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// VoteTally counts the votes on one recipe
type VoteTally struct {
	Upvotes   int64
	Downvotes int64
}
