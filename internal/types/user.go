package types

import (
	"time"

	"github.com/google/uuid"
)

// User is an account owned by the external user service
type User struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserRecipesResponse pairs a user with the recipes they authored
type UserRecipesResponse struct {
	User    User             `json:"user"`
	Recipes []RecipeResponse `json:"recipes"`
	Total   int64            `json:"total"`
}
