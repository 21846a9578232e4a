package mapper

import (
	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/types"
)

// TallyToSummary builds the vote summary. userVote is 0 when the caller has
// not voted or is anonymous.
func TallyToSummary(recipeID uuid.UUID, tally model.VoteTally, userVote int) types.VoteSummary {
	return types.VoteSummary{
		RecipeID:  recipeID,
		Upvotes:   tally.Upvotes,
		Downvotes: tally.Downvotes,
		Score:     tally.Upvotes - tally.Downvotes,
		UserVote:  userVote,
	}
}
