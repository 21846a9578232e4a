package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/apperror"
	"github.com/pageza/recipebox/backend/internal/types"
)

func TestCommentServiceLifecycle(t *testing.T) {
	f := newSocialFixture(t)
	ctx := context.Background()
	author := uuid.New()
	recipe := f.createRecipe(t, uuid.New(), "Pie")

	comment, err := f.comments.Create(ctx, recipe.ID, author, "  Lovely crust  ")
	require.NoError(t, err)
	assert.Equal(t, "Lovely crust", comment.Content)

	comments, total, err := f.comments.List(ctx, recipe.ID, types.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, comments, 1)

	edited, err := f.comments.Update(ctx, comment.ID, author, "Lovely crust, soggy bottom")
	require.NoError(t, err)
	assert.Equal(t, "Lovely crust, soggy bottom", edited.Content)

	_, err = f.comments.Update(ctx, comment.ID, uuid.New(), "hijack")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.ErrorIs(t, f.comments.Delete(ctx, comment.ID, uuid.New()), apperror.ErrForbidden)

	require.NoError(t, f.comments.Delete(ctx, comment.ID, author))
	assert.ErrorIs(t, f.comments.Delete(ctx, comment.ID, author), apperror.ErrNotFound)
}

func TestCommentServiceValidation(t *testing.T) {
	f := newSocialFixture(t)
	ctx := context.Background()
	recipe := f.createRecipe(t, uuid.New(), "Pie")

	_, err := f.comments.Create(ctx, recipe.ID, uuid.New(), "   ")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.comments.Create(ctx, recipe.ID, uuid.New(), strings.Repeat("ü", 2001))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.comments.Create(ctx, recipe.ID, uuid.New(), strings.Repeat("ü", 2000))
	assert.NoError(t, err)

	_, err = f.comments.Create(ctx, uuid.New(), uuid.New(), "hello")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, _, err = f.comments.List(ctx, uuid.New(), types.Pagination{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
