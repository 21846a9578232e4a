package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/testingutils"
	"github.com/pageza/recipebox/backend/internal/types"
)

func newRecipe(author uuid.UUID, title string) *model.Recipe {
	return &model.Recipe{
		Title:            title,
		Description:      "A test recipe",
		Ingredients:      model.JSONBStringArray{"salt", "water"},
		Instructions:     "Boil.",
		TotalTimeMinutes: 10,
		Difficulty:       "EASY",
		Tags:             model.JSONBStringArray{},
		AuthorID:         author,
		Embedding:        pgvector.NewVector([]float32{1, 2, 3}),
	}
}

func seedRecipe(t *testing.T, db *gorm.DB, author uuid.UUID, title string) *model.Recipe {
	t.Helper()
	recipe := newRecipe(author, title)
	require.NoError(t, NewRecipeRepository(db).Create(context.Background(), recipe))
	return recipe
}

func TestRecipeRepositoryCRUD(t *testing.T) {
	db := testingutils.NewTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()
	author := uuid.New()

	recipe := newRecipe(author, "Broth")
	recipe.Macros = model.Macros{Calories: 50}
	require.NoError(t, repo.Create(ctx, recipe))
	assert.NotEqual(t, uuid.Nil, recipe.ID)

	got, err := repo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Broth", got.Title)
	assert.Equal(t, model.JSONBStringArray{"salt", "water"}, got.Ingredients)
	assert.Equal(t, 50.0, got.Macros.Calories)
	assert.Equal(t, []float32{1, 2, 3}, got.Embedding.Slice())

	got.Title = "Bone Broth"
	got.Macros.Calories = 0
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bone Broth", updated.Title)
	assert.Equal(t, 0.0, updated.Macros.Calories)

	exists, err := repo.Exists(ctx, recipe.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, recipe.ID))

	_, err = repo.GetByID(ctx, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	exists, err = repo.Exists(ctx, recipe.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, repo.Delete(ctx, recipe.ID), ErrNotFound)
}

func TestRecipeRepositoryUpdateMissing(t *testing.T) {
	repo := NewRecipeRepository(testingutils.NewTestDB(t))
	recipe := newRecipe(uuid.New(), "Ghost")
	recipe.ID = uuid.New()
	assert.ErrorIs(t, repo.Update(context.Background(), recipe), ErrNotFound)
}

func TestRecipeRepositoryDeleteRemovesRelatedRows(t *testing.T) {
	db := testingutils.NewTestDB(t)
	ctx := context.Background()
	user := uuid.New()
	recipe := seedRecipe(t, db, user, "Stew")

	require.NoError(t, NewCommentRepository(db).Create(ctx, &model.Comment{RecipeID: recipe.ID, AuthorID: user, Content: "nice"}))
	_, err := NewFavoriteRepository(db).Add(ctx, recipe.ID, user)
	require.NoError(t, err)
	require.NoError(t, NewVoteRepository(db).Upsert(ctx, recipe.ID, user, model.Upvote))

	require.NoError(t, NewRecipeRepository(db).Delete(ctx, recipe.ID))

	_, total, err := NewCommentRepository(db).ListByRecipe(ctx, recipe.ID, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)

	fav, err := NewFavoriteRepository(db).Exists(ctx, recipe.ID, user)
	require.NoError(t, err)
	assert.False(t, fav)

	tally, err := NewVoteRepository(db).Tally(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VoteTally{}, tally)
}

func TestRecipeRepositoryList(t *testing.T) {
	db := testingutils.NewTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	seedRecipe(t, db, alice, "Tomato Soup")
	time.Sleep(5 * time.Millisecond)
	hard := newRecipe(alice, "Beef Wellington")
	hard.Difficulty = "HARD"
	require.NoError(t, repo.Create(ctx, hard))
	time.Sleep(5 * time.Millisecond)
	seedRecipe(t, db, bob, "Tomato Salad")

	recipes, total, err := repo.List(ctx, types.RecipeFilter{}, pgvector.Vector{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, recipes, 3)
	assert.Equal(t, "Tomato Salad", recipes[0].Title)

	recipes, total, err = repo.List(ctx, types.RecipeFilter{Query: "TOMATO"}, pgvector.Vector{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, recipes, 2)

	recipes, _, err = repo.List(ctx, types.RecipeFilter{Difficulty: "hard"}, pgvector.Vector{})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Beef Wellington", recipes[0].Title)

	recipes, total, err = repo.List(ctx, types.RecipeFilter{AuthorID: &bob}, pgvector.Vector{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, bob, recipes[0].AuthorID)

	recipes, total, err = repo.List(ctx, types.RecipeFilter{Page: 2, PageSize: 2}, pgvector.Vector{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Tomato Soup", recipes[0].Title)
}

func TestRecipeRepositoryListMatchesWildcardsLiterally(t *testing.T) {
	db := testingutils.NewTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()
	author := uuid.New()

	seedRecipe(t, db, author, "100% Rye Bread")
	seedRecipe(t, db, author, "Pad_Thai")
	seedRecipe(t, db, author, "Plain Toast")

	tests := []struct {
		query string
		want  []string
	}{
		{"%", []string{"100% Rye Bread"}},
		{"_", []string{"Pad_Thai"}},
		{"pad_", []string{"Pad_Thai"}},
		{`\`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			recipes, total, err := repo.List(ctx, types.RecipeFilter{Query: tt.query}, pgvector.Vector{})
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.want), total)

			var titles []string
			for _, r := range recipes {
				titles = append(titles, r.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestCommentRepository(t *testing.T) {
	db := testingutils.NewTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	user := uuid.New()
	recipe := seedRecipe(t, db, user, "Pie")

	first := &model.Comment{RecipeID: recipe.ID, AuthorID: user, Content: "first"}
	require.NoError(t, repo.Create(ctx, first))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.Create(ctx, &model.Comment{RecipeID: recipe.ID, AuthorID: user, Content: "second"}))

	comments, total, err := repo.ListByRecipe(ctx, recipe.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)

	require.NoError(t, repo.UpdateContent(ctx, first.ID, "edited"))
	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateContent(ctx, first.ID, "x"), ErrNotFound)
}

func TestFavoriteRepository(t *testing.T) {
	db := testingutils.NewTestDB(t)
	repo := NewFavoriteRepository(db)
	ctx := context.Background()
	user := uuid.New()
	soup := seedRecipe(t, db, uuid.New(), "Soup")
	cake := seedRecipe(t, db, uuid.New(), "Cake")

	fav, err := repo.Add(ctx, soup.ID, user)
	require.NoError(t, err)
	again, err := repo.Add(ctx, soup.ID, user)
	require.NoError(t, err)
	assert.Equal(t, fav.ID, again.ID)

	time.Sleep(5 * time.Millisecond)
	_, err = repo.Add(ctx, cake.ID, user)
	require.NoError(t, err)

	recipes, total, err := repo.ListRecipes(ctx, user, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Cake", recipes[0].Title)

	require.NoError(t, repo.Remove(ctx, soup.ID, user))
	require.NoError(t, repo.Remove(ctx, soup.ID, user))

	exists, err := repo.Exists(ctx, soup.ID, user)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestVoteRepository(t *testing.T) {
	db := testingutils.NewTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()
	recipe := seedRecipe(t, db, uuid.New(), "Chili")
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, repo.Upsert(ctx, recipe.ID, alice, model.Upvote))
	require.NoError(t, repo.Upsert(ctx, recipe.ID, bob, model.Upvote))
	require.NoError(t, repo.Upsert(ctx, recipe.ID, carol, model.Downvote))

	tally, err := repo.Tally(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VoteTally{Upvotes: 2, Downvotes: 1}, tally)

	// changing a vote replaces it
	require.NoError(t, repo.Upsert(ctx, recipe.ID, bob, model.Downvote))
	tally, err = repo.Tally(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VoteTally{Upvotes: 1, Downvotes: 2}, tally)

	value, err := repo.UserVote(ctx, recipe.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, model.Downvote, value)

	require.NoError(t, repo.Remove(ctx, recipe.ID, bob))
	value, err = repo.UserVote(ctx, recipe.ID, bob)
	require.NoError(t, err)
	assert.Zero(t, value)
}

func TestRecipeRepositoryPostgres(t *testing.T) {
	testDB := testingutils.SetupPostgres(t, "../../migrations")
	repo := NewRecipeRepository(testDB.DB)
	ctx := context.Background()
	author := uuid.New()

	near := newRecipe(author, "Tomato Soup")
	near.Embedding = pgvector.NewVector([]float32{11, 4, 7})
	far := newRecipe(author, "Tomato Tart With Extra Long Title")
	far.Embedding = pgvector.NewVector([]float32{90, 30, 60})
	require.NoError(t, repo.Create(ctx, far))
	require.NoError(t, repo.Create(ctx, near))

	recipes, total, err := repo.List(ctx, types.RecipeFilter{Query: "tomato"}, pgvector.NewVector([]float32{11, 4, 7}))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Tomato Soup", recipes[0].Title)

	votes := NewVoteRepository(testDB.DB)
	require.NoError(t, votes.Upsert(ctx, near.ID, author, model.Upvote))
	require.NoError(t, votes.Upsert(ctx, near.ID, author, model.Downvote))
	tally, err := votes.Tally(ctx, near.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VoteTally{Downvotes: 1}, tally)
}
