package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/testingutils"
	"github.com/pageza/recipebox/backend/internal/types"
)

func TestCreateRecipe(t *testing.T) {
	f := newAPIFixture(t)
	author := uuid.New()

	recipe := f.createRecipe(t, author, "Flatbread")

	assert.NotEqual(t, uuid.Nil, recipe.ID)
	assert.Equal(t, "Flatbread", recipe.Title)
	assert.Equal(t, author, recipe.AuthorID)
	assert.Equal(t, "EASY", recipe.Difficulty)
	assert.Equal(t, 15, recipe.TotalTimeMinutes)
	assert.False(t, recipe.AIGenerated)
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	f := newAPIFixture(t)

	w := testingutils.PerformRequest(f.router, http.MethodPost, "/api/v1/recipes", map[string]interface{}{
		"title": "Flatbread",
	}, "")

	testingutils.AssertErrorCode(t, w, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestCreateRecipeValidation(t *testing.T) {
	f := newAPIFixture(t)
	token := testingutils.MakeToken(t, uuid.New(), "author")

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing title", map[string]interface{}{"ingredients": []string{"a"}, "instructions": "x"}},
		{"no ingredients", map[string]interface{}{"title": "T", "ingredients": []string{}, "instructions": "x"}},
		{"bad difficulty", map[string]interface{}{"title": "T", "ingredients": []string{"a"}, "instructions": "x", "difficulty": "extreme"}},
		{"negative time", map[string]interface{}{"title": "T", "ingredients": []string{"a"}, "instructions": "x", "totalTimeMinutes": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testingutils.PerformRequest(f.router, http.MethodPost, "/api/v1/recipes", tt.body, token)
			testingutils.AssertErrorCode(t, w, http.StatusBadRequest, "VALIDATION_FAILED")
		})
	}
}

func TestGetRecipeWithAuthor(t *testing.T) {
	author := types.User{ID: uuid.New(), Username: "chef"}
	f := newAPIFixture(t, author)
	created := f.createRecipe(t, author.ID, "Flatbread")

	w := testingutils.PerformRequest(f.router, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Recipe types.RecipeResponse `json:"recipe"`
	}
	testingutils.DecodeJSON(t, w, &body)
	assert.Equal(t, created.ID, body.Recipe.ID)
	require.NotNil(t, body.Recipe.Author)
	assert.Equal(t, "chef", body.Recipe.Author.Username)
}

func TestGetRecipeAuthorLookupFailureIsIgnored(t *testing.T) {
	f := newAPIFixture(t)
	created := f.createRecipe(t, uuid.New(), "Flatbread")
	f.users.err = errors.New("connection refused")

	w := testingutils.PerformRequest(f.router, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"author"`)
}

func TestGetRecipeErrors(t *testing.T) {
	f := newAPIFixture(t)

	w := testingutils.PerformRequest(f.router, http.MethodGet, "/api/v1/recipes/not-a-uuid", nil, "")
	testingutils.AssertErrorCode(t, w, http.StatusBadRequest, "BAD_REQUEST")

	w = testingutils.PerformRequest(f.router, http.MethodGet, "/api/v1/recipes/"+uuid.NewString(), nil, "")
	testingutils.AssertErrorCode(t, w, http.StatusNotFound, "NOT_FOUND")
}

func TestListRecipes(t *testing.T) {
	f := newAPIFixture(t)
	alice, bob := uuid.New(), uuid.New()
	f.createRecipe(t, alice, "Tomato Soup")
	f.createRecipe(t, alice, "Flatbread")
	f.createRecipe(t, bob, "Tomato Salad")

	t.Run("all", func(t *testing.T) {
		w := testingutils.PerformRequest(f.router, http.MethodGet, "/api/v1/recipes", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var body types.RecipeListResponse
		testingutils.DecodeJSON(t, w, &body)
		assert.Equal(t, int64(3), body.Total)
		assert.Len(t, body.Recipes, 3)
		assert.Equal(t, 1, body.Page)
		assert.Equal(t, 20, body.PageSize)
	})

	t.Run("search", func(t *testing.T) {
		w := testingutils.PerformRequest(f.router, http.MethodGet, "/api/v1/recipes?q=tomato", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var body types.RecipeListResponse
		testingutils.DecodeJSON(t, w, &body)
		assert.Equal(t, int64(2), body.Total)
	})

	t.Run("by author with paging", func(t *testing.T) {
		w := testingutils.PerformRequest(f.router, http.MethodGet, "/api/v1/recipes?author="+alice.String()+"&page=2&page_size=1", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var body types.RecipeListResponse
		testingutils.DecodeJSON(t, w, &body)
		assert.Equal(t, int64(2), body.Total)
		assert.Len(t, body.Recipes, 1)
		assert.Equal(t, 2, body.Page)
	})

	t.Run("bad author", func(t *testing.T) {
		w := testingutils.PerformRequest(f.router, http.MethodGet, "/api/v1/recipes?author=nope", nil, "")
		testingutils.AssertErrorCode(t, w, http.StatusBadRequest, "BAD_REQUEST")
	})
}

func TestUpdateRecipe(t *testing.T) {
	f := newAPIFixture(t)
	author := uuid.New()
	created := f.createRecipe(t, author, "Flatbread")
	path := "/api/v1/recipes/" + created.ID.String()

	w := testingutils.PerformRequest(f.router, http.MethodPut, path, map[string]interface{}{
		"title": "Garlic Flatbread",
	}, testingutils.MakeToken(t, author, "author"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Recipe types.RecipeResponse `json:"recipe"`
	}
	testingutils.DecodeJSON(t, w, &body)
	assert.Equal(t, "Garlic Flatbread", body.Recipe.Title)
	assert.Equal(t, created.Ingredients, body.Recipe.Ingredients)

	w = testingutils.PerformRequest(f.router, http.MethodPut, path, map[string]interface{}{
		"title": "Stolen",
	}, testingutils.MakeToken(t, uuid.New(), "intruder"))
	testingutils.AssertErrorCode(t, w, http.StatusForbidden, "FORBIDDEN")
}

func TestDeleteRecipe(t *testing.T) {
	f := newAPIFixture(t)
	author := uuid.New()
	created := f.createRecipe(t, author, "Flatbread")
	path := "/api/v1/recipes/" + created.ID.String()

	w := testingutils.PerformRequest(f.router, http.MethodDelete, path, nil, testingutils.MakeToken(t, uuid.New(), "intruder"))
	testingutils.AssertErrorCode(t, w, http.StatusForbidden, "FORBIDDEN")

	w = testingutils.PerformRequest(f.router, http.MethodDelete, path, nil, testingutils.MakeToken(t, author, "author"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = testingutils.PerformRequest(f.router, http.MethodGet, path, nil, "")
	testingutils.AssertErrorCode(t, w, http.StatusNotFound, "NOT_FOUND")
}
