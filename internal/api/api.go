// Package api holds the gin handlers of the recipe API.
package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/apperror"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/types"
)

// UserDirectory looks up accounts in the external user service
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)
	GetUsers(ctx context.Context, ids []uuid.UUID) ([]types.User, error)
}

// fail records err on the context and writes the error reply
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	middleware.WriteError(c, err)
}

// pathID parses a uuid path parameter, replying 400 when malformed
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	return parseUUID(c, c.Param(name), name)
}

func parseUUID(c *gin.Context, raw, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		fail(c, apperror.BadRequest(fmt.Sprintf("invalid %s", name)))
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated caller, replying 401 when absent
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		fail(c, apperror.Unauthorized("user not authenticated"))
	}
	return id, ok
}

// bindJSON decodes the body into req and replies with a validation error on
// failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fail(c, bindingError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		fail(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()))
		}
		return apperror.Validation(strings.Join(msgs, "; "))
	}
	return apperror.BadRequest("invalid request: " + err.Error())
}

// attachAuthors fills in author profiles from the user service. Lookup
// failures leave the recipes without authors.
func attachAuthors(ctx context.Context, users UserDirectory, logger *zap.Logger, recipes []types.RecipeResponse) {
	if users == nil || len(recipes) == 0 {
		return
	}

	seen := make(map[uuid.UUID]bool, len(recipes))
	ids := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		if !seen[r.AuthorID] {
			seen[r.AuthorID] = true
			ids = append(ids, r.AuthorID)
		}
	}

	found, err := users.GetUsers(ctx, ids)
	if err != nil {
		logger.Warn("could not load recipe authors", zap.Int("authors", len(ids)), zap.Error(err))
		return
	}

	byID := make(map[uuid.UUID]types.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	for i := range recipes {
		if u, ok := byID[recipes[i].AuthorID]; ok {
			author := u
			recipes[i].Author = &author
		}
	}
}
