package userclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/apperror"
	"github.com/pageza/recipebox/backend/internal/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(config.UserServiceConfig{
		BaseURL:         srv.URL,
		Token:           "service-token",
		Timeout:         2 * time.Second,
		MaxRetries:      0,
		BreakerFailures: 2,
		BreakerTimeout:  time.Minute,
	}, nil, zap.NewNop())
}

func TestGetUser(t *testing.T) {
	id := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/"+id.String(), r.URL.Path)
		assert.Equal(t, "Bearer service-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(types.User{ID: id, Username: "chef"})
	})

	user, err := client.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "chef", user.Username)
}

func TestGetUsers(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users", r.URL.Path)
		assert.Equal(t, a.String()+","+b.String(), r.URL.Query().Get("ids"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"users": []types.User{{ID: a, Username: "a"}},
		})
	})

	users, err := client.GetUsers(context.Background(), []uuid.UUID{a, b})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, a, users[0].ID)
}

func TestGetUsersEmpty(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	users, err := client.GetUsers(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestStatusTranslation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   apperror.Code
		want   int
	}{
		{"not found", http.StatusNotFound, apperror.CodeUserNotFound, http.StatusNotFound},
		{"unauthorized", http.StatusUnauthorized, apperror.CodeUserServiceDenied, http.StatusBadGateway},
		{"forbidden", http.StatusForbidden, apperror.CodeUserServiceDenied, http.StatusBadGateway},
		{"bad request", http.StatusBadRequest, apperror.CodeBadRequest, http.StatusBadRequest},
		{"server error", http.StatusInternalServerError, apperror.CodeUnavailable, http.StatusServiceUnavailable},
		{"teapot", http.StatusTeapot, apperror.CodeExternalService, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			})

			_, err := client.GetUser(context.Background(), uuid.New())
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, tt.code), "got %v", err)
			assert.Equal(t, tt.want, apperror.FromError(err).StatusCode())
		})
	}
}

func TestNotFoundMatchesSentinel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestInvalidBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})

	_, err := client.GetUser(context.Background(), uuid.New())
	assert.True(t, apperror.HasCode(err, apperror.CodeExternalService))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(config.UserServiceConfig{
		BaseURL:         url,
		Timeout:         time.Second,
		BreakerFailures: 5,
		BreakerTimeout:  time.Minute,
	}, nil, zap.NewNop())

	_, err := client.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 2; i++ {
		_, err := client.GetUser(context.Background(), uuid.New())
		require.Error(t, err)
	}
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))

	_, err := client.GetUser(context.Background(), uuid.New())
	assert.True(t, apperror.HasCode(err, apperror.CodeUnavailable))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "open breaker must not reach the service")
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 5; i++ {
		_, err := client.GetUser(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrUserNotFound)
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}
