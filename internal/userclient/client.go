// Package userclient reads user accounts from the external user service and
// translates its failures into application errors.
package userclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/apperror"
	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/types"
)

// Error sentinels for errors.Is comparisons
var (
	ErrUserNotFound       = apperror.New(apperror.CodeUserNotFound, http.StatusNotFound, "user not found")
	ErrUnauthorized       = apperror.New(apperror.CodeUserServiceDenied, http.StatusBadGateway, "user service rejected our credentials")
	ErrServiceUnavailable = apperror.New(apperror.CodeUnavailable, http.StatusServiceUnavailable, "user service unavailable")
)

// statusError carries a non-2xx reply through the circuit breaker
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("user service returned status %d: %s", e.status, e.body)
}

// Client calls the user service through a circuit breaker
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
	metrics *metrics.Collector
	logger  *zap.Logger
}

// New creates a user service client
func New(cfg config.UserServiceConfig, m *metrics.Collector, logger *zap.Logger) *Client {
	logger = logger.Named("userclient")

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	breaker := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        "user-service",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Only transport failures and 5xx replies count against the service
		IsSuccessful: func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return se.status < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		http:    httpClient,
		breaker: breaker,
		metrics: m,
		logger:  logger,
	}
}

// GetUser fetches one user by id
func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	resp, err := c.get(ctx, "/api/v1/users/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var user types.User
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		c.metrics.UserServiceRequest("decode_error")
		return nil, apperror.ExternalService("invalid response from user service", err)
	}
	return &user, nil
}

// GetUsers fetches several users in one call. Unknown ids are omitted.
func (c *Client) GetUsers(ctx context.Context, ids []uuid.UUID) ([]types.User, error) {
	if len(ids) == 0 {
		return []types.User{}, nil
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}

	resp, err := c.get(ctx, "/api/v1/users", map[string]string{"ids": strings.Join(parts, ",")})
	if err != nil {
		return nil, err
	}

	var body struct {
		Users []types.User `json:"users"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		c.metrics.UserServiceRequest("decode_error")
		return nil, apperror.ExternalService("invalid response from user service", err)
	}
	return body.Users, nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string) (*resty.Response, error) {
	resp, err := c.breaker.Execute(func() (*resty.Response, error) {
		req := c.http.R().SetContext(ctx)
		if query != nil {
			req.SetQueryParams(query)
		}
		r, err := req.Get(path)
		if err != nil {
			return nil, err
		}
		if r.StatusCode() < 200 || r.StatusCode() > 299 {
			return r, &statusError{status: r.StatusCode(), body: truncate(r.String(), 200)}
		}
		return r, nil
	})
	if err != nil {
		translated := c.translate(err)
		c.logger.Debug("user service request failed", zap.String("path", path), zap.Error(err))
		return nil, translated
	}

	c.metrics.UserServiceRequest("ok")
	return resp, nil
}

// translate maps transport and status failures onto application errors
func (c *Client) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.metrics.UserServiceRequest("circuit_open")
		return apperror.Unavailable(ErrServiceUnavailable.Message, err)
	}

	var se *statusError
	if !errors.As(err, &se) {
		c.metrics.UserServiceRequest("transport_error")
		return apperror.Unavailable(ErrServiceUnavailable.Message, err)
	}

	switch {
	case se.status == http.StatusNotFound:
		c.metrics.UserServiceRequest("not_found")
		return apperror.Wrap(apperror.CodeUserNotFound, http.StatusNotFound, ErrUserNotFound.Message, err)
	case se.status == http.StatusUnauthorized || se.status == http.StatusForbidden:
		c.metrics.UserServiceRequest("unauthorized")
		return apperror.Wrap(apperror.CodeUserServiceDenied, http.StatusBadGateway, ErrUnauthorized.Message, err)
	case se.status == http.StatusBadRequest:
		c.metrics.UserServiceRequest("bad_request")
		return apperror.Wrap(apperror.CodeBadRequest, http.StatusBadRequest, "invalid user request", err)
	case se.status >= http.StatusInternalServerError:
		c.metrics.UserServiceRequest("server_error")
		return apperror.Unavailable(ErrServiceUnavailable.Message, err)
	default:
		c.metrics.UserServiceRequest("unexpected_status")
		return apperror.ExternalService("unexpected response from user service", err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
