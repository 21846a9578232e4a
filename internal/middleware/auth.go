package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/apperror"
	"github.com/pageza/recipebox/backend/internal/types"
)

// Context keys set by the auth middleware
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// JWTValidator checks HMAC-signed tokens issued by the user service
type JWTValidator struct {
	secret []byte
	issuer string
}

// ErrNoSigningKey is returned by a validator built with an empty secret
var ErrNoSigningKey = errors.New("jwt signing key is not configured")

// NewJWTValidator creates a validator for tokens signed with secret. A
// validator with an empty secret rejects every token.
func NewJWTValidator(secret, issuer string) *JWTValidator {
	return &JWTValidator{secret: []byte(secret), issuer: issuer}
}

// ValidateToken parses the token and returns its claims
func (v *JWTValidator) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	if len(v.secret) == 0 {
		return nil, ErrNoSigningKey
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &types.TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token has expired")
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims.UserID == uuid.Nil {
		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			return nil, errors.New("token has no user id")
		}
		claims.UserID = id
	}
	return claims, nil
}

// GenerateToken signs claims for the user. The user service normally issues
// tokens; this is used by tooling and tests.
func (v *JWTValidator) GenerateToken(userID uuid.UUID, username string, ttl time.Duration) (string, error) {
	if len(v.secret) == 0 {
		return "", ErrNoSigningKey
	}
	now := time.Now()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   userID,
		Username: username,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			WriteError(c, apperror.Unauthorized("missing authorization header"))
			return
		}
		if !authenticate(c, validator, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalAuth reads a bearer token when one is sent. Requests without a
// header pass through anonymously; a bad token is still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && !authenticate(c, validator, authHeader) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, validator TokenValidator, authHeader string) bool {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		WriteError(c, apperror.Unauthorized("invalid authorization header format"))
		return false
	}

	claims, err := validator.ValidateToken(parts[1])
	if err != nil {
		WriteError(c, apperror.Unauthorized(err.Error()))
		return false
	}

	// Store user info in context
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	return true
}

// UserID returns the authenticated user, if any
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
