package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = validator.New()

// ValidateConfig checks struct constraints and the requirements for the
// configured environment
func ValidateConfig(cfg *Config) error {
	var problems []string

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			problems = append(problems, ValidationError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
			}.Error())
		}
	}

	if cfg.Database.Driver == "postgres" && cfg.Database.Host == "" {
		problems = append(problems, ValidationError{Field: "database.host", Message: "required for postgres"}.Error())
	}

	if cfg.AI.CacheBackend == "redis" && !cfg.Redis.Enabled() {
		problems = append(problems, ValidationError{Field: "ai.cache_backend", Message: "redis cache requires redis.url or redis.host"}.Error())
	}

	// An empty HMAC key lets anyone mint tokens, so only tests may run without one
	if cfg.Environment != Test && strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		problems = append(problems, ValidationError{Field: "auth.jwt_secret", Message: "jwt_secret is required"}.Error())
	}

	// Sensitive values must be present outside local development
	if cfg.Environment == Production || cfg.Environment == CI {
		if cfg.Database.Driver == "postgres" && cfg.Database.Password == "" {
			problems = append(problems, ValidationError{Field: "database.password", Message: "db_password is required"}.Error())
		}
	}
	if cfg.Environment == Production && cfg.AI.APIKey == "" {
		problems = append(problems, ValidationError{Field: "ai.api_key", Message: "ai_api_key is required"}.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(problems, "\n"))
	}

	return nil
}
