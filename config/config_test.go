package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("CI", "")
	t.Setenv("ENV", "")
	t.Setenv("RECIPEBOX_ENV", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("RECIPEBOX_CONFIG_FILE", "")
	t.Setenv("RECIPEBOX_AUTH_JWT_SECRET", "config-test-secret")
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 20, cfg.AI.MaxIngredients)
	assert.True(t, cfg.AI.ImageGenerationEnabled)
	assert.Equal(t, "memory", cfg.AI.CacheBackend)
	assert.Equal(t, time.Hour, cfg.AI.CacheTTL)
	assert.False(t, cfg.Storage.Configured())
	assert.Equal(t, "recipe-images", cfg.Storage.Folder)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("RECIPEBOX_AI_MAX_INGREDIENTS", "8")
	t.Setenv("RECIPEBOX_AI_IMAGE_GENERATION_ENABLED", "false")
	t.Setenv("RECIPEBOX_DATABASE_DRIVER", "sqlite")
	t.Setenv("RECIPEBOX_STORAGE_BUCKET", "recipe-assets")
	t.Setenv("RECIPEBOX_USER_SERVICE_TIMEOUT", "2s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.AI.MaxIngredients)
	assert.False(t, cfg.AI.ImageGenerationEnabled)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Storage.Configured())
	assert.Equal(t, 2*time.Second, cfg.UserService.Timeout)
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	isolate(t)
	dir := os.Getenv("SECRETS_DIR")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ai_api_key"), []byte("sk-test"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero max ingredients", "RECIPEBOX_AI_MAX_INGREDIENTS", "0"},
		{"unknown driver", "RECIPEBOX_DATABASE_DRIVER", "mysql"},
		{"unknown cache backend", "RECIPEBOX_AI_CACHE_BACKEND", "memcached"},
		{"redis cache without redis", "RECIPEBOX_AI_CACHE_BACKEND", "redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestProductionRequiresSecrets(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "production")
	t.Setenv("RECIPEBOX_AUTH_JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
	assert.Contains(t, err.Error(), "ai_api_key")
}

func TestJWTSecretRequiredOutsideTests(t *testing.T) {
	for _, env := range []string{"", "development", "production"} {
		t.Run("env="+env, func(t *testing.T) {
			isolate(t)
			t.Setenv("ENV", env)
			t.Setenv("RECIPEBOX_AUTH_JWT_SECRET", "")

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "auth.jwt_secret")
		})
	}
}

func TestTestEnvironmentAllowsEmptyJWTSecret(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "test")
	t.Setenv("RECIPEBOX_AUTH_JWT_SECRET", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Test, cfg.Environment)
	assert.Empty(t, cfg.Auth.JWTSecret)
}
