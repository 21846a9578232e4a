package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `mapstructure:"-"`

	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Log         LogConfig         `mapstructure:"log"`
	AI          AIConfig          `mapstructure:"ai"`
	Storage     StorageConfig     `mapstructure:"storage"`
	UserService UserServiceConfig `mapstructure:"user_service"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	Path            string        `mapstructure:"path"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// Enabled reports whether any Redis endpoint is configured
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Host != ""
}

// AuthConfig holds bearer token settings
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// AIConfig holds settings for the language model and image model
type AIConfig struct {
	BaseURL                string        `mapstructure:"base_url" validate:"required,url"`
	APIKey                 string        `mapstructure:"api_key"`
	ChatModel              string        `mapstructure:"chat_model" validate:"required"`
	ImageModel             string        `mapstructure:"image_model" validate:"required"`
	ImageSize              string        `mapstructure:"image_size"`
	Temperature            float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	Timeout                time.Duration `mapstructure:"timeout" validate:"gt=0"`
	ImageTimeout           time.Duration `mapstructure:"image_timeout" validate:"gt=0"`
	MaxRetries             int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	MaxIngredients         int           `mapstructure:"max_ingredients" validate:"gt=0,lte=100"`
	ImageGenerationEnabled bool          `mapstructure:"image_generation_enabled"`
	CacheBackend           string        `mapstructure:"cache_backend" validate:"oneof=redis memory none"`
	CacheTTL               time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
	CacheMaxEntries        int           `mapstructure:"cache_max_entries" validate:"gte=0"`
}

// StorageConfig holds object storage settings. An empty bucket means the
// store is unconfigured and every upload resolves to the placeholder image.
type StorageConfig struct {
	Bucket         string        `mapstructure:"bucket"`
	Region         string        `mapstructure:"region"`
	Endpoint       string        `mapstructure:"endpoint"`
	UsePathStyle   bool          `mapstructure:"use_path_style"`
	PublicBaseURL  string        `mapstructure:"public_base_url"`
	Folder         string        `mapstructure:"folder"`
	PlaceholderURL string        `mapstructure:"placeholder_url" validate:"required,url"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// Configured reports whether uploads can be attempted
func (s StorageConfig) Configured() bool {
	return strings.TrimSpace(s.Bucket) != ""
}

// UserServiceConfig holds settings for the external user service
type UserServiceConfig struct {
	BaseURL         string        `mapstructure:"base_url" validate:"required,url"`
	Token           string        `mapstructure:"token"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries      int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BreakerFailures uint32        `mapstructure:"breaker_failures" validate:"gt=0"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout" validate:"gt=0"`
}

// RateLimitConfig holds generation rate limit settings
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	GenerationLimit int           `mapstructure:"generation_limit" validate:"gt=0"`
	Window          time.Duration `mapstructure:"window" validate:"gt=0"`
}

// secretKeys maps Docker secret file names to configuration keys
var secretKeys = map[string]string{
	"db_user":            "database.user",
	"db_password":        "database.password",
	"jwt_secret":         "auth.jwt_secret",
	"redis_password":     "redis.password",
	"redis_url":          "redis.url",
	"ai_api_key":         "ai.api_key",
	"user_service_token": "user_service.token",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "recipebox")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.path", "recipebox.db")
	v.SetDefault("database.migrations_dir", "migrations")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "recipebox-users")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.chat_model", "gpt-4o-mini")
	v.SetDefault("ai.image_model", "dall-e-3")
	v.SetDefault("ai.image_size", "1024x1024")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.image_timeout", 90*time.Second)
	v.SetDefault("ai.max_retries", 2)
	v.SetDefault("ai.max_ingredients", 20)
	v.SetDefault("ai.image_generation_enabled", true)
	v.SetDefault("ai.cache_backend", "memory")
	v.SetDefault("ai.cache_ttl", time.Hour)
	v.SetDefault("ai.cache_max_entries", 500)

	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.use_path_style", false)
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.folder", "recipe-images")
	v.SetDefault("storage.placeholder_url", "https://placehold.co/1024x1024/png?text=Recipe")
	v.SetDefault("storage.timeout", 30*time.Second)

	v.SetDefault("user_service.base_url", "http://localhost:8081")
	v.SetDefault("user_service.token", "")
	v.SetDefault("user_service.timeout", 5*time.Second)
	v.SetDefault("user_service.max_retries", 1)
	v.SetDefault("user_service.breaker_failures", 5)
	v.SetDefault("user_service.breaker_timeout", 30*time.Second)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.generation_limit", 10)
	v.SetDefault("rate_limit.window", time.Hour)
}

// LoadConfig reads configuration from defaults, an optional config file,
// RECIPEBOX_* environment variables and Docker secrets, in increasing order
// of precedence, then validates the result.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	// A missing .env file is normal outside local development
	if env == Development || env == Test {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if file := os.Getenv("RECIPEBOX_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("RECIPEBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applySecrets(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Environment = env

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applySecrets overlays any Docker secrets present in the secrets directory
func applySecrets(v *viper.Viper) {
	for name, key := range secretKeys {
		if value := readSecret(name); value != "" {
			v.Set(key, value)
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
