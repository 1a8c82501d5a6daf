// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	defaultDBPassword = "changeme"
	defaultJWTSecret  = "dev-secret-change-me"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `env:"APP_HOST" env-default:"0.0.0.0"`
	Port string `env:"APP_PORT" env-default:"8080"`
	Env  string `env:"APP_ENV" env-default:"development"` // "development", "production", "testing"

	DB      DBConfig
	Valkey  ValkeyConfig
	Auth    AuthConfig
	AI      AIConfig
	Storage StorageConfig
	S3      S3Config

	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://localhost:5173"`
}

// DBConfig is the PostgreSQL connection.
type DBConfig struct {
	Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `env:"POSTGRES_PORT" env-default:"5432"`
	User     string `env:"POSTGRES_USER" env-default:"aicms"`
	Password string `env:"POSTGRES_PASSWORD" env-default:"changeme"`
	Name     string `env:"POSTGRES_DB" env-default:"aicms"`
}

// ValkeyConfig is the Redis-compatible cache connection.
type ValkeyConfig struct {
	Host     string `env:"VALKEY_HOST" env-default:"localhost"`
	Port     string `env:"VALKEY_PORT" env-default:"6379"`
	Password string `env:"VALKEY_PASSWORD"`
	DB       int    `env:"VALKEY_DB" env-default:"0"`
}

// AuthConfig controls bearer token issuance.
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET" env-default:"dev-secret-change-me"`
	JWTTTL    time.Duration `env:"JWT_TTL" env-default:"168h"`
}

// AIConfig selects the text generation provider.
type AIConfig struct {
	Provider      string `env:"AI_PROVIDER" env-default:"gemini"` // "gemini" or "stub"
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`
}

// StorageConfig selects where uploaded media bytes live.
type StorageConfig struct {
	Backend   string `env:"STORAGE_BACKEND" env-default:"local"` // "local" or "s3"
	UploadDir string `env:"UPLOAD_PATH" env-default:"./uploads"`
	URLPrefix string `env:"UPLOAD_URL_PREFIX" env-default:"/uploads"`
}

// S3Config holds S3-compatible object storage settings.
type S3Config struct {
	Endpoint  string `env:"S3_ENDPOINT"`
	Region    string `env:"S3_REGION" env-default:"us-east-1"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	Bucket    string `env:"S3_BUCKET"`
	PublicURL string `env:"S3_PUBLIC_URL"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if cfg.Env == "production" {
		if cfg.DB.Password == defaultDBPassword {
			return nil, errors.New("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.Auth.JWTSecret == defaultJWTSecret {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
	}
	if cfg.Auth.JWTTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.Auth.JWTTTL)
	}
	if cfg.Storage.Backend != "local" && cfg.Storage.Backend != "s3" {
		return nil, fmt.Errorf("STORAGE_BACKEND must be local or s3, got %q", cfg.Storage.Backend)
	}

	return &cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
