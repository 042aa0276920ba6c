package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultAddr      = ":1337"
	DefaultPublicURL = "http://localhost:1337"
	DefaultCacheTTL  = 5 * time.Minute
	DefaultUploadDir = "./uploads"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr        string        `validate:"required"`
	DatabaseURL string        `validate:"required"`
	PublicURL   string        `validate:"required,url"`
	JWTSecret   string        `validate:"required,min=16"`
	RedisURL    string        `validate:"omitempty,url"`
	CacheTTL    time.Duration `validate:"gte=0"`
	LogLevel    string        `validate:"oneof=debug info warn error"`
	UploadDir   string        `validate:"required"`

	// Bootstrap admin, created on start when both are set.
	AdminEmail    string `validate:"required_with=AdminPassword,omitempty,email"`
	AdminPassword string `validate:"required_with=AdminEmail,omitempty,min=8"`
}

var validate = validator.New()

// Load reads a .env file when one exists, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function and validates it.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Addr:        getenv("ADDR"),
		DatabaseURL: getenv("DATABASE_URL"),
		PublicURL:   getenv("STRAPI_URL"),
		JWTSecret:   getenv("JWT_SECRET"),
		RedisURL:    getenv("REDIS_URL"),
		LogLevel:    getenv("LOG_LEVEL"),
		CacheTTL:    DefaultCacheTTL,
		UploadDir:   getenv("UPLOAD_DIR"),

		AdminEmail:    getenv("ADMIN_EMAIL"),
		AdminPassword: getenv("ADMIN_PASSWORD"),
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = DefaultPublicURL
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = DefaultUploadDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if v := getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = ttl
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// PublicURL returns STRAPI_URL or its default. Tools that only need the
// public base URL use this instead of a full Load.
func PublicURL() string {
	_ = godotenv.Load()
	if u := os.Getenv("STRAPI_URL"); u != "" {
		return u
	}
	return DefaultPublicURL
}
