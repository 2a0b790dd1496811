package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingJWTSecret is returned when the server is started without a signing key.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is not defined")

// Config captures the runtime configuration for the fitflix backend service.
type Config struct {
	AppPort          int
	DatabaseURL      string
	JWTSecret        string
	JWTTTL           time.Duration
	BcryptCost       int
	LogLevel         string
	StaticDir        string
	CatalogFile      string
	SeedDir          string
	CORSAllowedHosts []string
	ObjectStore      ObjectStoreConfig
}

// ObjectStoreConfig describes the optional S3-compatible bucket holding media.
type ObjectStoreConfig struct {
	Bucket   string
	Region   string
	Endpoint string
	URLTTL   time.Duration
}

// Enabled reports whether a media bucket is configured.
func (c ObjectStoreConfig) Enabled() bool {
	return strings.TrimSpace(c.Bucket) != ""
}

// Load reads configuration from environment variables, applying defaults for
// local development.
func Load() (Config, error) {
	cfg := Config{
		AppPort:          getInt("PORT", 3000),
		DatabaseURL:      getString("DATABASE_URL", ""),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTTTL:           getDuration("JWT_TTL", time.Hour),
		BcryptCost:       getInt("BCRYPT_COST", 10),
		LogLevel:         getString("LOG_LEVEL", "info"),
		StaticDir:        getString("STATIC_DIR", "public"),
		CatalogFile:      getString("CATALOG_FILE", ""),
		SeedDir:          getString("SEED_DIR", "seeds"),
		CORSAllowedHosts: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ObjectStore: ObjectStoreConfig{
			Bucket:   getString("MEDIA_BUCKET", ""),
			Region:   getString("MEDIA_REGION", "us-east-1"),
			Endpoint: getString("MEDIA_ENDPOINT", ""),
			URLTTL:   getDuration("MEDIA_URL_TTL", 15*time.Minute),
		},
	}

	return cfg, nil
}

// ValidateServe checks the settings the HTTP server cannot run without.
func (c Config) ValidateServe() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
