package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "JWT_SECRET", "JWT_TTL", "BCRYPT_COST", "STATIC_DIR", "CORS_ALLOWED_ORIGINS", "MEDIA_BUCKET", "MEDIA_URL_TTL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AppPort != 3000 {
		t.Fatalf("expected default port 3000 got %d", cfg.AppPort)
	}
	if cfg.JWTTTL != time.Hour {
		t.Fatalf("expected 1h token ttl got %v", cfg.JWTTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("expected bcrypt cost 10 got %d", cfg.BcryptCost)
	}
	if cfg.StaticDir != "public" {
		t.Fatalf("expected public static dir got %q", cfg.StaticDir)
	}
	if len(cfg.CORSAllowedHosts) != 1 || cfg.CORSAllowedHosts[0] != "*" {
		t.Fatalf("expected wildcard cors got %v", cfg.CORSAllowedHosts)
	}
	if cfg.ObjectStore.Enabled() {
		t.Fatal("expected object store to be disabled by default")
	}
	if !errors.Is(cfg.ValidateServe(), ErrMissingJWTSecret) {
		t.Fatal("expected missing JWT secret to fail validation")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MEDIA_BUCKET", "media")
	t.Setenv("MEDIA_URL_TTL", "bogus")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AppPort != 8081 {
		t.Fatalf("expected port override got %d", cfg.AppPort)
	}
	if cfg.JWTTTL != 30*time.Minute {
		t.Fatalf("expected ttl override got %v", cfg.JWTTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("expected invalid cost to fall back got %d", cfg.BcryptCost)
	}
	if len(cfg.CORSAllowedHosts) != 2 || cfg.CORSAllowedHosts[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSAllowedHosts)
	}
	if !cfg.ObjectStore.Enabled() || cfg.ObjectStore.URLTTL != 15*time.Minute {
		t.Fatalf("unexpected object store config %+v", cfg.ObjectStore)
	}
	if err := cfg.ValidateServe(); err != nil {
		t.Fatalf("expected valid config got %v", err)
	}
}
