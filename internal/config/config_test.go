package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/apollo")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %q", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("expected default env to be development")
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("expected default max conns 20, got %d", cfg.DBMaxConns)
	}
	if cfg.FormsTimeout() != 15*time.Second {
		t.Errorf("expected forms timeout 15s, got %v", cfg.FormsTimeout())
	}
	if cfg.OverlayTTL() != 12*time.Hour {
		t.Errorf("expected overlay TTL 12h, got %v", cfg.OverlayTTL())
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestValidate_Development(t *testing.T) {
	cfg := &Config{Env: "development", FormsAPITimeout: 15, OverlayTTLHours: 12}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ProductionRequiresAuthIssuer(t *testing.T) {
	cfg := &Config{Env: "production", FormsAPIURL: "http://forms:8080", FormsAPITimeout: 15, OverlayTTLHours: 12}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing AUTH_ISSUER in production")
	}
}

func TestValidate_ProductionRequiresFormsURL(t *testing.T) {
	cfg := &Config{Env: "production", AuthIssuer: "https://auth.example.com", FormsAPITimeout: 15, OverlayTTLHours: 12}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing FORMS_API_URL in production")
	}
}

func TestValidate_NonPositiveTimeout(t *testing.T) {
	cfg := &Config{Env: "development", FormsAPITimeout: 0, OverlayTTLHours: 12}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive FORMS_API_TIMEOUT")
	}
}

func TestValidate_NonPositiveOverlayTTL(t *testing.T) {
	cfg := &Config{Env: "development", FormsAPITimeout: 15, OverlayTTLHours: -1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive OVERLAY_TTL_HOURS")
	}
}
