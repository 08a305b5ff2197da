package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("ENABLE_DB", "true")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadUsesDefaults(t *testing.T) {
	t.Setenv("ENABLE_DB", "false")
	t.Setenv("PORT", "")
	t.Setenv("PREDICTION_URL", "")
	t.Setenv("PREDICTION_TIMEOUT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("ALERT_QUEUE", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.PredictionURL != DefaultPredictionURL {
		t.Fatalf("expected default prediction url, got %s", cfg.PredictionURL)
	}
	if cfg.PredictionTimeout != 0 {
		t.Fatalf("expected no timeout by default, got %s", cfg.PredictionTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.AlertQueue != "" {
		t.Fatalf("expected empty alert queue so the publisher picks its default, got %q", cfg.AlertQueue)
	}
}

func TestLoadPredictionSettings(t *testing.T) {
	t.Setenv("ENABLE_DB", "false")
	t.Setenv("PREDICTION_URL", "http://localhost:9000/predict")
	t.Setenv("PREDICTION_TIMEOUT", "3s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PredictionURL != "http://localhost:9000/predict" || cfg.PredictionTimeout != 3*time.Second {
		t.Fatalf("unexpected prediction config: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("ENABLE_DB", "false")
	t.Setenv("PREDICTION_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparsable timeout")
	}
}
