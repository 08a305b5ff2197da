package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultPredictionURL = "https://health-uxaj.onrender.com/predict"

type Config struct {
	Port              string
	GinMode           string
	LogLevel          string
	LogFormat         string
	PredictionURL     string
	PredictionTimeout time.Duration
	AlertAMQPURL      string
	AlertQueue        string
	AllowedOrigins    []string
	DatabaseURL       string
	EnableDB          bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "release"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		PredictionURL:  getEnv("PREDICTION_URL", DefaultPredictionURL),
		AlertAMQPURL:   os.Getenv("ALERT_AMQP_URL"),
		AlertQueue:     os.Getenv("ALERT_QUEUE"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		EnableDB:       strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
	}

	if raw := os.Getenv("PREDICTION_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("PREDICTION_TIMEOUT must be a non-negative duration, got %q", raw)
		}
		cfg.PredictionTimeout = d
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
