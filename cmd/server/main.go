package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/Skufu/vitalrisk/internal/alert"
	"github.com/Skufu/vitalrisk/internal/assessment"
	"github.com/Skufu/vitalrisk/internal/config"
	"github.com/Skufu/vitalrisk/internal/logging"
	"github.com/Skufu/vitalrisk/internal/prediction"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init("info", "json")
		log.Fatal().Err(err).Msg("config error")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()
	var db HealthChecker
	if cfg.EnableDB {
		pool, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer pool.Close()
		db = pool
	}

	client := prediction.NewClient(cfg.PredictionURL, prediction.WithTimeout(cfg.PredictionTimeout))
	notifier := alert.FromURL(cfg.AlertAMQPURL, cfg.AlertQueue)
	svc := assessment.NewService(client, notifier)

	router := setupRouter(db, svc, cfg.AllowedOrigins)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("prediction_url", client.Endpoint()).
		Bool("amqp_alerts", cfg.AlertAMQPURL != "").
		Msg("server listening")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	if err := waitForShutdown(server, stop, shutdownGrace); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}

// readinessPoolConfig parses url for a pool that only backs /readyz pings.
func readinessPoolConfig(url string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	cfg.MaxConns = 2
	cfg.MinConns = 0
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.ConnConfig.RuntimeParams["application_name"] = "vitalrisk"
	return cfg, nil
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := readinessPoolConfig(url)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open readiness pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, shutdownGrace)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("readiness ping: %w", err)
	}

	log.Info().Str("host", cfg.ConnConfig.Host).Msg("readiness database connected")
	return pool, nil
}

const shutdownGrace = 5 * time.Second

// waitForShutdown blocks until stop fires, then drains in-flight requests
// for at most grace.
func waitForShutdown(server *http.Server, stop <-chan os.Signal, grace time.Duration) error {
	sig := <-stop
	log.Info().Str("signal", fmt.Sprint(sig)).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
