// Public domain.

// Command altazd serves altaz transforms over HTTP.
//
// Configuration is by environment:
//
//	ALTAZ_HTTP_ADDR        listen address, default :8080
//	ALTAZ_LOG_LEVEL        debug, info, warn or error, default info
//	ALTAZ_WORKERS          batch goroutines, default one per CPU
//	ALTAZ_BATCH_THRESHOLD  batch size for parallel execution, default 256
//	ALTAZ_MAX_COORDS       objects per request, default 100000
//	ALTAZ_RATE_RPS         requests per second per client, 0 disables, default 50
//	ALTAZ_RATE_BURST       burst per client, default 100
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/soniakeys/altaz/batch"
	"github.com/soniakeys/altaz/internal/api"
)

func main() {
	level := slog.LevelInfo
	if v := os.Getenv("ALTAZ_LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			level = slog.LevelInfo
		}
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	addr := os.Getenv("ALTAZ_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	cfg := loadEngineConfig(logger)
	loadLimitConfig(logger, &cfg)
	srv := api.NewServer(addr, cfg, logger)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func loadEngineConfig(logger *slog.Logger) api.Config {
	cfg := api.Config{
		Workers:   runtime.NumCPU(),
		Threshold: batch.DefaultThreshold,
	}

	if v := os.Getenv("ALTAZ_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid ALTAZ_WORKERS value, using default", "value", v, "default", cfg.Workers)
		} else {
			cfg.Workers = n
		}
	}

	if v := os.Getenv("ALTAZ_BATCH_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid ALTAZ_BATCH_THRESHOLD value, using default", "value", v, "default", cfg.Threshold)
		} else {
			cfg.Threshold = n
		}
	}

	logger.Info("engine config",
		"workers", cfg.Workers,
		"threshold", cfg.Threshold,
	)

	return cfg
}

func loadLimitConfig(logger *slog.Logger, cfg *api.Config) {
	cfg.MaxObjects = api.DefaultConfig.MaxObjects
	cfg.RateRPS = api.DefaultConfig.RateRPS
	cfg.RateBurst = api.DefaultConfig.RateBurst

	if v := os.Getenv("ALTAZ_MAX_COORDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid ALTAZ_MAX_COORDS value, using default", "value", v, "default", cfg.MaxObjects)
		} else {
			cfg.MaxObjects = n
		}
	}

	if v := os.Getenv("ALTAZ_RATE_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			logger.Warn("invalid ALTAZ_RATE_RPS value, using default", "value", v, "default", cfg.RateRPS)
		} else {
			cfg.RateRPS = f
		}
	}

	if v := os.Getenv("ALTAZ_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid ALTAZ_RATE_BURST value, using default", "value", v, "default", cfg.RateBurst)
		} else {
			cfg.RateBurst = n
		}
	}

	logger.Info("limit config",
		"max_coords", cfg.MaxObjects,
		"rate_rps", cfg.RateRPS,
		"rate_burst", cfg.RateBurst,
	)
}
