package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"budgetcoach/internal/cli"
	apphttp "budgetcoach/internal/http"
	"budgetcoach/internal/log"
	"budgetcoach/internal/middleware/ratelimit"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	rt, err := cli.OpenRuntime(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	srv, err := apphttp.NewServer(rt.Engine, rt.Backend.Service, apphttp.Options{
		Addr:        ":" + cfg.Port,
		ReadTimeout: cfg.ReadTimeout,
		RateLimit: ratelimit.Config{
			RequestsPerMinute: cfg.RateLimit,
			CleanupInterval:   5 * time.Minute,
		},
		TrustedProxies: cfg.TrustedProxies,
		Logger:         logger,
		Ready:          rt.Backend.Ready,
	})
	if err != nil {
		logger.Error("Failed to configure server", log.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := rt.Close(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Starting budget-insights server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events", cfg.AMQPURL != "",
		log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
