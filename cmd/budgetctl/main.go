package main

import (
	"context"
	"log/slog"
	"os"

	"budgetcoach/internal/cli"
	"budgetcoach/internal/config"
	"budgetcoach/internal/log"
)

func main() {
	cli.LoadEnvFile()

	cli.Main(func(ctx context.Context) (*cli.Session, error) {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}

		// Reports go to stdout; keep logs on stderr and quiet unless asked.
		level := slog.LevelWarn
		if os.Getenv("LOG_LEVEL") != "" {
			level = log.ParseLevel(cfg.LogLevel)
		}
		logger := log.New(log.Config{
			Level:     level,
			Component: log.ComponentCLI,
			Format:    cfg.LogFormat,
			Output:    os.Stderr,
		})

		rt, err := cli.OpenRuntime(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &cli.Session{
			Reports:  rt.Engine,
			Expenses: rt.Backend.Service,
			Close:    rt.Close,
		}, nil
	})
}
