package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"budgetcoach/internal/amqp"
	"budgetcoach/internal/cli"
	"budgetcoach/internal/config"
	"budgetcoach/internal/log"
	"budgetcoach/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	if err := run(logger, cfg); err != nil {
		logger.Error("Worker failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

func run(logger *log.Logger, cfg *config.Config) error {
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required for the budget worker")
	}

	// The worker only reads; events come from the consumer below.
	storeCfg := *cfg
	storeCfg.AMQPURL = ""
	rt, err := cli.OpenRuntime(context.Background(), &storeCfg, logger)
	if err != nil {
		return fmt.Errorf("initialize backend: %w", err)
	}
	defer rt.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer amqpClient.Close()

	sink := worker.LogSink{Logger: logger}
	alerts := worker.NewAlertWorker(rt.Engine, sink, logger)
	monitor := worker.NewPacingMonitor(rt.Engine, sink, worker.PacingMonitorConfig{
		Interval: cfg.PacingCheckInterval,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := monitor.Stop(ctx); err != nil {
			logger.Error("Pacing monitor stop error", log.FieldError, err)
		}
	})

	if err := monitor.Start(ctx); err != nil {
		return fmt.Errorf("start pacing monitor: %w", err)
	}

	logger.Info("Starting budget-worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"pacing_interval", cfg.PacingCheckInterval,
		log.FieldOperation, log.OpStartup)

	err = amqpClient.ConsumeExpenseEvents(ctx, alerts.HandleExpenseEvent)
	if err != nil && !errors.Is(err, context.Canceled) {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = monitor.Stop(stopCtx)
		return fmt.Errorf("consume expense events: %w", err)
	}

	cli.WaitForShutdown(ctx, done)
	return nil
}
