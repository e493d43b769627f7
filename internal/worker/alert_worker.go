// Package worker turns expense events into budget alerts.
package worker

import (
	"context"
	"errors"
	"fmt"

	"budgetcoach/internal/amqp"
	"budgetcoach/internal/core"
	"budgetcoach/internal/insight"
	"budgetcoach/internal/log"
)

// AlertKind classifies an alert.
type AlertKind string

const (
	AlertOverspend AlertKind = "overspend"
	AlertPacing    AlertKind = "pacing"
)

// Alert is a single piece of advice worth surfacing to the user.
type Alert struct {
	Kind    AlertKind
	Month   string
	Message string
}

// AlertSink receives alerts produced by the worker.
type AlertSink interface {
	Send(ctx context.Context, alert Alert) error
}

// Insights is the part of the engine the worker needs.
type Insights interface {
	MonthSummary(ctx context.Context, month string) (insight.MonthSummary, error)
	RealtimePacing(ctx context.Context) (insight.Pacing, error)
}

// AlertWorker recomputes the affected month's insight for every expense event.
type AlertWorker struct {
	engine Insights
	sink   AlertSink
	logger *log.Logger
}

func NewAlertWorker(engine Insights, sink AlertSink, logger *log.Logger) *AlertWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &AlertWorker{
		engine: engine,
		sink:   sink,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleExpenseEvent recomputes the summary of the event's month and sends an
// alert for every overspent category or target overrun. Store failures are
// returned so the message is requeued; malformed months are dropped.
func (w *AlertWorker) HandleExpenseEvent(ctx context.Context, ev *amqp.ExpenseEvent) error {
	w.logger.InfoContext(ctx, "Processing expense event",
		"type", ev.Type,
		log.FieldExpenseID, ev.ID,
		log.FieldMonth, ev.Month)

	summary, err := w.engine.MonthSummary(ctx, ev.Month)
	if err != nil {
		if core.IsValidation(err) {
			w.logger.WarnContext(ctx, "Dropping event with invalid month", log.FieldMonth, ev.Month, log.FieldError, err)
			return nil
		}
		return fmt.Errorf("month summary: %w", err)
	}

	for _, advice := range summary.Warnings {
		if err := w.sink.Send(ctx, Alert{Kind: AlertOverspend, Month: ev.Month, Message: advice}); err != nil {
			return fmt.Errorf("send alert: %w", err)
		}
	}

	if summary.Pacing != nil && !summary.Pacing.OnTrack {
		alert := Alert{Kind: AlertPacing, Month: ev.Month, Message: summary.Pacing.Warning}
		if err := w.sink.Send(ctx, alert); err != nil {
			return fmt.Errorf("send alert: %w", err)
		}
	}
	return nil
}

// LogSink writes alerts to the structured log.
type LogSink struct {
	Logger *log.Logger
}

func (s LogSink) Send(ctx context.Context, alert Alert) error {
	if s.Logger == nil {
		return errors.New("log sink has no logger")
	}
	s.Logger.WarnContext(ctx, "Budget alert",
		"kind", alert.Kind,
		log.FieldMonth, alert.Month,
		"message", alert.Message)
	return nil
}
