package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// PacingMonitorConfig holds configuration for the pacing monitor
type PacingMonitorConfig struct {
	// Interval is how often pacing is evaluated (default: 1h)
	Interval time.Duration
}

// DefaultPacingMonitorConfig returns sensible defaults
func DefaultPacingMonitorConfig() PacingMonitorConfig {
	return PacingMonitorConfig{
		Interval: time.Hour,
	}
}

// PacingMonitor periodically checks real-time pacing and raises an alert when
// the current month goes off track. It alerts once per month per transition.
type PacingMonitor struct {
	engine Insights
	sink   AlertSink
	config PacingMonitorConfig

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	lastAlert string
}

func NewPacingMonitor(engine Insights, sink AlertSink, config PacingMonitorConfig) *PacingMonitor {
	if config.Interval <= 0 {
		config.Interval = DefaultPacingMonitorConfig().Interval
	}
	return &PacingMonitor{
		engine: engine,
		sink:   sink,
		config: config,
	}
}

// Start begins the check loop. Returns an error if already running.
func (m *PacingMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("pacing monitor is already running")
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	go m.runLoop(ctx)

	slog.InfoContext(ctx, "Pacing monitor started", "interval", m.config.Interval)
	return nil
}

// Stop signals the loop and waits for it to finish.
func (m *PacingMonitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Pacing monitor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Pacing monitor stop timed out")
		return ctx.Err()
	}

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
	return nil
}

// IsRunning returns whether the monitor is currently running
func (m *PacingMonitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *PacingMonitor) runLoop(ctx context.Context) {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check evaluates pacing once. Failures are logged and retried on the next tick.
func (m *PacingMonitor) Check(ctx context.Context) {
	p, err := m.engine.RealtimePacing(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Pacing check failed", "error", err)
		return
	}

	month := p.Month.String()
	m.mu.Lock()
	if p.OnTrack {
		if m.lastAlert == month {
			m.lastAlert = ""
		}
		m.mu.Unlock()
		return
	}
	if m.lastAlert == month {
		m.mu.Unlock()
		return
	}
	m.lastAlert = month
	m.mu.Unlock()

	if err := m.sink.Send(ctx, Alert{Kind: AlertPacing, Month: month, Message: p.Warning}); err != nil {
		slog.ErrorContext(ctx, "Failed to send pacing alert", "error", err)
		m.mu.Lock()
		m.lastAlert = ""
		m.mu.Unlock()
	}
}
