package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"budgetcoach/internal/core"
	"budgetcoach/internal/insight"
	"budgetcoach/internal/log"
	"budgetcoach/internal/middleware/ratelimit"
	"budgetcoach/internal/middleware/security"
	"budgetcoach/internal/middleware/trace"
)

// Insights is the read side served by the API.
type Insights interface {
	MonthExpenses(ctx context.Context, month string) (insight.MonthExpenses, error)
	MonthSummary(ctx context.Context, month string) (insight.MonthSummary, error)
	AdaptiveBudget(ctx context.Context, month string) (insight.AdaptiveBudget, error)
	RealtimePacing(ctx context.Context) (insight.Pacing, error)
	Projection(ctx context.Context, month string) (insight.Projection, error)
	Compare(ctx context.Context, month1, month2 string) (insight.Comparison, error)
	Trends(ctx context.Context, month string) (insight.Trends, error)
}

// ExpenseWriter is the write side served by the API.
type ExpenseWriter interface {
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, id string) (core.Expense, error)
}

// Options configures the server. Zero values select defaults.
type Options struct {
	Addr           string
	ReadTimeout    time.Duration
	RateLimit      ratelimit.Config
	TrustedProxies []string
	Logger         *log.Logger
	// Ready reports whether backing services are reachable.
	Ready func(ctx context.Context) error
	Clock func() time.Time
}

type Server struct {
	http.Server
	insights    Insights
	expenses    ExpenseWriter
	limiter     *ratelimit.Limiter
	detector    *security.Detector
	tracer      *trace.Middleware
	logger      *log.Logger
	readTimeout time.Duration
	ready       func(ctx context.Context) error
	now         func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(insights Insights, expenses ExpenseWriter, opts Options) (*Server, error) {
	detector, err := security.NewDetector(opts.TrustedProxies...)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 7 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Ready == nil {
		opts.Ready = func(context.Context) error { return nil }
	}

	s := &Server{
		insights:    insights,
		expenses:    expenses,
		limiter:     ratelimit.NewLimiter(opts.RateLimit),
		detector:    detector,
		tracer:      trace.NewMiddleware(detector.ExtractClientIP, opts.Logger),
		logger:      opts.Logger.WithComponent(log.ComponentHTTP),
		readTimeout: opts.ReadTimeout,
		ready:       opts.Ready,
		now:         opts.Clock,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	write := s.limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, detector.ExtractClientIP(r),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		TooManyRequestsError().Write(w)
	})
	mux.Handle("POST /expenses", write(http.HandlerFunc(s.handleCreateExpense)))
	mux.Handle("DELETE /expenses/{id}", write(http.HandlerFunc(s.handleDeleteExpense)))
	mux.HandleFunc("GET /expenses/{month}", s.handleListExpenses)

	mux.HandleFunc("GET /insights/summary/{month}", s.handleSummary)
	mux.HandleFunc("GET /insights/adaptive-budget/{month}", s.handleAdaptiveBudget)
	mux.HandleFunc("GET /insights/pacing", s.handlePacing)
	mux.HandleFunc("GET /insights/projection/{month}", s.handleProjection)
	mux.HandleFunc("GET /insights/compare", s.handleCompare)
	mux.HandleFunc("GET /insights/trends/{month}", s.handleTrends)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("not found").Write(w)
	})

	var handler http.Handler = mux
	handler = s.rejectSuspicious(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      opts.ReadTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) rejectSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request rejected",
				log.FieldClientIP, s.detector.ExtractClientIP(r),
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldErrorType, "suspicious_request")
			ErrorResponse(http.StatusForbidden, "forbidden").Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and the limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// TraceMetrics exposes request counters for diagnostics.
func (s *Server) TraceMetrics() trace.Metrics {
	return s.tracer.GetMetrics()
}
