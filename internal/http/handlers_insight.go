package http

import (
	"net/http"
	"strings"

	"budgetcoach/internal/log"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readCtx(r)
	defer cancel()
	summary, err := s.insights.MonthSummary(ctx, r.PathValue("month"))
	respond(w, r, log.OpSummary, summary, err)
}

func (s *Server) handleAdaptiveBudget(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readCtx(r)
	defer cancel()
	budget, err := s.insights.AdaptiveBudget(ctx, r.PathValue("month"))
	respond(w, r, log.OpAdaptive, budget, err)
}

func (s *Server) handlePacing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readCtx(r)
	defer cancel()
	pacing, err := s.insights.RealtimePacing(ctx)
	respond(w, r, log.OpPacing, pacing, err)
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readCtx(r)
	defer cancel()
	projection, err := s.insights.Projection(ctx, r.PathValue("month"))
	respond(w, r, log.OpProjection, projection, err)
}

// handleCompare compares month1 against month2. month2 defaults to the month
// before month1.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month1 := strings.TrimSpace(q.Get("month1"))
	month2 := strings.TrimSpace(q.Get("month2"))
	if month1 == "" {
		BadRequestError("month1 is required").Write(w)
		return
	}
	if month2 == "" {
		if m1, err := parseMonth(month1); err == nil {
			month2 = m1.Prev().String()
		}
	}

	ctx, cancel := s.readCtx(r)
	defer cancel()
	cmp, err := s.insights.Compare(ctx, month1, month2)
	respond(w, r, log.OpCompare, cmp, err)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readCtx(r)
	defer cancel()
	trends, err := s.insights.Trends(ctx, r.PathValue("month"))
	respond(w, r, log.OpTrends, trends, err)
}
