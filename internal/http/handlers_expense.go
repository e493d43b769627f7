package http

import (
	"net/http"

	"budgetcoach/internal/core"
	"budgetcoach/internal/log"
)

func parseMonth(s string) (core.MonthKey, error) {
	return core.ParseMonthKey(s)
}

// handleCreateExpense accepts JSON or form bodies with amount, category,
// description and date. A missing date means today.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	date := p.Get("date")
	if date == "" {
		date = s.now().Format("2006-01-02")
	}
	e, err := core.ParseExpense(p.Get("amount"), p.Get("category"), p.Get("description"), date)
	if err != nil {
		ErrorFor(err).Write(w)
		return
	}

	created, err := s.expenses.CreateExpense(r.Context(), e)
	if err != nil {
		respond(w, r, log.OpCreate, nil, err)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/expenses/"+created.Month().String()).
		Body(created).
		Write(w)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.readCtx(r)
	defer cancel()
	out, err := s.insights.MonthExpenses(ctx, r.PathValue("month"))
	respond(w, r, log.OpFetch, out, err)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.expenses.DeleteExpense(r.Context(), r.PathValue("id"))
	respond(w, r, log.OpDelete, deleted, err)
}
