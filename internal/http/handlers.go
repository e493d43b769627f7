package http

import (
	"context"
	"net/http"

	"budgetcoach/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.readTimeout)
	defer cancel()
	if err := s.ready(ctx); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err)
		ServiceUnavailableError("not ready").Write(w)
		return
	}
	NewJSONResponse().Body(map[string]string{"status": "ready"}).Write(w)
}

// respond writes v, or the mapped error when err is set. Server-side
// failures are logged with the request logger.
func respond(w http.ResponseWriter, r *http.Request, op string, v any, err error) {
	if err != nil {
		resp := ErrorFor(err)
		if resp.StatusCode() >= http.StatusInternalServerError {
			log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
				log.FieldOperation, op,
				log.FieldPath, r.URL.Path,
				log.FieldError, err)
		}
		resp.Write(w)
		return
	}
	NewJSONResponse().Body(v).Write(w)
}

// readCtx bounds store reads by the configured timeout.
func (s *Server) readCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.readTimeout)
}
