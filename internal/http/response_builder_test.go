package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetcoach/internal/core"
	"budgetcoach/internal/insight"
)

func TestJSONResponseBuilder_Basic(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/expenses/2024-06").
		Body(map[string]string{"status": "ok"}).
		Write(rec)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if loc := rec.Header().Get("Location"); loc != "/expenses/2024-06" {
		t.Errorf("Location = %q", loc)
	}
	if body := rec.Body.String(); body != "{\"status\":\"ok\"}\n" {
		t.Errorf("body = %q", body)
	}
}

func TestJSONResponseBuilder_NoBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(rec)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestJSONResponseBuilder_EncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().Body(map[string]any{"bad": make(chan int)}).Write(rec)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		builder    *JSONResponseBuilder
		wantStatus int
		wantMsg    string
	}{
		{"bad request", BadRequestError("bad"), http.StatusBadRequest, "bad"},
		{"not found", NotFoundError("gone"), http.StatusNotFound, "gone"},
		{"internal", InternalServerError("boom"), http.StatusInternalServerError, "boom"},
		{"unavailable", ServiceUnavailableError("down"), http.StatusServiceUnavailable, "down"},
		{"rate limited", TooManyRequestsError(), http.StatusTooManyRequests, "rate limit exceeded, please try again later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.builder.Write(rec)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Errorf("error = %q, want %q", body.Error, tt.wantMsg)
			}
		})
	}
}

func TestServiceUnavailableError_RetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	ServiceUnavailableError("down").Write(rec)
	if got := rec.Header().Get("Retry-After"); got != "5" {
		t.Errorf("Retry-After = %q, want 5", got)
	}
}

func TestErrorFor(t *testing.T) {
	_, monthErr := core.ParseMonthKey("2024-13")
	storeErr := &insight.StoreError{Month: "2024-06", Err: errors.New("disk gone")}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", monthErr, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("summary: %w", monthErr), http.StatusBadRequest},
		{"not found", core.ErrExpenseNotFound, http.StatusNotFound},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"store", storeErr, http.StatusServiceUnavailable},
		{"other", errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorFor(tt.err).StatusCode(); got != tt.want {
				t.Errorf("ErrorFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
