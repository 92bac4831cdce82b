package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday/internal/usecase"
)

func TestWriteSuccess_FlatBody(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, submissionResponse{Success: true, EventID: "evt-1"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body["success"] != true || body["event_id"] != "evt-1" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["paused_ms"]; ok {
		t.Fatalf("did not expect paused_ms on a goal response")
	}
}

func TestWriteError_FlatBody(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body errorBody
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Error != "invalid_input" || body.Status != http.StatusBadRequest {
		t.Fatalf("unexpected error body: %+v", body)
	}
	if body.Message != "invalid input: bad payload" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("pq: connection refused to 10.0.0.7"))

	var body errorBody
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if rec.Code != http.StatusInternalServerError || body.Message != "Internal Server Error" {
		t.Fatalf("expected generic 500, got %d %+v", rec.Code, body)
	}
}

func TestWriteError_RetryAfterRoundsUp(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, &usecase.RateLimitedError{Key: "events:staff-01", RetryAfter: 2300 * time.Millisecond})

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "3" {
		t.Fatalf("expected Retry-After 3, got %q", got)
	}

	rec = httptest.NewRecorder()
	writeError(context.Background(), rec, &usecase.RateLimitedError{Key: "events:staff-01"})
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("expected Retry-After floor of 1, got %q", got)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		reason string
	}{
		{err: usecase.ErrInvalidInput, status: http.StatusBadRequest, reason: "invalid_input"},
		{err: usecase.ErrPreconditionFailed, status: http.StatusBadRequest, reason: "precondition_failed"},
		{err: usecase.ErrUnauthorized, status: http.StatusUnauthorized, reason: "unauthorized"},
		{err: usecase.ErrForbidden, status: http.StatusForbidden, reason: "forbidden"},
		{err: usecase.ErrNotFound, status: http.StatusNotFound, reason: "not_found"},
		{err: usecase.ErrDuplicateSubmission, status: http.StatusConflict, reason: "duplicate_submission"},
		{err: usecase.ErrConflict, status: http.StatusConflict, reason: "conflict"},
		{err: usecase.ErrRateLimited, status: http.StatusTooManyRequests, reason: "rate_limited"},
		{err: usecase.ErrTimeout, status: http.StatusGatewayTimeout, reason: "timeout"},
		{err: usecase.ErrDependencyUnavailable, status: http.StatusServiceUnavailable, reason: "dependency_unavailable"},
		{err: errors.New("boom"), status: http.StatusInternalServerError, reason: "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			got := mapError(context.Background(), fmt.Errorf("wrapped: %w", tt.err))
			if got.HTTPStatus != tt.status || got.Reason != tt.reason {
				t.Fatalf("mapError(%v)=%+v want %d/%s", tt.err, got, tt.status, tt.reason)
			}
		})
	}
}
