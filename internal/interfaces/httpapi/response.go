package httpapi

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

// errorBody is the flat error shape shared by every endpoint.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	// Expose false replaces the message with a generic one.
	Expose bool
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal","message":"internal server error","status":500}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, data)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	message := err.Error()
	if !mapped.Expose {
		message = http.StatusText(mapped.HTTPStatus)
	}

	var limited *usecase.RateLimitedError
	if errors.As(err, &limited) {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(limited)))
	}

	writeJSON(ctx, w, mapped.HTTPStatus, errorBody{
		Error:   mapped.Reason,
		Message: message,
		Status:  mapped.HTTPStatus,
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, errorBody{
		Error:   "internal",
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
	})
}

func writeMethodNotAllowed(ctx context.Context, w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(ctx, w, http.StatusMethodNotAllowed, errorBody{
		Error:   "method_not_allowed",
		Message: "method not allowed",
		Status:  http.StatusMethodNotAllowed,
	})
}

func mapError(ctx context.Context, err error) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalid_input", Expose: true}
	case errors.Is(err, usecase.ErrPreconditionFailed):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "precondition_failed", Expose: true}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Reason: "not_found", Expose: true}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "unauthorized", Expose: true}
	case errors.Is(err, usecase.ErrForbidden):
		return mappedError{HTTPStatus: http.StatusForbidden, Reason: "forbidden", Expose: true}
	case errors.Is(err, usecase.ErrDuplicateSubmission):
		return mappedError{HTTPStatus: http.StatusConflict, Reason: "duplicate_submission", Expose: true}
	case errors.Is(err, usecase.ErrConflict):
		return mappedError{HTTPStatus: http.StatusConflict, Reason: "conflict", Expose: true}
	case errors.Is(err, usecase.ErrRateLimited):
		return mappedError{HTTPStatus: http.StatusTooManyRequests, Reason: "rate_limited", Expose: true}
	case errors.Is(err, usecase.ErrTimeout):
		return mappedError{HTTPStatus: http.StatusGatewayTimeout, Reason: "timeout"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependency_unavailable"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internal"}
	}
}

func retryAfterSeconds(err *usecase.RateLimitedError) int {
	secs := int(math.Ceil(err.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
