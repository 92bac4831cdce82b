package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/usecase"
)

const maxRequestBodyBytes = 64 << 10

// Services groups the usecases served over HTTP.
type Services struct {
	Events      *usecase.MatchEventService
	Matches     *usecase.MatchService
	Projections *usecase.ProjectionService
	Clocks      *usecase.ClockRegistry
	CheckIns    *usecase.CheckInService
	Payments    *usecase.PaymentService
	Members     *usecase.MemberService
}

type Handler struct {
	events      *usecase.MatchEventService
	matches     *usecase.MatchService
	projections *usecase.ProjectionService
	clocks      *usecase.ClockRegistry
	checkins    *usecase.CheckInService
	payments    *usecase.PaymentService
	members     *usecase.MemberService

	idempotencyTTL time.Duration
	rebuildWorkers int
	logger         *logging.Logger
	validator      *validator.Validate
}

type HandlerOptions struct {
	// IdempotencyTTL is attached to every submission; the gate only logs it.
	IdempotencyTTL time.Duration
	RebuildWorkers int
}

func NewHandler(services Services, opts HandlerOptions, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		events:         services.Events,
		matches:        services.Matches,
		projections:    services.Projections,
		clocks:         services.Clocks,
		checkins:       services.CheckIns,
		payments:       services.Payments,
		members:        services.Members,
		idempotencyTTL: opts.IdempotencyTTL,
		rebuildWorkers: opts.RebuildWorkers,
		logger:         logger.Named("httpapi"),
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, req any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(req); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, req)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// submission builds the submitter identity from the authorized member and
// the X-Idempotency-Key header.
func (h *Handler) submission(ctx context.Context, r *http.Request) (usecase.Submission, error) {
	m, ok := memberFromContext(ctx)
	if !ok {
		return usecase.Submission{}, fmt.Errorf("%w: member is missing from request context", usecase.ErrUnauthorized)
	}
	eventID := strings.TrimSpace(r.Header.Get(headerIdempotencyKey))
	if eventID == "" {
		return usecase.Submission{}, fmt.Errorf("%w: missing %s header", usecase.ErrInvalidInput, headerIdempotencyKey)
	}
	return usecase.Submission{
		EventID: eventID,
		UserID:  m.ID,
		TTL:     h.idempotencyTTL,
	}, nil
}

func (h *Handler) callerID(ctx context.Context) (string, error) {
	m, ok := memberFromContext(ctx)
	if !ok {
		return "", fmt.Errorf("%w: member is missing from request context", usecase.ErrUnauthorized)
	}
	return m.ID, nil
}

// logFailure logs server-side failures at error level and client errors at
// warn, so 4xx noise stays out of alerting.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if mapError(ctx, err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}
