package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/gate"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

// IdempotencyCheck names what must not have been applied before. TTL is
// recorded but never enforced: keys do not expire.
type IdempotencyCheck struct {
	EventID        string
	IdempotencyKey string
	TTL            time.Duration
}

// IdempotencyGate rejects a submission whose event id or idempotency key was
// already persisted. Lookup failures reject the request.
type IdempotencyGate struct {
	persistence
	events   gate.EventLookup
	payments gate.PaymentLookup
	logger   *logging.Logger
	metrics  Metrics
}

func NewIdempotencyGate(events gate.EventLookup, payments gate.PaymentLookup, logger *logging.Logger) *IdempotencyGate {
	if logger == nil {
		logger = logging.Default()
	}
	return &IdempotencyGate{
		events:   events,
		payments: payments,
		logger:   logger.Named("idempotency"),
		metrics:  noopMetrics{},
	}
}

func (g *IdempotencyGate) SetMetrics(m Metrics) {
	if m != nil {
		g.metrics = m
	}
}

func (g *IdempotencyGate) Check(ctx context.Context, in IdempotencyCheck) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdempotencyGate.Check")
	defer span.End()

	eventID := strings.TrimSpace(in.EventID)
	key := strings.TrimSpace(in.IdempotencyKey)
	if eventID == "" && key == "" {
		return fmt.Errorf("%w: event id or idempotency key is required", ErrInvalidInput)
	}
	if in.TTL > 0 {
		g.logger.DebugContext(ctx, "idempotency ttl ignored, keys never expire", "ttl", in.TTL)
	}

	if eventID != "" {
		if err := g.lookup(ctx, "event", eventID, g.events.Exists); err != nil {
			recordSpanError(span, err)
			return err
		}
	}
	if key != "" {
		if err := g.lookup(ctx, "payment", key, g.payments.ExistsByExternalReference); err != nil {
			recordSpanError(span, err)
			return err
		}
	}

	g.metrics.GateDecision(GateIdempotency, OutcomeAllowed)
	return nil
}

func (g *IdempotencyGate) lookup(ctx context.Context, kind, key string, exists func(context.Context, string) (bool, error)) error {
	callCtx, cancel := g.bound(ctx)
	defer cancel()

	found, err := exists(callCtx, key)
	if err != nil {
		g.metrics.GateDecision(GateIdempotency, OutcomeFailed)
		g.logger.WarnContext(ctx, "idempotency lookup failed, rejecting", "kind", kind, "key", key, "error", err)
		return infraError("idempotency lookup "+kind, err)
	}
	if found {
		g.metrics.GateDecision(GateIdempotency, OutcomeRejected)
		return fmt.Errorf("%w: %s %s already exists", ErrDuplicateSubmission, kind, key)
	}
	return nil
}
