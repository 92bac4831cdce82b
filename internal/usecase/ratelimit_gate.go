package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/gate"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

// RateLimitGate bounds submissions per user and action class. Store failures
// reject the request.
type RateLimitGate struct {
	persistence
	store    gate.RateLimitStore
	policies map[gate.Class]gate.Policy
	logger   *logging.Logger
	metrics  Metrics
	now      func() time.Time
}

func NewRateLimitGate(store gate.RateLimitStore, policies map[gate.Class]gate.Policy, logger *logging.Logger) *RateLimitGate {
	if logger == nil {
		logger = logging.Default()
	}
	merged := gate.DefaultPolicies()
	for class, policy := range policies {
		policy.Class = class
		merged[class] = policy
	}
	return &RateLimitGate{
		store:    store,
		policies: merged,
		logger:   logger.Named("ratelimit"),
		metrics:  noopMetrics{},
		now:      time.Now,
	}
}

func (g *RateLimitGate) SetMetrics(m Metrics) {
	if m != nil {
		g.metrics = m
	}
}

func (g *RateLimitGate) Policy(class gate.Class) (gate.Policy, bool) {
	p, ok := g.policies[class]
	return p, ok
}

func (g *RateLimitGate) Check(ctx context.Context, class gate.Class, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RateLimitGate.Check")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	policy, ok := g.policies[class]
	if !ok {
		return fmt.Errorf("%w: unknown rate limit class %q", ErrInvalidInput, class)
	}
	if policy.Limit <= 0 || policy.Window <= 0 {
		g.metrics.GateDecision(GateRateLimit, OutcomeAllowed)
		return nil
	}

	key := gate.Key(class, userID)
	callCtx, cancel := g.bound(ctx)
	defer cancel()

	decision, err := g.store.Hit(callCtx, key, policy, g.now())
	if err != nil {
		g.metrics.GateDecision(GateRateLimit, OutcomeFailed)
		g.logger.WarnContext(ctx, "rate limit store failed, rejecting", "key", key, "error", err)
		recordSpanError(span, err)
		return infraError("rate limit hit", err)
	}
	if !decision.Allowed {
		g.metrics.GateDecision(GateRateLimit, OutcomeRejected)
		return &RateLimitedError{Key: key, RetryAfter: decision.RetryAfter}
	}

	g.metrics.GateDecision(GateRateLimit, OutcomeAllowed)
	return nil
}
