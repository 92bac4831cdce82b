package usecase

import "time"

const (
	GateIdempotency = "idempotency"
	GateRateLimit   = "rate_limit"

	OutcomeAllowed   = "allowed"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
	OutcomeAccepted  = "accepted"
	OutcomeDuplicate = "duplicate"
)

// Metrics receives gate and submission outcomes. The prometheus adapter
// lives in internal/observability.
type Metrics interface {
	GateDecision(gate, outcome string)
	Submission(eventType, outcome string, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) GateDecision(string, string) {}

func (noopMetrics) Submission(string, string, time.Duration) {}

