package gate

import (
	"context"
	"time"
)

type Class string

const (
	ClassCheckIn Class = "checkin"
	ClassEvents  Class = "events"
)

// Policy bounds accepted hits per key within a trailing window.
type Policy struct {
	Class  Class
	Limit  int
	Window time.Duration
}

func DefaultPolicies() map[Class]Policy {
	return map[Class]Policy{
		ClassCheckIn: {Class: ClassCheckIn, Limit: 1, Window: 30 * time.Second},
		ClassEvents:  {Class: ClassEvents, Limit: 5, Window: 10 * time.Second},
	}
}

// Key builds the counter key, e.g. "events:user123".
func Key(class Class, userID string) string {
	return string(class) + ":" + userID
}

// Decision is the outcome of one Hit. Count includes the hit when allowed.
type Decision struct {
	Allowed    bool
	Count      int
	RetryAfter time.Duration
}

// Deny computes the rejection for a window whose oldest hit is oldest.
func Deny(count int, oldest, now time.Time, window time.Duration) Decision {
	retry := oldest.Add(window).Sub(now)
	if retry < 0 {
		retry = 0
	}
	return Decision{Allowed: false, Count: count, RetryAfter: retry}
}

// RateLimitStore counts and records a hit atomically: two concurrent Hits
// for the same key never both observe count < limit for the last slot.
// Hits older than the window are pruned on each call for that key.
type RateLimitStore interface {
	Hit(ctx context.Context, key string, policy Policy, now time.Time) (Decision, error)
}

type EventLookup interface {
	Exists(ctx context.Context, eventID string) (bool, error)
}

type PaymentLookup interface {
	ExistsByExternalReference(ctx context.Context, reference string) (bool, error)
}
