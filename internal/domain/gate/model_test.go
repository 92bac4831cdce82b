package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicies(t *testing.T) {
	policies := DefaultPolicies()
	assert.Equal(t, Policy{Class: ClassCheckIn, Limit: 1, Window: 30 * time.Second}, policies[ClassCheckIn])
	assert.Equal(t, Policy{Class: ClassEvents, Limit: 5, Window: 10 * time.Second}, policies[ClassEvents])
}

func TestKey(t *testing.T) {
	assert.Equal(t, "events:user123", Key(ClassEvents, "user123"))
}

func TestDeny(t *testing.T) {
	now := time.Date(2026, 3, 7, 18, 0, 10, 0, time.UTC)
	d := Deny(5, now.Add(-4*time.Second), now, 10*time.Second)
	assert.False(t, d.Allowed)
	assert.Equal(t, 6*time.Second, d.RetryAfter)

	d = Deny(5, now.Add(-time.Minute), now, 10*time.Second)
	assert.Zero(t, d.RetryAfter)
}
