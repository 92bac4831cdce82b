package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/gate"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 3, 7, 19, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingBroadcaster struct {
	mu      sync.Mutex
	updates []LiveUpdate
}

func (b *recordingBroadcaster) Broadcast(u LiveUpdate) {
	b.mu.Lock()
	b.updates = append(b.updates, u)
	b.mu.Unlock()
}

func (b *recordingBroadcaster) kinds() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.updates))
	for _, u := range b.updates {
		out = append(out, u.Kind)
	}
	return out
}

type failingPublisher struct {
	calls int
}

func (p *failingPublisher) Publish(context.Context, matchevent.Event) error {
	p.calls++
	return context.DeadlineExceeded
}

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type eventFixture struct {
	clock       *manualClock
	matches     *memory.MatchRepository
	events      *memory.EventRepository
	rosters     *memory.RosterRepository
	limiter     *RateLimitGate
	idempotency *IdempotencyGate
	projections *ProjectionService
	clocks      *ClockRegistry
	live        *recordingBroadcaster
	service     *MatchEventService
}

// newEventFixture wires the ingestion path on the seeded in-memory stores.
// A nil policies map keeps the production defaults.
func newEventFixture(t *testing.T, policies map[gate.Class]gate.Policy) *eventFixture {
	t.Helper()

	logger := logging.NewNop()
	clock := newManualClock()
	matches := memory.NewMatchRepository(memory.SeedMatches())
	events := memory.NewEventRepository(matches)
	rosters := memory.NewRosterRepository(memory.SeedRosters())
	payments := memory.NewPaymentRepository()

	idempotency := NewIdempotencyGate(events, payments, logger)
	limiter := NewRateLimitGate(memory.NewRateLimiter(), policies, logger)
	limiter.now = clock.Now

	live := &recordingBroadcaster{}
	projections := NewProjectionService(events, matches, logger)
	projections.SetBroadcaster(live)

	clocks := NewClockRegistry(matches, logger)
	clocks.now = clock.Now
	clocks.SetBroadcaster(live)

	service := NewMatchEventService(matches, events, rosters, idempotency, limiter, projections, clocks, logger)
	service.now = clock.Now

	return &eventFixture{
		clock:       clock,
		matches:     matches,
		events:      events,
		rosters:     rosters,
		limiter:     limiter,
		idempotency: idempotency,
		projections: projections,
		clocks:      clocks,
		live:        live,
		service:     service,
	}
}

func generousPolicies() map[gate.Class]gate.Policy {
	return map[gate.Class]gate.Policy{
		gate.ClassEvents:  {Limit: 1000, Window: time.Second},
		gate.ClassCheckIn: {Limit: 1000, Window: time.Second},
	}
}

func staff(eventID string) Submission {
	return Submission{EventID: eventID, UserID: "staff-01"}
}
