package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

const defaultClockTickInterval = time.Second

// ClockRegistry keeps one in-memory clock per match and ticks them from a
// single loop. The persisted match status wins whenever the two disagree.
type ClockRegistry struct {
	persistence
	mu          sync.Mutex
	clocks      map[string]*match.Clock
	matches     match.Repository
	broadcaster LiveBroadcaster
	logger      *logging.Logger
	interval    time.Duration
	now         func() time.Time
}

func NewClockRegistry(matches match.Repository, logger *logging.Logger) *ClockRegistry {
	if logger == nil {
		logger = logging.Default()
	}
	return &ClockRegistry{
		clocks:      make(map[string]*match.Clock),
		matches:     matches,
		broadcaster: noopBroadcaster{},
		logger:      logger.Named("clock"),
		interval:    defaultClockTickInterval,
		now:         time.Now,
	}
}

func (r *ClockRegistry) SetBroadcaster(b LiveBroadcaster) {
	if b != nil {
		r.broadcaster = b
	}
}

func (r *ClockRegistry) SetTickInterval(d time.Duration) {
	if d > 0 {
		r.interval = d
	}
}

// Apply mirrors a persisted status transition onto the match's clock.
func (r *ClockRegistry) Apply(m match.Match, eventType matchevent.Type) match.ClockSnapshot {
	now := r.now()

	r.mu.Lock()
	c, ok := r.clocks[m.ID]
	if !ok {
		seeded := match.ClockFromMatch(m, now)
		c = &seeded
		r.clocks[m.ID] = c
	} else {
		var err error
		switch eventType {
		case matchevent.TypeStart:
			c.Reset()
			err = c.Start(now)
		case matchevent.TypeResume:
			err = c.Start(now)
		case matchevent.TypePause:
			err = c.Pause(now)
		case matchevent.TypeReset:
			c.Reset()
		case matchevent.TypeEnd:
			err = c.End()
		}
		if err != nil || !c.Agrees(m.Status) || c.Round != m.Round {
			r.logger.Warn("clock diverged from persisted status, reseeding",
				"match_id", m.ID,
				"status", m.Status,
				"clock_state", c.State,
				"error", err,
			)
			*c = match.ClockFromMatch(m, now)
		}
	}
	snapshot := c.Snapshot()
	r.mu.Unlock()

	r.broadcaster.Broadcast(LiveUpdate{MatchID: m.ID, Kind: LiveKindClock, Clock: &snapshot})
	return snapshot
}

// Snapshot reads the persisted status and reconciles the clock with it.
func (r *ClockRegistry) Snapshot(ctx context.Context, matchID string) (match.ClockSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClockRegistry.Snapshot")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.ClockSnapshot{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	callCtx, cancel := r.bound(ctx)
	defer cancel()
	m, err := r.matches.GetByID(callCtx, matchID)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return match.ClockSnapshot{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
		}
		recordSpanError(span, err)
		return match.ClockSnapshot{}, infraError("get match", err)
	}

	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clocks[matchID]
	if !ok || !c.Agrees(m.Status) || c.Round != m.Round {
		seeded := match.ClockFromMatch(m, now)
		c = &seeded
		r.clocks[matchID] = c
	} else {
		c.Tick(now)
	}
	return c.Snapshot(), nil
}

// Tick advances every clock and broadcasts the running ones.
func (r *ClockRegistry) Tick(now time.Time) {
	updates := make([]LiveUpdate, 0)

	r.mu.Lock()
	for matchID, c := range r.clocks {
		c.Tick(now)
		if c.State == match.ClockRunning {
			snapshot := c.Snapshot()
			updates = append(updates, LiveUpdate{MatchID: matchID, Kind: LiveKindClock, Clock: &snapshot})
		}
	}
	r.mu.Unlock()

	for _, u := range updates {
		r.broadcaster.Broadcast(u)
	}
}

// Run ticks at the configured interval until ctx is done.
func (r *ClockRegistry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("clock ticker started", "interval", r.interval)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("clock ticker stopped")
			return
		case <-ticker.C:
			r.Tick(r.now())
		}
	}
}
