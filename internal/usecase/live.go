package usecase

import (
	"context"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
)

const (
	LiveKindProjection = "projection"
	LiveKindClock      = "clock"
)

// LiveUpdate is pushed to scoreboard subscribers of a match.
type LiveUpdate struct {
	MatchID    string                 `json:"match_id"`
	Kind       string                 `json:"kind"`
	EventID    string                 `json:"event_id,omitempty"`
	Projection *matchevent.Projection `json:"projection,omitempty"`
	Clock      *match.ClockSnapshot   `json:"clock,omitempty"`
}

type LiveBroadcaster interface {
	Broadcast(update LiveUpdate)
}

// EventPublisher forwards accepted events downstream. Publish failures never
// fail the submission that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event matchevent.Event) error
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(LiveUpdate) {}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, matchevent.Event) error { return nil }
