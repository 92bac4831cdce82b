package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/matchevent"
)

// EventRepository keeps each match's log in insertion order. Appends take
// the match lock first so the status guard and the insert commit together.
type EventRepository struct {
	mu      sync.RWMutex
	matches *MatchRepository
	events  map[string]matchevent.Event
	byMatch map[string][]string
}

func NewEventRepository(matches *MatchRepository) *EventRepository {
	return &EventRepository{
		matches: matches,
		events:  make(map[string]matchevent.Event),
		byMatch: make(map[string][]string),
	}
}

func (r *EventRepository) Append(_ context.Context, w matchevent.Write) error {
	r.matches.mu.Lock()
	defer r.matches.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.events[w.Event.ID]; exists {
		return matchevent.ErrDuplicateEvent
	}
	if err := r.matches.guardLocked(w.Event.MatchID, w.RequireStatus, w.Next); err != nil {
		return err
	}

	r.events[w.Event.ID] = w.Event.Clone()
	r.byMatch[w.Event.MatchID] = append(r.byMatch[w.Event.MatchID], w.Event.ID)
	return nil
}

func (r *EventRepository) GetByID(_ context.Context, id string) (matchevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok {
		return matchevent.Event{}, matchevent.ErrNotFound
	}
	return e.Clone(), nil
}

func (r *EventRepository) ListByMatch(_ context.Context, matchID string) ([]matchevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byMatch[matchID]
	out := make([]matchevent.Event, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.events[id].Clone())
	}
	return out, nil
}

func (r *EventRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.events[id]
	return ok, nil
}

func (r *EventRepository) SetValidity(_ context.Context, id string, isValid bool, updatedAt time.Time) (matchevent.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return matchevent.Event{}, matchevent.ErrNotFound
	}
	e.IsValid = isValid
	e.UpdatedAt = updatedAt
	r.events[id] = e
	return e.Clone(), nil
}

func (r *EventRepository) ReplacePayload(_ context.Context, id string, expectedRevision int, payload matchevent.Payload, updatedAt time.Time) (matchevent.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return matchevent.Event{}, matchevent.ErrNotFound
	}
	if e.Revision != expectedRevision {
		return matchevent.Event{}, matchevent.ErrRevisionConflict
	}
	e.Payload = payload
	e.Revision = expectedRevision + 1
	e.UpdatedAt = updatedAt
	r.events[id] = e.Clone()
	return e.Clone(), nil
}
