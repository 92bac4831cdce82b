package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventFixture(t *testing.T) (*MatchRepository, *EventRepository) {
	t.Helper()
	matches := NewMatchRepository(SeedMatches())
	return matches, NewEventRepository(matches)
}

func TestEventRepository_AppendAppliesTransitionAtomically(t *testing.T) {
	matches, events := newEventFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 7, 19, 0, 0, 0, time.UTC)

	current, err := matches.GetByID(ctx, MatchIDFriendly)
	require.NoError(t, err)
	next, err := current.Start(now)
	require.NoError(t, err)

	start := matchevent.Event{ID: "evt-1", MatchID: MatchIDFriendly, Type: matchevent.TypeStart, IsValid: true, Revision: 1, CreatedAt: now}
	require.NoError(t, events.Append(ctx, matchevent.Write{Event: start, RequireStatus: match.StatusScheduled, Next: &next}))

	got, err := matches.GetByID(ctx, MatchIDFriendly)
	require.NoError(t, err)
	assert.Equal(t, match.StatusLive, got.Status)

	// Same guard again: the match already moved on.
	start.ID = "evt-2"
	err = events.Append(ctx, matchevent.Write{Event: start, RequireStatus: match.StatusScheduled, Next: &next})
	assert.ErrorIs(t, err, match.ErrStatusConflict)

	exists, err := events.Exists(ctx, "evt-2")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEventRepository_AppendRejectsDuplicateAndUnknownMatch(t *testing.T) {
	_, events := newEventFixture(t)
	ctx := context.Background()

	card := matchevent.Event{ID: "evt-card", MatchID: MatchIDInternal, Type: matchevent.TypeCard, IsValid: true, Revision: 1}
	require.NoError(t, events.Append(ctx, matchevent.Write{Event: card}))
	assert.ErrorIs(t, events.Append(ctx, matchevent.Write{Event: card}), matchevent.ErrDuplicateEvent)

	card.ID = "evt-card-2"
	card.MatchID = "nope"
	assert.ErrorIs(t, events.Append(ctx, matchevent.Write{Event: card}), match.ErrNotFound)
}

func TestEventRepository_ReplacePayloadAndValidity(t *testing.T) {
	_, events := newEventFixture(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 7, 19, 5, 0, 0, time.UTC)

	goal := matchevent.Event{
		ID:        "evt-goal",
		MatchID:   MatchIDInternal,
		Type:      matchevent.TypeGoal,
		Payload:   matchevent.Payload{Team: "red", PlayerID: "p-rafa"},
		IsValid:   true,
		Revision:  1,
		CreatedAt: created,
	}
	require.NoError(t, events.Append(ctx, matchevent.Write{Event: goal}))

	edited, err := events.ReplacePayload(ctx, goal.ID, 1, matchevent.Payload{Team: "red", PlayerID: "p-bruno"}, created.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, edited.Revision)
	assert.Equal(t, created, edited.CreatedAt)

	_, err = events.ReplacePayload(ctx, goal.ID, 1, matchevent.Payload{Team: "red", PlayerID: "p-caio"}, created)
	assert.ErrorIs(t, err, matchevent.ErrRevisionConflict)

	removed, err := events.SetValidity(ctx, goal.ID, false, created.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, removed.IsValid)

	list, err := events.ListByMatch(ctx, MatchIDInternal)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p-bruno", list[0].Payload.PlayerID)

	_, err = events.SetValidity(ctx, "missing", true, created)
	assert.ErrorIs(t, err, matchevent.ErrNotFound)
}
