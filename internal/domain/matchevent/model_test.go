package matchevent

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		payload Payload
		wantErr error
	}{
		{name: "goal ok", typ: TypeGoal, payload: Payload{Team: "home", PlayerID: "p1", AssistID: "p2"}},
		{name: "goal club colour", typ: TypeGoal, payload: Payload{Team: "Yellow", PlayerID: "p1"}},
		{name: "goal bad team", typ: TypeGoal, payload: Payload{Team: "purple", PlayerID: "p1"}, wantErr: ErrInvalidTeam},
		{name: "goal no scorer", typ: TypeGoal, payload: Payload{Team: "away"}, wantErr: ErrMissingPlayer},
		{name: "goal self assist", typ: TypeGoal, payload: Payload{Team: "away", PlayerID: "p1", AssistID: "p1"}, wantErr: ErrAssistIsScorer},
		{name: "card ok", typ: TypeCard, payload: Payload{Team: "home", PlayerID: "p1", Color: CardRed}},
		{name: "card bad colour", typ: TypeCard, payload: Payload{Team: "home", PlayerID: "p1", Color: "green"}, wantErr: ErrInvalidColor},
		{name: "sub same player", typ: TypeSub, payload: Payload{Team: "home", OutPlayerID: "p1", InPlayerID: "p1"}, wantErr: ErrSamePlayerSub},
		{name: "sub missing in", typ: TypeSub, payload: Payload{Team: "home", OutPlayerID: "p1"}, wantErr: ErrMissingPlayer},
		{name: "pause has no payload rules", typ: TypePause},
		{name: "unknown", typ: Type("OFFSIDE"), wantErr: ErrUnknownType},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.typ, tc.payload)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestEditGoal(t *testing.T) {
	created := time.Date(2026, 3, 7, 18, 5, 0, 0, time.UTC)
	goal := Event{
		ID: "e1", MatchID: "m1", Type: TypeGoal, IsValid: true, Revision: 1,
		Payload:   Payload{Team: "home", PlayerID: "p1", MatchTimeMs: 300000},
		CreatedAt: created,
	}

	edited, err := EditGoal(goal, Payload{Team: "HOME", PlayerID: "p2", AssistID: "p3"}, created.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "home", edited.Payload.Team)
	assert.Equal(t, "p2", edited.Payload.PlayerID)
	assert.Equal(t, int64(300000), edited.Payload.MatchTimeMs)
	assert.Equal(t, 2, edited.Revision)
	assert.Equal(t, created, edited.CreatedAt)

	_, err = EditGoal(Event{Type: TypeCard}, Payload{Team: "home", PlayerID: "p1"}, created)
	assert.True(t, errors.Is(err, ErrNotEditable))

	_, err = EditGoal(goal, Payload{Team: "home", PlayerID: "p1", AssistID: "p1"}, created)
	assert.True(t, errors.Is(err, ErrAssistIsScorer))
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("goal")
	require.NoError(t, err)
	assert.Equal(t, TypeGoal, typ)

	_, err = ParseType("corner")
	assert.True(t, errors.Is(err, ErrUnknownType))
}
