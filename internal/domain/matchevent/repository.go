package matchevent

import (
	"context"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
)

// Write is one append together with its match guard.
//
// RequireStatus, when set, must equal the persisted status at commit time.
// Next, when set, replaces the match record in the same transaction; the
// update is conditional on RequireStatus. A failed guard yields
// match.ErrStatusConflict and nothing is written.
type Write struct {
	Event         Event
	RequireStatus match.Status
	Next          *match.Match
}

type Repository interface {
	Append(ctx context.Context, w Write) error
	GetByID(ctx context.Context, id string) (Event, error)
	ListByMatch(ctx context.Context, matchID string) ([]Event, error)
	Exists(ctx context.Context, id string) (bool, error)
	SetValidity(ctx context.Context, id string, isValid bool, updatedAt time.Time) (Event, error)
	// ReplacePayload swaps the payload when the stored revision equals
	// expectedRevision, otherwise it returns ErrRevisionConflict.
	ReplacePayload(ctx context.Context, id string, expectedRevision int, payload Payload, updatedAt time.Time) (Event, error)
}
