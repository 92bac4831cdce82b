package checkin

import (
	"context"
	"errors"
	"time"
)

var ErrAlreadyCheckedIn = errors.New("player already checked in for match")

// CheckIn records a player's attendance at a match, once per pair.
type CheckIn struct {
	ID        string
	MatchID   string
	PlayerID  string
	UserID    string
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, c CheckIn) error
	ListByMatch(ctx context.Context, matchID string) ([]CheckIn, error)
}
