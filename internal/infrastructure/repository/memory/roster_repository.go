package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/matchday/internal/domain/roster"
)

type RosterRepository struct {
	mu      sync.RWMutex
	byMatch map[string]roster.Roster
}

func NewRosterRepository(rosters []roster.Roster) *RosterRepository {
	byMatch := make(map[string]roster.Roster, len(rosters))
	for _, r := range rosters {
		byMatch[r.MatchID] = r.Clone()
	}
	return &RosterRepository{byMatch: byMatch}
}

func (r *RosterRepository) GetByMatch(_ context.Context, matchID string) (roster.Roster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byMatch[matchID]
	if !ok {
		return roster.Roster{MatchID: matchID, Teams: map[string][]string{}}, nil
	}
	return item.Clone(), nil
}

func (r *RosterRepository) Replace(_ context.Context, item roster.Roster) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byMatch[item.MatchID] = item.Clone()
	return nil
}
