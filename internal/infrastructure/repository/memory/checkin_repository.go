package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/matchday/internal/domain/checkin"
)

type CheckInRepository struct {
	mu      sync.RWMutex
	byMatch map[string][]checkin.CheckIn
}

func NewCheckInRepository() *CheckInRepository {
	return &CheckInRepository{byMatch: make(map[string][]checkin.CheckIn)}
}

func (r *CheckInRepository) Create(_ context.Context, c checkin.CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byMatch[c.MatchID] {
		if existing.PlayerID == c.PlayerID {
			return checkin.ErrAlreadyCheckedIn
		}
	}
	r.byMatch[c.MatchID] = append(r.byMatch[c.MatchID], c)
	return nil
}

func (r *CheckInRepository) ListByMatch(_ context.Context, matchID string) ([]checkin.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byMatch[matchID]
	out := make([]checkin.CheckIn, 0, len(items))
	out = append(out, items...)
	return out, nil
}
