package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/matchday/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		items[m.ID] = m.Clone()
	}
	return &MatchRepository{items: items}
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	if !ok {
		return match.Match{}, match.ErrNotFound
	}
	return m.Clone(), nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[m.ID]; exists {
		return fmt.Errorf("match %s already exists", m.ID)
	}
	r.items[m.ID] = m.Clone()
	return nil
}

// guardLocked checks (and applies) a status guard. Caller holds r.mu.
func (r *MatchRepository) guardLocked(matchID string, require match.Status, next *match.Match) error {
	current, ok := r.items[matchID]
	if !ok {
		return match.ErrNotFound
	}
	if require != "" && current.Status != require {
		return match.ErrStatusConflict
	}
	if next != nil {
		r.items[matchID] = next.Clone()
	}
	return nil
}
