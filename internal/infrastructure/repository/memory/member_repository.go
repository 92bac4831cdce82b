package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/matchday/internal/domain/member"
)

type MemberRepository struct {
	mu    sync.RWMutex
	items map[string]member.Member
}

func NewMemberRepository(members []member.Member) *MemberRepository {
	items := make(map[string]member.Member, len(members))
	for _, m := range members {
		items[m.ID] = m
	}
	return &MemberRepository{items: items}
}

func (r *MemberRepository) GetByID(_ context.Context, id string) (member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	if !ok {
		return member.Member{}, member.ErrNotFound
	}
	return m, nil
}

func (r *MemberRepository) Upsert(_ context.Context, m member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[m.ID] = m
	return nil
}
