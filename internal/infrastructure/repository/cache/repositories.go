package cache

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/member"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	basecache "github.com/riskibarqy/matchday/internal/platform/cache"
)

// RosterRepository caches team draws per match. Replace writes through and
// drops the cached draw.
type RosterRepository struct {
	next  roster.Repository
	cache *basecache.Store[roster.Roster]
}

func NewRosterRepository(next roster.Repository, ttl time.Duration) *RosterRepository {
	return &RosterRepository{next: next, cache: basecache.NewStore[roster.Roster](ttl)}
}

func (r *RosterRepository) GetByMatch(ctx context.Context, matchID string) (roster.Roster, error) {
	item, err := r.cache.GetOrLoad(ctx, "roster:match:"+matchID, func(ctx context.Context) (roster.Roster, error) {
		return r.next.GetByMatch(ctx, matchID)
	})
	if err != nil {
		return roster.Roster{}, err
	}
	return item.Clone(), nil
}

func (r *RosterRepository) Replace(ctx context.Context, item roster.Roster) error {
	if err := r.next.Replace(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, "roster:match:"+item.MatchID)
	return nil
}

// MemberRepository caches member lookups, including misses, so unknown user
// ids do not hit the store on every request.
type MemberRepository struct {
	next  member.Repository
	cache *basecache.Store[cachedMemberByID]
}

func NewMemberRepository(next member.Repository, ttl time.Duration) *MemberRepository {
	return &MemberRepository{next: next, cache: basecache.NewStore[cachedMemberByID](ttl)}
}

func (r *MemberRepository) GetByID(ctx context.Context, memberID string) (member.Member, error) {
	cached, err := r.cache.GetOrLoad(ctx, "member:id:"+memberID, func(ctx context.Context) (cachedMemberByID, error) {
		item, err := r.next.GetByID(ctx, memberID)
		if errors.Is(err, member.ErrNotFound) {
			return cachedMemberByID{}, nil
		}
		if err != nil {
			return cachedMemberByID{}, err
		}
		return cachedMemberByID{value: item, exists: true}, nil
	})
	if err != nil {
		return member.Member{}, err
	}
	if !cached.exists {
		return member.Member{}, member.ErrNotFound
	}
	return cached.value, nil
}

func (r *MemberRepository) Upsert(ctx context.Context, item member.Member) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, "member:id:"+item.ID)
	return nil
}

type cachedMemberByID struct {
	value  member.Member
	exists bool
}
