package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/member"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRosters struct {
	calls int
	item  roster.Roster
	err   error
}

func (c *countingRosters) GetByMatch(_ context.Context, matchID string) (roster.Roster, error) {
	c.calls++
	if c.err != nil {
		return roster.Roster{}, c.err
	}
	out := c.item.Clone()
	out.MatchID = matchID
	return out, nil
}

func (c *countingRosters) Replace(_ context.Context, r roster.Roster) error {
	c.item = r.Clone()
	return nil
}

type countingMembers struct {
	calls int
	items map[string]member.Member
}

func (c *countingMembers) GetByID(_ context.Context, id string) (member.Member, error) {
	c.calls++
	m, ok := c.items[id]
	if !ok {
		return member.Member{}, member.ErrNotFound
	}
	return m, nil
}

func (c *countingMembers) Upsert(_ context.Context, m member.Member) error {
	c.items[m.ID] = m
	return nil
}

func TestRosterRepository_CachesAndInvalidatesOnReplace(t *testing.T) {
	ctx := context.Background()
	next := &countingRosters{item: roster.Roster{Teams: map[string][]string{"red": {"p1"}}}}
	repo := NewRosterRepository(next, time.Minute)

	first, err := repo.GetByMatch(ctx, "m1")
	require.NoError(t, err)
	_, err = repo.GetByMatch(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)

	// Mutating the returned copy must not leak into the cache.
	first.Teams["red"][0] = "mutated"
	again, err := repo.GetByMatch(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "p1", again.Teams["red"][0])

	require.NoError(t, repo.Replace(ctx, roster.Roster{MatchID: "m1", Teams: map[string][]string{"blue": {"p2"}}}))
	replaced, err := repo.GetByMatch(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, replaced.Teams["blue"])
	assert.Equal(t, 2, next.calls)
}

func TestRosterRepository_DoesNotCacheErrors(t *testing.T) {
	next := &countingRosters{err: errors.New("db down")}
	repo := NewRosterRepository(next, time.Minute)

	_, err := repo.GetByMatch(context.Background(), "m1")
	require.Error(t, err)
	_, err = repo.GetByMatch(context.Background(), "m1")
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestMemberRepository_CachesMisses(t *testing.T) {
	ctx := context.Background()
	next := &countingMembers{items: map[string]member.Member{}}
	repo := NewMemberRepository(next, time.Minute)

	_, err := repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, member.ErrNotFound)
	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, member.ErrNotFound)
	assert.Equal(t, 1, next.calls)

	require.NoError(t, repo.Upsert(ctx, member.Member{ID: "ghost", Name: "Late Joiner", Role: member.RolePlayer}))
	got, err := repo.GetByID(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, member.RolePlayer, got.Role)
	assert.Equal(t, 2, next.calls)
}
