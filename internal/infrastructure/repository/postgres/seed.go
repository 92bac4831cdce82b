package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo matches, members and rosters into an empty
// database. It is a no-op once any match exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM matches`); err != nil {
		return fmt.Errorf("count matches for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	matches := NewMatchRepository(db)
	for _, m := range memory.SeedMatches() {
		if err := matches.Create(ctx, m); err != nil {
			return fmt.Errorf("seed match %s: %w", m.ID, err)
		}
	}

	members := NewMemberRepository(db)
	for _, m := range memory.SeedMembers() {
		if err := members.Upsert(ctx, m); err != nil {
			return fmt.Errorf("seed member %s: %w", m.ID, err)
		}
	}

	rosters := NewRosterRepository(db)
	for _, r := range memory.SeedRosters() {
		if err := rosters.Replace(ctx, r); err != nil {
			return fmt.Errorf("seed roster %s: %w", r.MatchID, err)
		}
	}

	return nil
}
