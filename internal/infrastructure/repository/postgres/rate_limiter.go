package postgres

import (
	"context"
	"database/sql"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/gate"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

// RateLimiter keeps one row per accepted hit in rate_limit_hits. A
// transaction-scoped advisory lock on the key serialises prune, count and
// insert across processes.
type RateLimiter struct {
	db *sqlx.DB
}

func NewRateLimiter(db *sqlx.DB) *RateLimiter {
	return &RateLimiter{db: db}
}

type windowStats struct {
	Count  int          `db:"hits"`
	Oldest sql.NullTime `db:"oldest"`
}

func (l *RateLimiter) Hit(ctx context.Context, key string, policy gate.Policy, now time.Time) (gate.Decision, error) {
	if policy.Limit <= 0 {
		return gate.Decision{Allowed: true}, nil
	}

	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return gate.Decision{}, crerr.Wrap(err, "begin tx rate limit hit")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return gate.Decision{}, crerr.Wrapf(err, "lock rate limit key %s", key)
	}

	cutoff := now.Add(-policy.Window)
	pruneQuery, pruneArgs, err := qb.DeleteFrom("rate_limit_hits").
		Where(qb.Eq("key", key), qb.Lte("hit_at", cutoff)).
		ToSQL()
	if err != nil {
		return gate.Decision{}, crerr.Wrap(err, "build prune rate limit query")
	}
	if _, err := tx.ExecContext(ctx, pruneQuery, pruneArgs...); err != nil {
		return gate.Decision{}, crerr.Wrapf(err, "prune rate limit key %s", key)
	}

	countQuery, countArgs, err := qb.Select("COUNT(*) AS hits", "MIN(hit_at) AS oldest").
		From("rate_limit_hits").
		Where(qb.Eq("key", key), qb.Gt("hit_at", cutoff)).
		ToSQL()
	if err != nil {
		return gate.Decision{}, crerr.Wrap(err, "build count rate limit query")
	}
	var stats windowStats
	if err := tx.GetContext(ctx, &stats, countQuery, countArgs...); err != nil {
		return gate.Decision{}, crerr.Wrapf(err, "count rate limit key %s", key)
	}

	if stats.Count >= policy.Limit {
		if err := tx.Commit(); err != nil {
			return gate.Decision{}, crerr.Wrap(err, "commit rate limit prune")
		}
		oldest := now
		if stats.Oldest.Valid {
			oldest = stats.Oldest.Time
		}
		return gate.Deny(stats.Count, oldest, now, policy.Window), nil
	}

	insertQuery, insertArgs, err := qb.InsertInto("rate_limit_hits").
		Columns("key", "hit_at").
		Values(key, now).
		ToSQL()
	if err != nil {
		return gate.Decision{}, crerr.Wrap(err, "build insert rate limit query")
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return gate.Decision{}, crerr.Wrapf(err, "insert rate limit hit %s", key)
	}
	if err := tx.Commit(); err != nil {
		return gate.Decision{}, crerr.Wrap(err, "commit rate limit hit")
	}

	return gate.Decision{Allowed: true, Count: stats.Count + 1}, nil
}
