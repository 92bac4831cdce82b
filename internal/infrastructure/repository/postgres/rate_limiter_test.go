package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/riskibarqy/matchday/internal/domain/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	advisoryLockSQL = "SELECT pg_advisory_xact_lock(hashtext($1))"
	pruneHitsSQL    = "DELETE FROM rate_limit_hits WHERE key = $1 AND hit_at <= $2"
	countHitsSQL    = "SELECT COUNT(*) AS hits, MIN(hit_at) AS oldest FROM rate_limit_hits WHERE key = $1 AND hit_at > $2"
	insertHitSQL    = "INSERT INTO rate_limit_hits (key, hit_at) VALUES ($1, $2)"
)

var eventsPolicy = gate.Policy{Class: gate.ClassEvents, Limit: 5, Window: 10 * time.Second}

func TestRateLimiter_HitAllowed(t *testing.T) {
	db, mock := newMockDB(t)
	limiter := NewRateLimiter(db)
	now := time.Date(2026, 3, 7, 19, 30, 0, 0, time.UTC)
	cutoff := now.Add(-eventsPolicy.Window)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(advisoryLockSQL)).
		WithArgs("events:staff-01").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(pruneHitsSQL)).
		WithArgs("events:staff-01", cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(regexp.QuoteMeta(countHitsSQL)).
		WithArgs("events:staff-01", cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"hits", "oldest"}).AddRow(2, now.Add(-4*time.Second)))
	mock.ExpectExec(regexp.QuoteMeta(insertHitSQL)).
		WithArgs("events:staff-01", now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	decision, err := limiter.Hit(context.Background(), "events:staff-01", eventsPolicy, now)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 3, decision.Count)
}

func TestRateLimiter_HitDeniedAtLimit(t *testing.T) {
	db, mock := newMockDB(t)
	limiter := NewRateLimiter(db)
	now := time.Date(2026, 3, 7, 19, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(advisoryLockSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(pruneHitsSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(countHitsSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"hits", "oldest"}).AddRow(5, now.Add(-7*time.Second)))
	mock.ExpectCommit()

	decision, err := limiter.Hit(context.Background(), "events:staff-01", eventsPolicy, now)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 5, decision.Count)
	assert.Equal(t, 3*time.Second, decision.RetryAfter)
}

func TestRateLimiter_LockFailure(t *testing.T) {
	db, mock := newMockDB(t)
	limiter := NewRateLimiter(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(advisoryLockSQL)).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := limiter.Hit(context.Background(), "checkin:player-01", gate.Policy{Limit: 1, Window: 30 * time.Second}, time.Now())
	assert.Error(t, err)
}

func TestRateLimiter_DisabledPolicySkipsStore(t *testing.T) {
	db, _ := newMockDB(t)
	limiter := NewRateLimiter(db)

	decision, err := limiter.Hit(context.Background(), "checkin:player-01", gate.Policy{Limit: 0, Window: time.Second}, time.Now())
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}
