package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/checkin"
	"github.com/riskibarqy/matchday/internal/domain/match"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

type CheckInRepository struct {
	db *sqlx.DB
}

func NewCheckInRepository(db *sqlx.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

func (r *CheckInRepository) Create(ctx context.Context, c checkin.CheckIn) error {
	query, args, err := qb.InsertModel("match_checkins", checkInTableModel(c), "")
	if err != nil {
		return crerr.Wrap(err, "build insert check-in query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		switch {
		case isUniqueViolation(err):
			return crerr.WithSecondaryError(crerr.Wrapf(checkin.ErrAlreadyCheckedIn, "player %s", c.PlayerID), err)
		case isForeignKeyViolation(err):
			return crerr.WithSecondaryError(crerr.Wrapf(match.ErrNotFound, "match %s", c.MatchID), err)
		}
		return crerr.Wrapf(err, "insert check-in %s", c.ID)
	}
	return nil
}

func (r *CheckInRepository) ListByMatch(ctx context.Context, matchID string) ([]checkin.CheckIn, error) {
	query, args, err := qb.Select(checkInColumns...).From("match_checkins").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list check-ins query")
	}

	var rows []checkInTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list check-ins of match %s", matchID)
	}

	out := make([]checkin.CheckIn, 0, len(rows))
	for _, row := range rows {
		out = append(out, checkin.CheckIn(row))
	}
	return out, nil
}
