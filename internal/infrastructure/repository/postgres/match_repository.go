package postgres

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/match"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return match.Match{}, crerr.Wrap(err, "build select match query")
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, match.ErrNotFound
		}
		return match.Match{}, crerr.Wrapf(err, "select match %s", id)
	}
	return matchFromRow(row)
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list matches query")
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "list matches")
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		m, err := matchFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) error {
	query, args, err := qb.InsertModel("matches", matchInsertModel{
		ID:        m.ID,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		Status:    string(m.Status),
		StartedAt: m.StartedAt,
		PausedMs:  m.PausedMs,
		Round:     m.Round,
		UpdatedAt: m.UpdatedAt,
	}, "")
	if err != nil {
		return crerr.Wrap(err, "build insert match query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert match %s", m.ID)
	}
	return nil
}

func matchFromRow(row matchTableModel) (match.Match, error) {
	status, err := match.ParseStatus(row.Status)
	if err != nil {
		return match.Match{}, crerr.Wrapf(err, "decode match %s", row.ID)
	}
	m := match.Match{
		ID:        row.ID,
		HomeTeam:  strings.TrimSpace(row.HomeTeam),
		AwayTeam:  strings.TrimSpace(row.AwayTeam),
		Status:    status,
		PausedMs:  row.PausedMs,
		Round:     row.Round,
		UpdatedAt: row.UpdatedAt,
	}
	if row.StartedAt.Valid {
		startedAt := row.StartedAt.Time
		m.StartedAt = &startedAt
	}
	return m, nil
}
