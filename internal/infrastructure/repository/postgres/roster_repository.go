package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) GetByMatch(ctx context.Context, matchID string) (roster.Roster, error) {
	query, args, err := qb.Select("match_id", "team", "player_id").From("match_rosters").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("team", "player_id").
		ToSQL()
	if err != nil {
		return roster.Roster{}, crerr.Wrap(err, "build select roster query")
	}

	var rows []rosterEntryModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return roster.Roster{}, crerr.Wrapf(err, "select roster of match %s", matchID)
	}

	out := roster.Roster{MatchID: matchID, Teams: make(map[string][]string)}
	for _, row := range rows {
		out.Teams[row.Team] = append(out.Teams[row.Team], row.PlayerID)
	}
	return out, nil
}

func (r *RosterRepository) Replace(ctx context.Context, item roster.Roster) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx replace roster")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("match_rosters").Where(qb.Eq("match_id", item.MatchID)).ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build clear roster query")
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return crerr.Wrapf(err, "clear roster of match %s", item.MatchID)
	}

	insert := qb.InsertInto("match_rosters").Columns("match_id", "team", "player_id")
	rows := 0
	for _, team := range item.TeamNames() {
		for _, playerID := range item.Teams[team] {
			insert.Values(item.MatchID, team, playerID)
			rows++
		}
	}
	if rows > 0 {
		query, args, err := insert.ToSQL()
		if err != nil {
			return crerr.Wrap(err, "build insert roster query")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "insert roster of match %s", item.MatchID)
		}
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit replace roster")
	}
	return nil
}
