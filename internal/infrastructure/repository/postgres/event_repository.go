package postgres

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

// EventRepository stores the log in match_events, ordered by the seq
// column. Appends and their match status guard share one transaction.
type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Append(ctx context.Context, w matchevent.Write) error {
	payload, err := jsonx.Marshal(w.Event.Payload)
	if err != nil {
		return crerr.Wrapf(err, "encode payload of event %s", w.Event.ID)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx append match event")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := r.guard(ctx, tx, w); err != nil {
		return err
	}

	query, args, err := qb.InsertInto("match_events").
		Columns(eventColumns...).
		Values(
			w.Event.ID,
			w.Event.MatchID,
			string(w.Event.Type),
			payload,
			w.Event.CreatedBy,
			w.Event.IsValid,
			w.Event.Revision,
			w.Event.CreatedAt,
			w.Event.UpdatedAt,
		).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build insert match event query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		switch {
		case isUniqueViolation(err):
			return crerr.WithSecondaryError(crerr.Wrapf(matchevent.ErrDuplicateEvent, "insert event %s", w.Event.ID), err)
		case isForeignKeyViolation(err):
			return crerr.WithSecondaryError(crerr.Wrapf(match.ErrNotFound, "insert event %s", w.Event.ID), err)
		}
		return crerr.Wrapf(err, "insert match event %s", w.Event.ID)
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit append match event")
	}
	return nil
}

func (r *EventRepository) guard(ctx context.Context, tx *sqlx.Tx, w matchevent.Write) error {
	matchID := w.Event.MatchID
	switch {
	case w.Next != nil:
		query, args, err := qb.Update("matches").
			Set("status", string(w.Next.Status)).
			Set("started_at", w.Next.StartedAt).
			Set("paused_ms", w.Next.PausedMs).
			Set("round", w.Next.Round).
			Set("updated_at", w.Next.UpdatedAt).
			Where(qb.Eq("id", matchID), qb.Eq("status", string(w.RequireStatus))).
			ToSQL()
		if err != nil {
			return crerr.Wrap(err, "build conditional match update query")
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return crerr.Wrapf(err, "update match %s", matchID)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return crerr.Wrap(err, "rows affected")
		}
		if affected == 0 {
			return r.guardFailure(ctx, tx, matchID)
		}
	case w.RequireStatus != "":
		query, args, err := qb.Select("status").From("matches").
			Where(qb.Eq("id", matchID)).
			ForShare().
			ToSQL()
		if err != nil {
			return crerr.Wrap(err, "build match status query")
		}
		var status string
		if err := tx.GetContext(ctx, &status, query, args...); err != nil {
			if isNotFound(err) {
				return match.ErrNotFound
			}
			return crerr.Wrapf(err, "lock match %s", matchID)
		}
		if match.Status(status) != w.RequireStatus {
			return crerr.Wrapf(match.ErrStatusConflict, "match %s is %s", matchID, status)
		}
	}
	return nil
}

func (r *EventRepository) guardFailure(ctx context.Context, tx *sqlx.Tx, matchID string) error {
	query, args, err := qb.Select("status").From("matches").Where(qb.Eq("id", matchID)).ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build match status query")
	}
	var status string
	if err := tx.GetContext(ctx, &status, query, args...); err != nil {
		if isNotFound(err) {
			return match.ErrNotFound
		}
		return crerr.Wrapf(err, "select match %s", matchID)
	}
	return crerr.Wrapf(match.ErrStatusConflict, "match %s is %s", matchID, status)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (matchevent.Event, error) {
	query, args, err := qb.Select(eventColumns...).From("match_events").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return matchevent.Event{}, crerr.Wrap(err, "build select match event query")
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchevent.Event{}, matchevent.ErrNotFound
		}
		return matchevent.Event{}, crerr.Wrapf(err, "select match event %s", id)
	}
	return eventFromRow(row)
}

func (r *EventRepository) ListByMatch(ctx context.Context, matchID string) ([]matchevent.Event, error) {
	query, args, err := qb.Select(eventColumns...).From("match_events").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("seq").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list match events query")
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list events of match %s", matchID)
	}

	out := make([]matchevent.Event, 0, len(rows))
	for _, row := range rows {
		e, err := eventFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *EventRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM match_events WHERE id = $1)", id); err != nil {
		return false, crerr.Wrapf(err, "check match event %s", id)
	}
	return exists, nil
}

func (r *EventRepository) SetValidity(ctx context.Context, id string, isValid bool, updatedAt time.Time) (matchevent.Event, error) {
	query, args, err := qb.Update("match_events").
		Set("is_valid", isValid).
		Set("updated_at", updatedAt).
		Where(qb.Eq("id", id)).
		Suffix(returningEventColumns()).
		ToSQL()
	if err != nil {
		return matchevent.Event{}, crerr.Wrap(err, "build set validity query")
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchevent.Event{}, matchevent.ErrNotFound
		}
		return matchevent.Event{}, crerr.Wrapf(err, "set validity of event %s", id)
	}
	return eventFromRow(row)
}

func (r *EventRepository) ReplacePayload(ctx context.Context, id string, expectedRevision int, payload matchevent.Payload, updatedAt time.Time) (matchevent.Event, error) {
	raw, err := jsonx.Marshal(payload)
	if err != nil {
		return matchevent.Event{}, crerr.Wrapf(err, "encode payload of event %s", id)
	}

	query, args, err := qb.Update("match_events").
		Set("payload", raw).
		SetExpr("revision", "revision + 1").
		Set("updated_at", updatedAt).
		Where(qb.Eq("id", id), qb.Eq("revision", expectedRevision)).
		Suffix(returningEventColumns()).
		ToSQL()
	if err != nil {
		return matchevent.Event{}, crerr.Wrap(err, "build replace payload query")
	}

	var row eventTableModel
	err = r.db.GetContext(ctx, &row, query, args...)
	if err == nil {
		return eventFromRow(row)
	}
	if !isNotFound(err) {
		return matchevent.Event{}, crerr.Wrapf(err, "replace payload of event %s", id)
	}

	exists, existsErr := r.Exists(ctx, id)
	if existsErr != nil {
		return matchevent.Event{}, existsErr
	}
	if !exists {
		return matchevent.Event{}, matchevent.ErrNotFound
	}
	return matchevent.Event{}, crerr.Wrapf(matchevent.ErrRevisionConflict, "event %s is past revision %d", id, expectedRevision)
}

func returningEventColumns() string {
	return "RETURNING " + strings.Join(eventColumns, ", ")
}

func eventFromRow(row eventTableModel) (matchevent.Event, error) {
	eventType, err := matchevent.ParseType(row.Type)
	if err != nil {
		return matchevent.Event{}, crerr.Wrapf(err, "decode event %s", row.ID)
	}
	var payload matchevent.Payload
	if len(row.Payload) > 0 {
		if err := jsonx.Unmarshal(row.Payload, &payload); err != nil {
			return matchevent.Event{}, crerr.Wrapf(err, "decode payload of event %s", row.ID)
		}
	}
	return matchevent.Event{
		ID:        row.ID,
		MatchID:   row.MatchID,
		Type:      eventType,
		Payload:   payload,
		CreatedBy: row.CreatedBy,
		IsValid:   row.IsValid,
		Revision:  row.Revision,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
