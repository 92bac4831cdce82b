package postgres

import (
	"context"
	"database/sql"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/member"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

type MemberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (member.Member, error) {
	query, args, err := qb.Select(memberColumns...).From("club_members").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return member.Member{}, crerr.Wrap(err, "build select member query")
	}

	var row memberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return member.Member{}, member.ErrNotFound
		}
		return member.Member{}, crerr.Wrapf(err, "select member %s", id)
	}

	role, err := member.ParseRole(row.Role)
	if err != nil {
		return member.Member{}, crerr.Wrapf(err, "decode member %s", id)
	}
	return member.Member{
		ID:        row.ID,
		Name:      row.Name,
		Role:      role,
		PlayerID:  row.PlayerID.String,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *MemberRepository) Upsert(ctx context.Context, m member.Member) error {
	query, args, err := qb.InsertModel("club_members", memberTableModel{
		ID:        m.ID,
		Name:      m.Name,
		Role:      string(m.Role),
		PlayerID:  sql.NullString{String: m.PlayerID, Valid: m.PlayerID != ""},
		CreatedAt: m.CreatedAt,
	}, `ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    role = EXCLUDED.role,
    player_id = EXCLUDED.player_id`)
	if err != nil {
		return crerr.Wrap(err, "build upsert member query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "upsert member %s", m.ID)
	}
	return nil
}
