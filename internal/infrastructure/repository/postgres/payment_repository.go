package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/payment"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, intent payment.Intent) error {
	query, args, err := qb.InsertModel("payment_intents", paymentTableModel{
		ID:                intent.ID,
		ExternalReference: intent.ExternalReference,
		UserID:            intent.UserID,
		AmountCents:       intent.AmountCents,
		Currency:          intent.Currency,
		Description:       intent.Description,
		Status:            string(intent.Status),
		CreatedAt:         intent.CreatedAt,
	}, "")
	if err != nil {
		return crerr.Wrap(err, "build insert payment intent query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return crerr.WithSecondaryError(crerr.Wrapf(payment.ErrDuplicateReference, "reference %s", intent.ExternalReference), err)
		}
		return crerr.Wrapf(err, "insert payment intent %s", intent.ID)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (payment.Intent, error) {
	query, args, err := qb.Select(paymentColumns...).From("payment_intents").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return payment.Intent{}, crerr.Wrap(err, "build select payment intent query")
	}

	var row paymentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return payment.Intent{}, payment.ErrNotFound
		}
		return payment.Intent{}, crerr.Wrapf(err, "select payment intent %s", id)
	}
	return payment.Intent{
		ID:                row.ID,
		ExternalReference: row.ExternalReference,
		UserID:            row.UserID,
		AmountCents:       row.AmountCents,
		Currency:          row.Currency,
		Description:       row.Description,
		Status:            payment.Status(row.Status),
		CreatedAt:         row.CreatedAt,
	}, nil
}

func (r *PaymentRepository) ExistsByExternalReference(ctx context.Context, reference string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM payment_intents WHERE external_reference = $1)", reference); err != nil {
		return false, crerr.Wrapf(err, "check payment reference %s", reference)
	}
	return exists, nil
}
