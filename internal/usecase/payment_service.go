package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/payment"
	"github.com/riskibarqy/matchday/internal/platform/id"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

const (
	defaultCurrency      = "BRL"
	maxPaymentAmountCent = 10_000_000
)

type CreatePaymentInput struct {
	AmountCents int64
	Currency    string
	Description string
}

// PaymentService creates pending payment intents keyed by the caller's
// idempotency key. Settlement happens at the gateway.
type PaymentService struct {
	persistence
	payments    payment.Repository
	idempotency *IdempotencyGate
	ids         id.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewPaymentService(payments payment.Repository, idempotency *IdempotencyGate, ids id.Generator, logger *logging.Logger) *PaymentService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PaymentService{
		payments:    payments,
		idempotency: idempotency,
		ids:         ids,
		logger:      logger.Named("payment"),
		now:         time.Now,
	}
}

func (s *PaymentService) CreateIntent(ctx context.Context, userID, idempotencyKey string, in CreatePaymentInput) (payment.Intent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PaymentService.CreateIntent")
	defer span.End()

	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		return payment.Intent{}, fmt.Errorf("%w: idempotency key is required", ErrInvalidInput)
	}
	if err := s.idempotency.Check(ctx, IdempotencyCheck{IdempotencyKey: key}); err != nil {
		return payment.Intent{}, err
	}

	if in.AmountCents <= 0 || in.AmountCents > maxPaymentAmountCent {
		return payment.Intent{}, fmt.Errorf("%w: amount_cents must be between 1 and %d", ErrInvalidInput, maxPaymentAmountCent)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	intentID, err := s.ids.NewID()
	if err != nil {
		return payment.Intent{}, fmt.Errorf("generate payment id: %w", err)
	}
	intent := payment.Intent{
		ID:                intentID,
		ExternalReference: key,
		UserID:            strings.TrimSpace(userID),
		AmountCents:       in.AmountCents,
		Currency:          currency,
		Description:       strings.TrimSpace(in.Description),
		Status:            payment.StatusPending,
		CreatedAt:         s.now(),
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.payments.Create(callCtx, intent); err != nil {
		if errors.Is(err, payment.ErrDuplicateReference) {
			return payment.Intent{}, fmt.Errorf("%w: %w", ErrDuplicateSubmission, err)
		}
		recordSpanError(span, err)
		return payment.Intent{}, infraError("create payment intent", err)
	}

	s.logger.InfoContext(ctx, "payment intent created", "payment_id", intent.ID, "user_id", intent.UserID, "amount_cents", intent.AmountCents)
	return intent, nil
}

func (s *PaymentService) Get(ctx context.Context, paymentID string) (payment.Intent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PaymentService.Get")
	defer span.End()

	paymentID = strings.TrimSpace(paymentID)
	if !id.IsValid(paymentID) {
		return payment.Intent{}, fmt.Errorf("%w: payment id must be a uuid", ErrInvalidInput)
	}

	callCtx, cancel := s.bound(ctx)
	defer cancel()
	intent, err := s.payments.GetByID(callCtx, paymentID)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			return payment.Intent{}, fmt.Errorf("%w: payment %s", ErrNotFound, paymentID)
		}
		return payment.Intent{}, infraError("get payment intent", err)
	}
	return intent, nil
}
