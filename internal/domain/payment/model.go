package payment

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("payment intent not found")
	ErrDuplicateReference = errors.New("payment external reference already used")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusCanceled Status = "canceled"
)

// Intent is a pending charge. ExternalReference carries the client's
// idempotency key and is unique.
type Intent struct {
	ID                string
	ExternalReference string
	UserID            string
	AmountCents       int64
	Currency          string
	Description       string
	Status            Status
	CreatedAt         time.Time
}

type Repository interface {
	Create(ctx context.Context, intent Intent) error
	GetByID(ctx context.Context, id string) (Intent, error)
	ExistsByExternalReference(ctx context.Context, reference string) (bool, error)
}
