package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/matchday/internal/domain/payment"
)

type PaymentRepository struct {
	mu          sync.RWMutex
	byID        map[string]payment.Intent
	byReference map[string]string
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		byID:        make(map[string]payment.Intent),
		byReference: make(map[string]string),
	}
}

func (r *PaymentRepository) Create(_ context.Context, intent payment.Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byReference[intent.ExternalReference]; exists {
		return payment.ErrDuplicateReference
	}
	r.byID[intent.ID] = intent
	r.byReference[intent.ExternalReference] = intent.ID
	return nil
}

func (r *PaymentRepository) GetByID(_ context.Context, id string) (payment.Intent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	intent, ok := r.byID[id]
	if !ok {
		return payment.Intent{}, payment.ErrNotFound
	}
	return intent, nil
}

func (r *PaymentRepository) ExistsByExternalReference(_ context.Context, reference string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byReference[reference]
	return ok, nil
}
