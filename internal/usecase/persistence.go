package usecase

import (
	"context"
	"time"
)

const defaultPersistenceTimeout = 3 * time.Second

// persistence bounds every store round trip with its own deadline.
type persistence struct {
	timeout time.Duration
}

func (p *persistence) SetPersistenceTimeout(d time.Duration) {
	p.timeout = d
}

func (p *persistence) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	d := p.timeout
	if d <= 0 {
		d = defaultPersistenceTimeout
	}
	return context.WithTimeout(ctx, d)
}
