package match

import "context"

// Repository exposes the persisted match records. Status transitions are
// written together with their event through matchevent.Repository.
type Repository interface {
	GetByID(ctx context.Context, id string) (Match, error)
	List(ctx context.Context) ([]Match, error)
	Create(ctx context.Context, m Match) error
}
