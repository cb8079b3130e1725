package repository

import (
	"context"

	"github.com/nandhagk/railsched/internal/domain"
)

// NodeRepository backs topology bootstrap. Usecases depend on this
// interface, not a concrete store, so the Postgres implementation can be
// swapped for a fake in tests.
type NodeRepository interface {
	InsertMany(ctx context.Context, nodes []domain.PartialNode) ([]domain.Node, error)
	FindAll(ctx context.Context) ([]domain.Node, error)
	FindByNameAndPosition(ctx context.Context, name string, position domain.Position) (*domain.Node, error)
}
