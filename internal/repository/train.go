package repository

import (
	"context"

	"github.com/nandhagk/railsched/internal/domain"
)

// TrainRepository backs the train seeder's roster ingest.
type TrainRepository interface {
	// InsertMany upserts the roster by train number: a number already on
	// file has its name refreshed and its existing row returned rather
	// than rejected, so re-running the seeder over a previously-seeded
	// roster is a no-op on the train table, not an error.
	InsertMany(ctx context.Context, trains []domain.PartialTrain) ([]domain.Train, error)
	FindAll(ctx context.Context) ([]domain.Train, error)
}
