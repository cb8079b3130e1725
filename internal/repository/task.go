package repository

import (
	"context"

	"github.com/nandhagk/railsched/internal/domain"
)

// TaskRepository persists MaintenanceRequest metadata as Task rows. A
// task row is created once, when a request is accepted for scheduling,
// and is never deleted — even if its slot is later preempted and cannot
// be replaced (spec.md invariant 6).
type TaskRepository interface {
	InsertMany(ctx context.Context, tasks []domain.PartialTask) ([]domain.Task, error)
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
}
