package usecase

import (
	"context"
	"fmt"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/repository"
)

// TaskUsecase looks up a persisted task record, placed or unplaced
// (spec.md invariant 6 — a task row outlives its slot).
type TaskUsecase struct {
	tasks repository.TaskRepository
}

func NewTaskUsecase(tasks repository.TaskRepository) *TaskUsecase {
	return &TaskUsecase{tasks: tasks}
}

func (u *TaskUsecase) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := u.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}
