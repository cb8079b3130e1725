package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/usecase"
)

type fakeTaskRepository struct {
	findByID func(ctx context.Context, id int64) (*domain.Task, error)
}

func (r *fakeTaskRepository) InsertMany(context.Context, []domain.PartialTask) ([]domain.Task, error) {
	panic("not used")
}

func (r *fakeTaskRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	return r.findByID(ctx, id)
}

func TestTaskUsecase_GetByID_ReturnsTask(t *testing.T) {
	want := &domain.Task{ID: 7, Department: "Signal"}
	repo := &fakeTaskRepository{
		findByID: func(_ context.Context, id int64) (*domain.Task, error) {
			if id != 7 {
				t.Fatalf("unexpected id %d", id)
			}
			return want, nil
		},
	}

	got, err := usecase.NewTaskUsecase(repo).GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestTaskUsecase_GetByID_NotFound_Propagates(t *testing.T) {
	repo := &fakeTaskRepository{
		findByID: func(context.Context, int64) (*domain.Task, error) {
			return nil, domain.ErrTaskNotFound
		},
	}

	_, err := usecase.NewTaskUsecase(repo).GetByID(context.Background(), 99)
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("want ErrTaskNotFound, got %v", err)
	}
}
