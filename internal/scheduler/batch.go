// Package scheduler runs maintenance requests through the allocator,
// one goroutine per section so independent sections place concurrently
// while requests on the same section serialize behind its advisory
// lock (spec.md §5). Grounded on the teacher's
// internal/scheduler/worker.go::processBatch fan-out — claim a batch,
// spin up one goroutine per unit of work, wait for all of them.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nandhagk/railsched/internal/allocator"
	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/metrics"
	"github.com/nandhagk/railsched/internal/notify"
	"github.com/nandhagk/railsched/internal/repository"
)

// SectionBatch is the set of newly-submitted requests targeting one section.
type SectionBatch struct {
	SectionID int64
	Requests  []domain.MaintenanceRequest
}

// BatchResult reports one section's placement outcome. Requested carries
// the task id assigned to every accepted request, same order as the
// input batch, so a caller can tell which requests never made it into
// either Placed or Unplaced (spec.md §7 / the original's TaskInsertResult).
type BatchResult struct {
	SectionID int64
	Requested []int64
	Placed    []int64
	Unplaced  []int64
	Err       error
}

// BatchScheduler places requests through internal/allocator and emails
// the DEN for anything left unplaced.
type BatchScheduler struct {
	store       repository.SlotStore
	tasks       repository.TaskRepository
	notifier    *notify.Notifier
	logger      *slog.Logger
	lockTimeout time.Duration
}

func NewBatchScheduler(store repository.SlotStore, tasks repository.TaskRepository, notifier *notify.Notifier, lockTimeout time.Duration, logger *slog.Logger) *BatchScheduler {
	return &BatchScheduler{
		store:       store,
		tasks:       tasks,
		notifier:    notifier,
		lockTimeout: lockTimeout,
		logger:      logger.With("component", "batch_scheduler"),
	}
}

// Schedule places every batch concurrently and returns one BatchResult
// per input batch, same index. A batch's own error never blocks another
// batch's placement — sections are fully independent (spec.md §5).
func (s *BatchScheduler) Schedule(ctx context.Context, batches []SectionBatch) []BatchResult {
	results := make([]BatchResult, len(batches))

	var wg sync.WaitGroup
	for i, b := range batches {
		wg.Add(1)
		go func(i int, b SectionBatch) {
			defer wg.Done()
			results[i] = s.scheduleSection(ctx, b)
		}(i, b)
	}
	wg.Wait()

	return results
}

func (s *BatchScheduler) scheduleSection(ctx context.Context, batch SectionBatch) BatchResult {
	start := time.Now()
	defer func() { metrics.PlacementDuration.Observe(time.Since(start).Seconds()) }()

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return BatchResult{SectionID: batch.SectionID, Err: err}
	}
	defer tx.Rollback(ctx)

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	err = tx.LockSection(lockCtx, batch.SectionID)
	cancel()
	if err != nil {
		return BatchResult{SectionID: batch.SectionID, Err: err}
	}

	partials := make([]domain.PartialTask, len(batch.Requests))
	for i, r := range batch.Requests {
		partials[i] = r.Task()
	}

	createdTasks, err := tx.InsertTasks(ctx, partials)
	if err != nil {
		return BatchResult{SectionID: batch.SectionID, Err: err}
	}

	requested := make([]int64, len(createdTasks))
	candidates := make([]domain.PlacementCandidate, len(createdTasks))
	for i, t := range createdTasks {
		requested[i] = t.ID
		candidates[i] = domain.NewPlacementCandidate(batch.Requests[i], t.ID)
	}

	placement, err := allocator.Allocate(ctx, tx, batch.SectionID, candidates)
	if err != nil {
		return BatchResult{SectionID: batch.SectionID, Requested: requested, Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return BatchResult{SectionID: batch.SectionID, Requested: requested, Err: err}
	}

	metrics.SlotsPlacedTotal.Add(float64(len(placement.Placed)))
	metrics.RequestsUnplacedTotal.Add(float64(len(placement.Unplaced)))
	metrics.SlotsPreemptedTotal.Add(float64(placement.Preempted))

	for _, taskID := range placement.Unplaced {
		s.notifyUnplaced(ctx, taskID)
	}

	return BatchResult{
		SectionID: batch.SectionID,
		Requested: requested,
		Placed:    placement.Placed,
		Unplaced:  placement.Unplaced,
	}
}

func (s *BatchScheduler) notifyUnplaced(ctx context.Context, taskID int64) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, domain.ErrTaskNotFound) {
			s.logger.Error("load unplaced task for notification", "task_id", taskID, "error", err)
		}
		return
	}

	if err := s.notifier.NotifyUnplaced(ctx, *task); err != nil {
		s.logger.Error("notify unplaced task", "task_id", taskID, "error", err)
	}
}
