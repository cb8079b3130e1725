package repository

import (
	"context"
	"time"

	"github.com/nandhagk/railsched/internal/domain"
)

// SlotTx is a transaction-scoped view of the slot/task store for one
// section's scheduling batch. find_fixed_slots, pop_intersecting_slots,
// and insert_slot must be serialisable with any concurrent placement on
// the same section (spec.md §5); LockSection acquires the per-section
// exclusive hold that guarantees this for the lifetime of the batch.
type SlotTx interface {
	// LockSection blocks until an exclusive, transaction-scoped lock on
	// the section is held. Must be called before any read used to decide
	// a placement.
	LockSection(ctx context.Context, sectionID int64) error

	// FindFixedSlots returns every slot on the section with priority >=
	// minPriority and EndsAt >= after, ordered by StartsAt ascending —
	// the fixed obstructions a placement of minPriority cannot disturb.
	FindFixedSlots(ctx context.Context, sectionID int64, minPriority int, after time.Time) ([]domain.Slot, error)

	// PopIntersectingSlots atomically deletes and returns every slot on
	// the section whose interior intersects [startsAt, endsAt) and whose
	// priority < minPriority. Task-owned deletions are returned as
	// PlacementCandidate values carrying enough data to re-queue the
	// displaced request.
	PopIntersectingSlots(ctx context.Context, sectionID int64, startsAt, endsAt time.Time, minPriority int) ([]domain.PlacementCandidate, error)

	// InsertSlot persists a new slot.
	InsertSlot(ctx context.Context, slot domain.PartialSlot) (domain.Slot, error)

	// InsertTrainSlot persists a train-owned slot, silently skipping the
	// insert (ok == false, err == nil) when an identical slot — same
	// section, train, and start — already exists. Backs the train
	// seeder's idempotent re-runs (spec.md §8): re-seeding an overlapping
	// horizon must suppress duplicates rather than error or double-book.
	InsertTrainSlot(ctx context.Context, slot domain.PartialSlot) (created domain.Slot, ok bool, err error)

	// InsertTasks persists task rows for a freshly-accepted batch of
	// requests, preserving input order in the returned slice.
	InsertTasks(ctx context.Context, tasks []domain.PartialTask) ([]domain.Task, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SlotStore opens transaction-scoped handles onto the slot/task store.
type SlotStore interface {
	BeginTx(ctx context.Context) (SlotTx, error)
}
