package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/repository"
)

// SlotTx is the pgx-transaction-backed implementation of
// repository.SlotTx — one instance scopes exactly one section's
// scheduling batch (spec.md §5).
type SlotTx struct {
	tx pgx.Tx
}

// SlotStore opens SlotTx handles against a pool.
type SlotStore struct {
	pool *pgxpool.Pool
}

func NewSlotStore(pool *pgxpool.Pool) *SlotStore {
	return &SlotStore{pool: pool}
}

func (s *SlotStore) BeginTx(ctx context.Context) (repository.SlotTx, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &SlotTx{tx: tx}, nil
}

// LockSection takes an exclusive, transaction-scoped advisory lock keyed
// on the section id. Held until Commit or Rollback. Two batches against
// different sections never block each other; two batches against the
// same section serialize (spec.md §5 "same section: serialized").
func (t *SlotTx) LockSection(ctx context.Context, sectionID int64) error {
	_, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, sectionID)
	if err != nil {
		return fmt.Errorf("lock section %d: %w", sectionID, err)
	}
	return nil
}

// FindFixedSlots returns every slot on the section with priority >=
// minPriority and EndsAt >= after, ordered by StartsAt ascending.
// Grounded on original_source/src/train/repositories/slot.py::find_fixed.
func (t *SlotTx) FindFixedSlots(ctx context.Context, sectionID int64, minPriority int, after time.Time) ([]domain.Slot, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT id, starts_at, ends_at, priority, section_id, task_id, train_id
		FROM slot
		WHERE priority >= $1
		  AND section_id = $2
		  AND ends_at >= $3
		ORDER BY starts_at ASC`,
		minPriority, sectionID, after,
	)
	if err != nil {
		return nil, fmt.Errorf("find fixed slots: %w", err)
	}
	defer rows.Close()

	var slots []domain.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// PopIntersectingSlots atomically deletes every task-owned slot on the
// section that intersects [startsAt, endsAt) and whose priority is
// strictly lower than minPriority, returning enough of each displaced
// task's original request to re-queue it. Grounded on
// original_source/src/train/repositories/slot.py::pop_intersecting —
// the DELETE ... USING task ... RETURNING pattern in one round trip.
//
// Only task-owned slots are ever candidates here: train-owned slots
// carry domain.TrainPriority, which no maintenance request can reach or
// exceed, so the priority < minPriority predicate already excludes them.
func (t *SlotTx) PopIntersectingSlots(ctx context.Context, sectionID int64, startsAt, endsAt time.Time, minPriority int) ([]domain.PlacementCandidate, error) {
	rows, err := t.tx.Query(ctx, `
		DELETE FROM slot USING task
		WHERE task.id = slot.task_id
		  AND slot.priority < $1
		  AND slot.section_id = $2
		  AND slot.starts_at < $4
		  AND slot.ends_at > $3
		RETURNING
			slot.priority,
			slot.task_id,
			task.preferred_starts_at,
			task.preferred_ends_at,
			task.requested_date,
			task.requested_duration`,
		minPriority, sectionID, startsAt, endsAt,
	)
	if err != nil {
		return nil, fmt.Errorf("pop intersecting slots: %w", err)
	}
	defer rows.Close()

	var candidates []domain.PlacementCandidate
	for rows.Next() {
		var c domain.PlacementCandidate
		var preferredStartsAt, preferredEndsAt int64
		var duration int64
		err := rows.Scan(
			&c.Priority, &c.TaskID,
			&preferredStartsAt, &preferredEndsAt,
			&c.RequestedDate, &duration,
		)
		if err != nil {
			return nil, fmt.Errorf("scan popped slot: %w", err)
		}
		c.PreferredStartsAt = domain.TimeOfDay(preferredStartsAt)
		c.PreferredEndsAt = domain.TimeOfDay(preferredEndsAt)
		c.RequestedDuration = time.Duration(duration)
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// InsertSlot persists a single slot. Validates the task_id XOR train_id
// invariant before writing — the table's CHECK constraint enforces the
// same rule, but failing fast here keeps the error domain-typed.
func (t *SlotTx) InsertSlot(ctx context.Context, slot domain.PartialSlot) (domain.Slot, error) {
	if err := slot.Validate(); err != nil {
		return domain.Slot{}, err
	}

	row := t.tx.QueryRow(ctx, `
		INSERT INTO slot (starts_at, ends_at, priority, section_id, task_id, train_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, starts_at, ends_at, priority, section_id, task_id, train_id`,
		slot.StartsAt, slot.EndsAt, slot.Priority, slot.SectionID, slot.TaskID, slot.TrainID,
	)

	return scanSlot(row)
}

// InsertTrainSlot persists a train-owned slot, relying on
// slot_train_unique_idx (section_id, train_id, starts_at) to detect a
// slot already seeded by a previous run. ON CONFLICT DO NOTHING means
// the query returns zero rows rather than an error on a duplicate —
// that shows up here as pgx.ErrNoRows from scanSlot's QueryRow.
func (t *SlotTx) InsertTrainSlot(ctx context.Context, slot domain.PartialSlot) (domain.Slot, bool, error) {
	if err := slot.Validate(); err != nil {
		return domain.Slot{}, false, err
	}
	if slot.TrainID == nil {
		return domain.Slot{}, false, fmt.Errorf("insert train slot: %w", domain.ErrInvalidOccupant)
	}

	row := t.tx.QueryRow(ctx, `
		INSERT INTO slot (starts_at, ends_at, priority, section_id, task_id, train_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (section_id, train_id, starts_at) WHERE train_id IS NOT NULL DO NOTHING
		RETURNING id, starts_at, ends_at, priority, section_id, task_id, train_id`,
		slot.StartsAt, slot.EndsAt, slot.Priority, slot.SectionID, slot.TaskID, slot.TrainID,
	)

	s, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Slot{}, false, nil
		}
		return domain.Slot{}, false, err
	}
	return s, true, nil
}

// InsertTasks persists task rows for a freshly-accepted batch of
// requests, preserving input order in the returned slice.
func (t *SlotTx) InsertTasks(ctx context.Context, tasks []domain.PartialTask) ([]domain.Task, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	departments := make([]string, len(tasks))
	dens := make([]string, len(tasks))
	natures := make([]string, len(tasks))
	blocks := make([]string, len(tasks))
	locations := make([]string, len(tasks))
	starts := make([]int64, len(tasks))
	ends := make([]int64, len(tasks))
	dates := make([]time.Time, len(tasks))
	durations := make([]int64, len(tasks))

	for i, task := range tasks {
		departments[i] = task.Department
		dens[i] = task.DEN
		natures[i] = task.NatureOfWork
		blocks[i] = task.Block
		locations[i] = task.Location
		starts[i] = int64(task.PreferredStartsAt)
		ends[i] = int64(task.PreferredEndsAt)
		dates[i] = task.RequestedDate
		durations[i] = int64(task.RequestedDuration)
	}

	rows, err := t.tx.Query(ctx, `
		INSERT INTO task (
			department, den, nature_of_work, block, location,
			preferred_starts_at, preferred_ends_at,
			requested_date, requested_duration
		)
		SELECT * FROM unnest(
			$1::text[], $2::text[], $3::text[], $4::text[], $5::text[],
			$6::bigint[], $7::bigint[],
			$8::date[], $9::bigint[]
		)
		RETURNING id, department, den, nature_of_work, block, location,
			preferred_starts_at, preferred_ends_at, requested_date, requested_duration`,
		departments, dens, natures, blocks, locations,
		starts, ends, dates, durations,
	)
	if err != nil {
		return nil, fmt.Errorf("insert tasks: %w", err)
	}
	defer rows.Close()

	var created []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		created = append(created, task)
	}
	return created, rows.Err()
}

func (t *SlotTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (t *SlotTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

func scanSlot(row rowScanner) (domain.Slot, error) {
	var s domain.Slot
	err := row.Scan(&s.ID, &s.StartsAt, &s.EndsAt, &s.Priority, &s.SectionID, &s.TaskID, &s.TrainID)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("scan slot: %w", err)
	}
	return s, nil
}
