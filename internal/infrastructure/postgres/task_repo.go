package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nandhagk/railsched/internal/domain"
)

// TaskRepository is the standalone, outside-a-batch-transaction view of
// the task table — used by the HTTP boundary to look a task up by ID
// after its placement (or non-placement) has already been decided.
// Batch insertion during placement goes through SlotTx.InsertTasks
// instead, since it must share the section's transaction.
type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) InsertMany(ctx context.Context, tasks []domain.PartialTask) ([]domain.Task, error) {
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

	for i, t := range tasks {
		departments[i] = t.Department
		dens[i] = t.DEN
		natures[i] = t.NatureOfWork
		blocks[i] = t.Block
		locations[i] = t.Location
		starts[i] = int64(t.PreferredStartsAt)
		ends[i] = int64(t.PreferredEndsAt)
		dates[i] = t.RequestedDate
		durations[i] = int64(t.RequestedDuration)
	}

	rows, err := r.pool.Query(ctx, `
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
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		created = append(created, t)
	}
	return created, rows.Err()
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, department, den, nature_of_work, block, location,
			preferred_starts_at, preferred_ends_at, requested_date, requested_duration
		FROM task WHERE id = $1`,
		id,
	)

	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func scanTask(row rowScanner) (domain.Task, error) {
	var t domain.Task
	var startsAt, endsAt, duration int64
	err := row.Scan(
		&t.ID, &t.Department, &t.DEN, &t.NatureOfWork, &t.Block, &t.Location,
		&startsAt, &endsAt, &t.RequestedDate, &duration,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("scan task: %w", err)
	}
	t.PreferredStartsAt = domain.TimeOfDay(startsAt)
	t.PreferredEndsAt = domain.TimeOfDay(endsAt)
	t.RequestedDuration = time.Duration(duration)
	return t, nil
}
