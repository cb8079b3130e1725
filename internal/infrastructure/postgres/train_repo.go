package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nandhagk/railsched/internal/domain"
)

type TrainRepository struct {
	pool *pgxpool.Pool
}

func NewTrainRepository(pool *pgxpool.Pool) *TrainRepository {
	return &TrainRepository{pool: pool}
}

func (r *TrainRepository) InsertMany(ctx context.Context, trains []domain.PartialTrain) ([]domain.Train, error) {
	if len(trains) == 0 {
		return nil, nil
	}

	names := make([]string, len(trains))
	numbers := make([]string, len(trains))
	for i, t := range trains {
		names[i] = t.Name
		numbers[i] = t.Number
	}

	rows, err := r.pool.Query(ctx, `
		INSERT INTO train (name, number)
		SELECT * FROM unnest($1::text[], $2::text[])
		ON CONFLICT (number) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, number`,
		names, numbers,
	)
	if err != nil {
		return nil, fmt.Errorf("insert trains: %w", err)
	}
	defer rows.Close()

	var created []domain.Train
	for rows.Next() {
		t, err := scanTrain(rows)
		if err != nil {
			return nil, err
		}
		created = append(created, t)
	}
	return created, rows.Err()
}

func (r *TrainRepository) FindAll(ctx context.Context) ([]domain.Train, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, number FROM train`)
	if err != nil {
		return nil, fmt.Errorf("find trains: %w", err)
	}
	defer rows.Close()

	var trains []domain.Train
	for rows.Next() {
		t, err := scanTrain(rows)
		if err != nil {
			return nil, err
		}
		trains = append(trains, t)
	}
	return trains, rows.Err()
}

func scanTrain(row rowScanner) (domain.Train, error) {
	var t domain.Train
	err := row.Scan(&t.ID, &t.Name, &t.Number)
	if err != nil {
		return domain.Train{}, fmt.Errorf("scan train: %w", err)
	}
	return t, nil
}
