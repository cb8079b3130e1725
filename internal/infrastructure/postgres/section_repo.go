package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nandhagk/railsched/internal/domain"
)

type SectionRepository struct {
	pool *pgxpool.Pool
}

func NewSectionRepository(pool *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{pool: pool}
}

func (r *SectionRepository) InsertMany(ctx context.Context, sections []domain.PartialSection) ([]domain.Section, error) {
	if len(sections) == 0 {
		return nil, nil
	}

	lines := make([]string, len(sections))
	fromIDs := make([]int64, len(sections))
	toIDs := make([]int64, len(sections))
	for i, s := range sections {
		lines[i] = string(s.Line)
		fromIDs[i] = s.FromID
		toIDs[i] = s.ToID
	}

	rows, err := r.pool.Query(ctx, `
		INSERT INTO section (line, from_id, to_id)
		SELECT * FROM unnest($1::text[], $2::bigint[], $3::bigint[])
		RETURNING id, line, from_id, to_id`,
		lines, fromIDs, toIDs,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateSection
		}
		return nil, fmt.Errorf("insert sections: %w", err)
	}
	defer rows.Close()

	var created []domain.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		created = append(created, s)
	}
	return created, rows.Err()
}

func (r *SectionRepository) FindAll(ctx context.Context) ([]domain.Section, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, line, from_id, to_id FROM section`)
	if err != nil {
		return nil, fmt.Errorf("find sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// FindByLineAndNames resolves a section by line and endpoint node names.
// Grounded on original_source/src/train/repositories/section.py::find_one_by_line_and_names,
// which matched "from" at position 2 and "to" at position 1. The
// positions here follow the chain topology.Bootstrapper lays down: an
// UP running section goes 2 -> 1, an UP yard (fromName == toName) 1 -> 2,
// a DN running section 1 -> 2 and a DN yard 2 -> 1.
func (r *SectionRepository) FindByLineAndNames(ctx context.Context, line domain.Line, fromName, toName string) (*domain.Section, error) {
	fromPos, toPos := domain.PositionB, domain.PositionA
	if (line == domain.LineDown) != (fromName == toName) {
		fromPos, toPos = domain.PositionA, domain.PositionB
	}

	row := r.pool.QueryRow(ctx, `
		SELECT section.id, section.line, section.from_id, section.to_id
		FROM section
		WHERE section.line = $1
		  AND section.from_id = (SELECT id FROM node WHERE name = $2 AND position = $4)
		  AND section.to_id   = (SELECT id FROM node WHERE name = $3 AND position = $5)`,
		string(line), fromName, toName, int(fromPos), int(toPos),
	)

	s, err := scanSection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSectionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func scanSection(row rowScanner) (domain.Section, error) {
	var s domain.Section
	var line string
	err := row.Scan(&s.ID, &line, &s.FromID, &s.ToID)
	if err != nil {
		return domain.Section{}, fmt.Errorf("scan section: %w", err)
	}
	s.Line = domain.Line(line)
	return s, nil
}
