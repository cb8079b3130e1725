package repository

import (
	"context"

	"github.com/nandhagk/railsched/internal/domain"
)

// SectionRepository backs topology bootstrap and section resolution for
// both ingest and the train seeder.
type SectionRepository interface {
	InsertMany(ctx context.Context, sections []domain.PartialSection) ([]domain.Section, error)
	FindAll(ctx context.Context) ([]domain.Section, error)

	// FindByLineAndNames resolves a section by its line and the names of
	// its endpoint nodes, per spec.md §4.5's
	// find_section_by_line_and_names. Node positions follow the chain
	// topology.Bootstrapper lays down: an UP running section goes from
	// position 2 to position 1, a DN running section from 1 to 2, and a
	// yard (fromName == toName) the other way round on each line.
	FindByLineAndNames(ctx context.Context, line domain.Line, fromName, toName string) (*domain.Section, error)
}
