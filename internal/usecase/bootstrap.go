package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/topology"
	"github.com/nandhagk/railsched/internal/trainseed"
)

// BootstrapUsecase drives the operator-triggered
// "POST /bootstrap/topology" and "POST /bootstrap/trains" endpoints
// (SPEC_FULL §6.4). Re-running the topology bootstrap against an
// already-seeded catalogue fails with ErrTopologyMismatch rather than
// silently duplicating rows; re-running the train seed is idempotent
// (spec.md §8) — the roster is upserted and already-seeded slots are
// skipped.
type BootstrapUsecase struct {
	bootstrapper *topology.Bootstrapper
	seeder       *trainseed.Seeder
	fillDays     int
}

func NewBootstrapUsecase(bootstrapper *topology.Bootstrapper, seeder *trainseed.Seeder, fillDays int) *BootstrapUsecase {
	return &BootstrapUsecase{bootstrapper: bootstrapper, seeder: seeder, fillDays: fillDays}
}

// BootstrapTopology expands a station-name catalogue into nodes and
// chained UP/DN sections.
func (u *BootstrapUsecase) BootstrapTopology(ctx context.Context, names []string) ([]domain.Node, []domain.Section, error) {
	nodes, err := u.bootstrapper.BootstrapNodes(ctx, names)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap topology: %w", err)
	}

	sections, err := u.bootstrapper.BootstrapSections(ctx, names)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap topology: %w", err)
	}

	return nodes, sections, nil
}

// BootstrapTrains inserts the roster and seeds fixed slots fillDays
// ahead of tomorrow, the same horizon HorizonMaintainer re-extends on
// its own schedule.
func (u *BootstrapUsecase) BootstrapTrains(ctx context.Context, roster []domain.PartialTrain, timetables []trainseed.Timetable) ([]domain.Train, error) {
	from := time.Now().AddDate(0, 0, 1)
	trains, err := u.seeder.Seed(ctx, roster, timetables, from, u.fillDays)
	if err != nil {
		return nil, fmt.Errorf("bootstrap trains: %w", err)
	}
	return trains, nil
}
