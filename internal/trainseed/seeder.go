package trainseed

import (
	"context"
	"fmt"
	"time"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/repository"
)

// Seeder emits fixed train-pass slots from a roster and a set of
// timetables. Grounded on
// original_source/src/train/services/train.py::TrainService.init.
//
// SPEC_FULL closes a gap present in the original: TrainService.init
// iterates `for line in ("UP",)`, never emitting "DN" slots even though
// sections exist in both directions. Seed emits both.
type Seeder struct {
	trains   repository.TrainRepository
	sections repository.SectionRepository
	store    repository.SlotStore
}

func NewSeeder(trains repository.TrainRepository, sections repository.SectionRepository, store repository.SlotStore) *Seeder {
	return &Seeder{trains: trains, sections: sections, store: store}
}

// Seed inserts the roster and, for every timetable, one fixed slot per
// section per day the train runs within [from, from+days). from is
// normally "tomorrow" — TrainService.init never touches today's already
// locked-in schedule, and neither does Seed (see findInterval's "after"
// cutoff in internal/allocator, which makes the same assumption).
//
// Idempotent: re-running Seed over a horizon that overlaps a previous
// run upserts the roster and leaves already-seeded train slots alone
// rather than erroring or duplicating them, so HorizonMaintainer's
// recurring reseed and a re-run of POST /bootstrap/trains both converge
// on the same slot set (spec.md §8).
func (s *Seeder) Seed(ctx context.Context, roster []domain.PartialTrain, timetables []Timetable, from time.Time, days int) ([]domain.Train, error) {
	created, err := s.trains.InsertMany(ctx, roster)
	if err != nil {
		return nil, fmt.Errorf("insert train roster: %w", err)
	}

	byNumber := make(map[string]domain.Train, len(created))
	for _, t := range created {
		byNumber[t.Number] = t
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin seeding tx: %w", err)
	}
	defer tx.Rollback(ctx)

	locked := make(map[int64]bool)
	sectionCache := make(map[sectionKey]domain.Section)

	for _, tt := range timetables {
		train, ok := byNumber[tt.Number]
		if !ok {
			return nil, fmt.Errorf("%w: train number %q not in roster", domain.ErrTrainNotFound, tt.Number)
		}

		resolved := Interpolate(tt.Stations, tt.Times)
		order := ResolvedStations(tt.Stations, resolved)
		if len(order) < 2 {
			continue
		}

		for i := 0; i < days; i++ {
			date := from.AddDate(0, 0, i)
			if !tt.RunsOn[weekdayIndex(date.Weekday())] {
				continue
			}

			for _, line := range []domain.Line{domain.LineUp, domain.LineDown} {
				stations := order
				if line == domain.LineDown {
					stations = reversed(order)
				}

				for j := 0; j+1 < len(stations); j++ {
					a, b := stations[j], stations[j+1]

					section, err := s.lookupSection(ctx, sectionCache, line, a, b)
					if err != nil {
						return nil, err
					}

					startsAt := domain.Combine(date, *resolved[a].Departure)
					endsAt := domain.Combine(date, *resolved[b].Arrival)
					if startsAt.After(endsAt) {
						endsAt = endsAt.AddDate(0, 0, 1)
					}

					if !locked[section.ID] {
						if err := tx.LockSection(ctx, section.ID); err != nil {
							return nil, err
						}
						locked[section.ID] = true
					}

					// Duplicates (same section, train, and start already
					// seeded by an earlier run) are skipped, not errors —
					// re-seeding an overlapping horizon must be idempotent.
					if _, _, err := tx.InsertTrainSlot(ctx, domain.NewTrainSlot(section.ID, startsAt, endsAt, train.ID)); err != nil {
						return nil, fmt.Errorf("insert train slot: %w", err)
					}
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit seeding tx: %w", err)
	}

	out := make([]domain.Train, 0, len(byNumber))
	for _, t := range byNumber {
		out = append(out, t)
	}
	return out, nil
}

type sectionKey struct {
	line string
	from string
	to   string
}

// lookupSection is not part of repository.SlotTx — section lookups are
// read-only and go through the SectionRepository outside the seeding
// transaction, cached per (line, from, to) since a timetable revisits
// the same pair across every day it runs.
func (s *Seeder) lookupSection(ctx context.Context, cache map[sectionKey]domain.Section, line domain.Line, from, to string) (domain.Section, error) {
	key := sectionKey{line: string(line), from: from, to: to}
	if sec, ok := cache[key]; ok {
		return sec, nil
	}

	sec, err := s.sections.FindByLineAndNames(ctx, line, from, to)
	if err != nil {
		return domain.Section{}, fmt.Errorf("find section %s %s->%s: %w", line, from, to, err)
	}

	cache[key] = *sec
	return *sec, nil
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
