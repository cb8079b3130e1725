package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/metrics"
	"github.com/nandhagk/railsched/internal/trainseed"
)

// HorizonMaintainer periodically re-extends the train-seed window so
// the horizon `fillDays` ahead of "today" always has fixed slots laid
// down, even as "today" advances. Grounded on the teacher's
// internal/scheduler/dispatcher.go Start/ticker shape, generalized from
// firing due cron schedules to firing a single recurring re-seed.
type HorizonMaintainer struct {
	seeder    *trainseed.Seeder
	roster    func(ctx context.Context) ([]domain.PartialTrain, error)
	timetable func(ctx context.Context) ([]trainseed.Timetable, error)
	fillDays  int
	schedule  cron.Schedule
	logger    *slog.Logger
}

// NewHorizonMaintainer parses cronExpr (standard 5-field, same
// convention as the teacher's schedule cron expressions) and returns a
// maintainer that re-seeds fillDays ahead of "today" each time it fires.
// roster and timetable are called fresh on every fire so an operator's
// roster/timetable edits propagate without a restart.
func NewHorizonMaintainer(
	seeder *trainseed.Seeder,
	roster func(ctx context.Context) ([]domain.PartialTrain, error),
	timetable func(ctx context.Context) ([]trainseed.Timetable, error),
	fillDays int,
	cronExpr string,
	logger *slog.Logger,
) (*HorizonMaintainer, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}

	return &HorizonMaintainer{
		seeder:    seeder,
		roster:    roster,
		timetable: timetable,
		fillDays:  fillDays,
		schedule:  schedule,
		logger:    logger.With("component", "horizon_maintainer"),
	}, nil
}

// Start blocks until ctx is cancelled, re-seeding each time the cron
// schedule next fires.
func (h *HorizonMaintainer) Start(ctx context.Context) {
	h.logger.Info("horizon maintainer started", "fill_days", h.fillDays)

	next := h.schedule.Next(time.Now())
	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("horizon maintainer shut down")
			return
		case <-timer.C:
			h.reseed(ctx)
			next = h.schedule.Next(time.Now())
			timer.Reset(time.Until(next))
		}
	}
}

func (h *HorizonMaintainer) reseed(ctx context.Context) {
	start := time.Now()
	defer func() { metrics.HorizonExtendDuration.Observe(time.Since(start).Seconds()) }()

	roster, err := h.roster(ctx)
	if err != nil {
		h.logger.Error("horizon maintainer load roster", "error", err)
		return
	}
	timetables, err := h.timetable(ctx)
	if err != nil {
		h.logger.Error("horizon maintainer load timetable", "error", err)
		return
	}

	from := time.Now().AddDate(0, 0, 1)
	trains, err := h.seeder.Seed(ctx, roster, timetables, from, h.fillDays)
	if err != nil {
		h.logger.Error("horizon maintainer reseed", "error", err)
		return
	}

	h.logger.Info("horizon maintainer reseed complete", "trains", len(trains), "fill_days", h.fillDays)
}
