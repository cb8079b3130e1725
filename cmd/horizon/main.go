// horizon runs the recurring train-seed reseed: a process that keeps
// fixed train slots laid down TRAIN_SLOT_FILL_DAYS ahead of "today" as
// today advances, reloading the roster and timetable from ./data on
// every fire so operator edits propagate without a restart. Grounded
// on the teacher's cmd/scheduler/main.go process shape (config load,
// pool, logger, signal-driven shutdown) wired to scheduler.HorizonMaintainer
// instead of the teacher's dispatcher loop.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/nandhagk/railsched/config"
	"github.com/nandhagk/railsched/internal/catalogue"
	"github.com/nandhagk/railsched/internal/infrastructure/postgres"
	ctxlog "github.com/nandhagk/railsched/internal/log"
	"github.com/nandhagk/railsched/internal/scheduler"
	"github.com/nandhagk/railsched/internal/trainseed"
)

const dataDir = "data"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	trainRepo := postgres.NewTrainRepository(pool)
	sectionRepo := postgres.NewSectionRepository(pool)
	slotStore := postgres.NewSlotStore(pool)
	seeder := trainseed.NewSeeder(trainRepo, sectionRepo, slotStore)

	maintainer, err := scheduler.NewHorizonMaintainer(
		seeder,
		catalogue.LoadRosterCtx(dataDir),
		catalogue.LoadTimetablesCtx(dataDir),
		cfg.TrainSlotFillDays,
		cfg.HorizonCronExpr,
		logger,
	)
	if err != nil {
		log.Fatalf("horizon maintainer: %v", err)
	}

	maintainer.Start(ctx)
	logger.Info("horizon exited")
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
