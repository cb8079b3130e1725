// bootstrap seeds the topology catalogue and the train roster/timetable
// from the JSON documents under ./data, the same Path.cwd()/"data"/*.json
// convention original_source/src/train/services/{node,section,train}.py
// load from. Run once against a fresh database; re-running against an
// already-seeded one fails loudly (ErrTopologyMismatch) rather than
// silently duplicating rows.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/nandhagk/railsched/config"
	"github.com/nandhagk/railsched/internal/catalogue"
	"github.com/nandhagk/railsched/internal/infrastructure/postgres"
	"github.com/nandhagk/railsched/internal/topology"
	"github.com/nandhagk/railsched/internal/trainseed"
	"github.com/nandhagk/railsched/internal/usecase"
)

const dataDir = "data"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	nodeRepo := postgres.NewNodeRepository(pool)
	sectionRepo := postgres.NewSectionRepository(pool)
	trainRepo := postgres.NewTrainRepository(pool)
	slotStore := postgres.NewSlotStore(pool)

	bootstrapper := topology.NewBootstrapper(nodeRepo, sectionRepo)
	seeder := trainseed.NewSeeder(trainRepo, sectionRepo, slotStore)
	bootstrapUsecase := usecase.NewBootstrapUsecase(bootstrapper, seeder, cfg.TrainSlotFillDays)

	names, err := catalogue.LoadNodes(dataDir)
	if err != nil {
		log.Fatalf("load catalogue: %v", err)
	}

	nodes, sections, err := bootstrapUsecase.BootstrapTopology(ctx, names)
	if err != nil {
		log.Fatalf("bootstrap topology: %v", err)
	}
	logger.Info("topology bootstrapped", "nodes", len(nodes), "sections", len(sections))

	roster, err := catalogue.LoadRoster(dataDir)
	if err != nil {
		log.Fatalf("load roster: %v", err)
	}

	timetables, err := catalogue.LoadTimetables(dataDir)
	if err != nil {
		log.Fatalf("load timetables: %v", err)
	}

	trains, err := bootstrapUsecase.BootstrapTrains(ctx, roster, timetables)
	if err != nil {
		log.Fatalf("bootstrap trains: %v", err)
	}
	logger.Info("trains seeded", "trains", len(trains), "fill_days", cfg.TrainSlotFillDays)
}
