package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nandhagk/railsched/config"
	"github.com/nandhagk/railsched/internal/health"
	"github.com/nandhagk/railsched/internal/infrastructure/postgres"
	ctxlog "github.com/nandhagk/railsched/internal/log"
	"github.com/nandhagk/railsched/internal/metrics"
	"github.com/nandhagk/railsched/internal/notify"
	"github.com/nandhagk/railsched/internal/scheduler"
	"github.com/nandhagk/railsched/internal/topology"
	httptransport "github.com/nandhagk/railsched/internal/transport/http"
	"github.com/nandhagk/railsched/internal/transport/http/handler"
	"github.com/nandhagk/railsched/internal/trainseed"
	"github.com/nandhagk/railsched/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	nodeRepo := postgres.NewNodeRepository(pool)
	sectionRepo := postgres.NewSectionRepository(pool)
	trainRepo := postgres.NewTrainRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	slotStore := postgres.NewSlotStore(pool)

	sender := notify.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	notifier := notify.NewNotifier(sender)
	lockTimeout := time.Duration(cfg.SectionLockTimeoutSec) * time.Second
	batchScheduler := scheduler.NewBatchScheduler(slotStore, taskRepo, notifier, lockTimeout, logger)

	bootstrapper := topology.NewBootstrapper(nodeRepo, sectionRepo)
	seeder := trainseed.NewSeeder(trainRepo, sectionRepo, slotStore)

	requestUsecase := usecase.NewRequestUsecase(batchScheduler)
	sectionUsecase := usecase.NewSectionUsecase(slotStore)
	taskUsecase := usecase.NewTaskUsecase(taskRepo)
	bootstrapUsecase := usecase.NewBootstrapUsecase(bootstrapper, seeder, cfg.TrainSlotFillDays)

	sectionHandler := handler.NewSectionHandler(requestUsecase, sectionUsecase, logger)
	taskHandler := handler.NewTaskHandler(taskUsecase, logger)
	bootstrapHandler := handler.NewBootstrapHandler(bootstrapUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)
	healthHandler := handler.NewHealthHandler(checker)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, sectionHandler, taskHandler, bootstrapHandler, healthHandler),
	}

	metricsSrv := metrics.NewServer(":" + cfg.MetricsPort)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
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
