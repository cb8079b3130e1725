package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/nandhagk/railsched/internal/transport/http/handler"
	"github.com/nandhagk/railsched/internal/transport/http/middleware"
)

// NewRouter wires the request boundary spec.md §1 names as an external
// collaborator but leaves unspecified (SPEC_FULL §6.4). Unauthenticated
// by design — authentication is an explicit Non-goal.
func NewRouter(
	logger *slog.Logger,
	sectionHandler *handler.SectionHandler,
	taskHandler *handler.TaskHandler,
	bootstrapHandler *handler.BootstrapHandler,
	healthHandler *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	sections := r.Group("/sections")
	sections.POST("/:id/requests", sectionHandler.Create)
	sections.GET("/:id/slots", sectionHandler.Slots)

	r.GET("/tasks/:id", taskHandler.GetByID)

	bootstrap := r.Group("/bootstrap")
	bootstrap.POST("/topology", bootstrapHandler.Topology)
	bootstrap.POST("/trains", bootstrapHandler.Trains)

	return r
}
