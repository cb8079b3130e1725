package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/trainseed"
	"github.com/nandhagk/railsched/internal/usecase"
)

type BootstrapHandler struct {
	bootstrapUsecase *usecase.BootstrapUsecase
	logger           *slog.Logger
}

func NewBootstrapHandler(bootstrapUsecase *usecase.BootstrapUsecase, logger *slog.Logger) *BootstrapHandler {
	return &BootstrapHandler{bootstrapUsecase: bootstrapUsecase, logger: logger.With("component", "bootstrap_handler")}
}

type bootstrapTopologyBody struct {
	Names []string `json:"names" binding:"required,min=1"`
}

// Topology expands a station-name catalogue into the node/section
// topology. Re-running against an already-seeded catalogue fails with
// 409, not silent duplication.
func (h *BootstrapHandler) Topology(c *gin.Context) {
	var body bootstrapTopologyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequestBody, "detail": err.Error()})
		return
	}

	nodes, sections, err := h.bootstrapUsecase.BootstrapTopology(c.Request.Context(), body.Names)
	if err != nil {
		if errors.Is(err, domain.ErrTopologyMismatch) {
			c.JSON(http.StatusConflict, gin.H{"error": errTopologyMismatch})
			return
		}
		h.logger.Error("bootstrap topology", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"nodes": nodes, "sections": sections})
}

type stationTimeBody struct {
	Arrival   *string `json:"arrival"`
	Departure *string `json:"departure"`
}

type timetableBody struct {
	Number   string                     `json:"number"    binding:"required"`
	RunsOn   [7]bool                    `json:"runs_on"`
	Stations []string                   `json:"stations"  binding:"required,min=2"`
	Times    map[string]stationTimeBody `json:"times"`
}

type bootstrapTrainsBody struct {
	Roster     []domain.PartialTrain `json:"roster"     binding:"required,min=1"`
	Timetables []timetableBody       `json:"timetables" binding:"required,min=1"`
}

// Trains inserts the roster and seeds fixed slots for the scheduling
// horizon ahead, the same operation HorizonMaintainer re-runs on a
// cron schedule (SPEC_FULL §4.2).
func (h *BootstrapHandler) Trains(c *gin.Context) {
	var body bootstrapTrainsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequestBody, "detail": err.Error()})
		return
	}

	timetables := make([]trainseed.Timetable, len(body.Timetables))
	for i, t := range body.Timetables {
		tt := trainseed.Timetable{
			Number:   t.Number,
			RunsOn:   t.RunsOn,
			Stations: t.Stations,
			Times:    make(map[string]trainseed.StationTime, len(t.Times)),
		}
		for station, st := range t.Times {
			stationTime, err := toStationTime(st)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequestBody, "detail": err.Error()})
				return
			}
			tt.Times[station] = stationTime
		}
		timetables[i] = tt
	}

	trains, err := h.bootstrapUsecase.BootstrapTrains(c.Request.Context(), body.Roster, timetables)
	if err != nil {
		if errors.Is(err, domain.ErrTopologyMismatch) {
			c.JSON(http.StatusConflict, gin.H{"error": errTopologyMismatch})
			return
		}
		h.logger.Error("bootstrap trains", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trains": trains})
}

func toStationTime(st stationTimeBody) (trainseed.StationTime, error) {
	var out trainseed.StationTime
	if st.Arrival != nil {
		t, err := domain.ParseTimeOfDay(*st.Arrival)
		if err != nil {
			return out, err
		}
		out.Arrival = &t
	}
	if st.Departure != nil {
		t, err := domain.ParseTimeOfDay(*st.Departure)
		if err != nil {
			return out, err
		}
		out.Departure = &t
	}
	return out, nil
}
