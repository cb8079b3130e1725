package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandhagk/railsched/internal/domain"
	"github.com/nandhagk/railsched/internal/usecase"
)

type SectionHandler struct {
	requestUsecase *usecase.RequestUsecase
	sectionUsecase *usecase.SectionUsecase
	logger         *slog.Logger
}

func NewSectionHandler(requestUsecase *usecase.RequestUsecase, sectionUsecase *usecase.SectionUsecase, logger *slog.Logger) *SectionHandler {
	return &SectionHandler{
		requestUsecase: requestUsecase,
		sectionUsecase: sectionUsecase,
		logger:         logger.With("component", "section_handler"),
	}
}

type maintenanceRequestBody struct {
	Department           string `json:"department"                  binding:"required"`
	DEN                  string `json:"den"                          binding:"required"`
	NatureOfWork         string `json:"nature_of_work"               binding:"required"`
	Location             string `json:"location"                     binding:"required"`
	PreferredStartsAt    string `json:"preferred_starts_at"          binding:"required"`
	PreferredEndsAt      string `json:"preferred_ends_at"            binding:"required"`
	RequestedDate        string `json:"requested_date"               binding:"required"`
	RequestedDurationMin int    `json:"requested_duration_minutes"   binding:"required"`
	Priority             int    `json:"priority"`
}

type submitRequestsBody struct {
	Requests []maintenanceRequestBody `json:"requests" binding:"required,min=1,dive"`
}

// Create submits a batch of maintenance requests against one section
// and returns the placement outcome, per SPEC_FULL §6.4 /
// spec.md §7's `{requested, placed, unplaced, errors}` shape.
func (h *SectionHandler) Create(c *gin.Context) {
	sectionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section id"})
		return
	}

	var body submitRequestsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequestBody, "detail": err.Error()})
		return
	}

	requests := make([]domain.MaintenanceRequest, 0, len(body.Requests))
	for i, r := range body.Requests {
		req, parseErr := toMaintenanceRequest(r, sectionID)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequestBody, "detail": parseErr.Error(), "index": i})
			return
		}
		requests = append(requests, req)
	}

	result, err := h.requestUsecase.SubmitRequests(c.Request.Context(), sectionID, requests)
	if err != nil {
		h.logger.Error("submit requests", "section_id", sectionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requested": result.Requested,
		"placed":    result.Placed,
		"unplaced":  result.Unplaced,
		"errors":    unplacedErrors(result.Unplaced),
	})
}

// unplacedErrors builds the errors sidecar spec.md §7 pairs with
// requested/placed/unplaced: every unplaced task id with its reason.
// domain.ErrNoFreeSlot is the only failure mode that reaches Unplaced —
// anything else aborts the whole batch as a StoreError instead.
func unplacedErrors(unplaced []int64) map[int64]string {
	if len(unplaced) == 0 {
		return nil
	}
	errs := make(map[int64]string, len(unplaced))
	for _, taskID := range unplaced {
		errs[taskID] = domain.ErrNoFreeSlot.Error()
	}
	return errs
}

func toMaintenanceRequest(r maintenanceRequestBody, sectionID int64) (domain.MaintenanceRequest, error) {
	requestedDate, err := time.Parse("2006-01-02", r.RequestedDate)
	if err != nil {
		return domain.MaintenanceRequest{}, err
	}
	preferredStart, err := domain.ParseTimeOfDay(r.PreferredStartsAt)
	if err != nil {
		return domain.MaintenanceRequest{}, err
	}
	preferredEnd, err := domain.ParseTimeOfDay(r.PreferredEndsAt)
	if err != nil {
		return domain.MaintenanceRequest{}, err
	}

	priority := r.Priority
	if priority == 0 {
		priority = 1
	}

	return domain.MaintenanceRequest{
		Department:        r.Department,
		DEN:               r.DEN,
		NatureOfWork:      r.NatureOfWork,
		Location:          r.Location,
		PreferredStartsAt: preferredStart,
		PreferredEndsAt:   preferredEnd,
		RequestedDate:     requestedDate,
		RequestedDuration: time.Duration(r.RequestedDurationMin) * time.Minute,
		Priority:          priority,
		SectionID:         sectionID,
	}, nil
}

// Slots lists the current timeline for a section — read-only
// diagnostics, not part of the core placement path.
func (h *SectionHandler) Slots(c *gin.Context) {
	sectionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section id"})
		return
	}

	slots, err := h.sectionUsecase.ListSlots(c.Request.Context(), sectionID)
	if err != nil {
		h.logger.Error("list slots", "section_id", sectionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, slots)
}
