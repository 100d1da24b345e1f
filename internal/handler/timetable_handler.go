package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/galymzhantore/teachload-api/internal/dto"
	"github.com/galymzhantore/teachload-api/internal/models"
	appErrors "github.com/galymzhantore/teachload-api/pkg/errors"
	"github.com/galymzhantore/teachload-api/pkg/response"
)

type timetableService interface {
	Generate(ctx context.Context, req dto.TimetableRequest) (*dto.TimetableSummary, *models.Timetable, error)
	Get(ctx context.Context, resultID string) (*models.Timetable, error)
	Conflicts(ctx context.Context, resultID string) ([]models.TimetableConflict, error)
}

// TimetableHandler exposes timetable endpoints.
type TimetableHandler struct {
	timetables timetableService
}

// NewTimetableHandler constructs a timetable handler.
func NewTimetableHandler(timetables timetableService) *TimetableHandler {
	return &TimetableHandler{timetables: timetables}
}

// Generate godoc
// @Summary Place a feasible result onto the weekly grid
// @Tags Timetables
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.TimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	summary, grid, err := h.timetables.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"summary": summary, "timetable": grid})
}

// Get returns the stored timetable for a result.
func (h *TimetableHandler) Get(c *gin.Context) {
	grid, err := h.timetables.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid)
}

// Conflicts re-validates the stored timetable's grid invariants.
func (h *TimetableHandler) Conflicts(c *gin.Context) {
	conflicts, err := h.timetables.Conflicts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"conflicts": conflicts})
}
