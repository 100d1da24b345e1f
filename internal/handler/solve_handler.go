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

type solveService interface {
	Solve(ctx context.Context, req dto.SolveRequest) (*dto.SolveResponse, error)
	Result(ctx context.Context, resultID string) (*models.OptimizationResult, error)
	Equity(ctx context.Context, resultID string) (*models.EquityMetrics, error)
}

// SolveHandler exposes solver endpoints.
type SolveHandler struct {
	solves solveService
}

// NewSolveHandler constructs a solve handler.
func NewSolveHandler(solves solveService) *SolveHandler {
	return &SolveHandler{solves: solves}
}

// Solve godoc
// @Summary Run a solver over a stored instance
// @Tags Solving
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /solve [post]
func (h *SolveHandler) Solve(c *gin.Context) {
	var req dto.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	resp, err := h.solves.Solve(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Result returns a stored optimization result in full.
func (h *SolveHandler) Result(c *gin.Context) {
	result, err := h.solves.Result(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Equity returns deviation statistics for a stored result.
func (h *SolveHandler) Equity(c *gin.Context) {
	metrics, err := h.solves.Equity(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, metrics)
}
