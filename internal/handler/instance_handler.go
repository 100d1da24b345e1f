package handler

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/galymzhantore/teachload-api/internal/dto"
	"github.com/galymzhantore/teachload-api/internal/models"
	appErrors "github.com/galymzhantore/teachload-api/pkg/errors"
	"github.com/galymzhantore/teachload-api/pkg/response"
)

type instanceService interface {
	Generate(ctx context.Context, req dto.GenerateInstanceRequest) (*dto.InstanceSummary, error)
	Get(ctx context.Context, id string) (*models.Instance, error)
	List(ctx context.Context) []string
	ExportCSV(ctx context.Context, id string) (map[string][]byte, error)
}

// InstanceHandler exposes instance generation and retrieval endpoints.
type InstanceHandler struct {
	instances instanceService
}

// NewInstanceHandler constructs an instance handler.
func NewInstanceHandler(instances instanceService) *InstanceHandler {
	return &InstanceHandler{instances: instances}
}

// Generate godoc
// @Summary Generate a synthetic problem instance
// @Tags Instances
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /instances/generate [post]
func (h *InstanceHandler) Generate(c *gin.Context) {
	var req dto.GenerateInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	summary, err := h.instances.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, summary)
}

// Get returns a stored instance in full.
func (h *InstanceHandler) Get(c *gin.Context) {
	instance, err := h.instances.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instance)
}

// List returns the ids of stored instances.
func (h *InstanceHandler) List(c *gin.Context) {
	ids := h.instances.List(c.Request.Context())
	sort.Strings(ids)
	response.JSON(c, http.StatusOK, gin.H{"instance_ids": ids})
}

// Export streams the instance as a zip of CSV files.
func (h *InstanceHandler) Export(c *gin.Context) {
	id := c.Param("id")
	files, err := h.instances.ExportCSV(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	buf := &bytes.Buffer{}
	archive := zip.NewWriter(buf)
	for _, name := range names {
		entry, err := archive.Create(name)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build export archive"))
			return
		}
		if _, err := entry.Write(files[name]); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build export archive"))
			return
		}
	}
	if err := archive.Close(); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finalize export archive"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.zip", id))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}
