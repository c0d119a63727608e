package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/grievance-api/internal/dto"
	"github.com/noah-isme/grievance-api/internal/models"
	appErrors "github.com/noah-isme/grievance-api/pkg/errors"
	"github.com/noah-isme/grievance-api/pkg/response"
)

type adminGrievanceService interface {
	ListForAdmin(ctx context.Context, session *models.SessionClaims, query dto.GrievanceQuery) (*dto.GrievanceListResponse, error)
	Stats(ctx context.Context, session *models.SessionClaims, query dto.GrievanceQuery) (models.GrievanceStats, error)
	Get(ctx context.Context, session *models.SessionClaims, id string) (*models.Grievance, error)
	AppendUpdate(ctx context.Context, session *models.SessionClaims, id string, req dto.AppendUpdateRequest) (*models.Grievance, error)
}

type grievanceExporter interface {
	Export(ctx context.Context, session *models.SessionClaims, query dto.GrievanceQuery, format string) (*dto.ExportFile, error)
}

// AdminGrievanceHandler serves the review dashboard endpoints.
type AdminGrievanceHandler struct {
	service  adminGrievanceService
	exporter grievanceExporter
}

// NewAdminGrievanceHandler builds a new handler. A nil exporter disables export.
func NewAdminGrievanceHandler(service adminGrievanceService, exporter grievanceExporter) *AdminGrievanceHandler {
	return &AdminGrievanceHandler{service: service, exporter: exporter}
}

// List godoc
// @Summary List grievances of the session institution
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status"
// @Param category query string false "Category"
// @Param date_range query string false "today, last7days or last30days"
// @Param page query int false "Page"
// @Param page_size query int false "Page size (5, 10, 25, 50)"
// @Success 200 {object} response.Envelope
// @Router /admin/grievances [get]
func (h *AdminGrievanceHandler) List(c *gin.Context) {
	result, err := h.service.ListForAdmin(c.Request.Context(), sessionFromContext(c), grievanceQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Items, result.Pagination, map[string]interface{}{"stats": result.Stats})
}

// Stats godoc
// @Summary Aggregate counts of filtered grievances
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status"
// @Param category query string false "Category"
// @Param date_range query string false "today, last7days or last30days"
// @Success 200 {object} response.Envelope
// @Router /admin/grievances/stats [get]
func (h *AdminGrievanceHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), sessionFromContext(c), grievanceQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Get godoc
// @Summary Grievance detail with full update history
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grievance ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/grievances/{id} [get]
func (h *AdminGrievanceHandler) Get(c *gin.Context) {
	grievance, err := h.service.Get(c.Request.Context(), sessionFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grievance, nil)
}

// AppendUpdate godoc
// @Summary Change a grievance's status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grievance ID"
// @Param payload body dto.AppendUpdateRequest true "Status update"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/grievances/{id}/updates [post]
func (h *AdminGrievanceHandler) AppendUpdate(c *gin.Context) {
	var req dto.AppendUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}
	grievance, err := h.service.AppendUpdate(c.Request.Context(), sessionFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grievance)
}

// Export godoc
// @Summary Download the filtered grievances
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Param status query string false "Status"
// @Param category query string false "Category"
// @Param date_range query string false "today, last7days or last30days"
// @Success 200 {file} file
// @Router /admin/grievances/export [get]
func (h *AdminGrievanceHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrFeatureDisabled)
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), sessionFromContext(c), grievanceQuery(c), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}
