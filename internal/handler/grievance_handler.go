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

type grievanceService interface {
	Submit(ctx context.Context, req dto.SubmitGrievanceRequest, session *models.SessionClaims) (*models.Grievance, error)
	Track(ctx context.Context, code string) (*dto.TrackingResponse, error)
}

// GrievanceHandler serves the public filing and tracking endpoints.
type GrievanceHandler struct {
	service grievanceService
}

// NewGrievanceHandler builds a new handler.
func NewGrievanceHandler(service grievanceService) *GrievanceHandler {
	return &GrievanceHandler{service: service}
}

// Submit godoc
// @Summary File a grievance
// @Description The institution defaults to the session's when omitted.
// @Tags Grievances
// @Accept json
// @Produce json
// @Param payload body dto.SubmitGrievanceRequest true "Grievance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grievances [post]
func (h *GrievanceHandler) Submit(c *gin.Context) {
	var req dto.SubmitGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grievance payload"))
		return
	}
	grievance, err := h.service.Submit(c.Request.Context(), req, sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grievance)
}

// Track godoc
// @Summary Track a grievance by reference ID
// @Tags Grievances
// @Produce json
// @Param code path string true "Reference ID, case-insensitive"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grievances/track/{code} [get]
func (h *GrievanceHandler) Track(c *gin.Context) {
	view, err := h.service.Track(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
