package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/grievance-api/internal/models"
	"github.com/noah-isme/grievance-api/pkg/response"
)

type referenceService interface {
	Institutions(ctx context.Context) []models.Institution
	Roles(ctx context.Context) []models.Role
	Categories() []models.GrievanceCategory
	Statuses() []models.GrievanceStatus
}

// ReferenceHandler serves the fixed lookup lists.
type ReferenceHandler struct {
	service referenceService
}

// NewReferenceHandler builds a new handler.
func NewReferenceHandler(service referenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// Institutions godoc
// @Summary List institutions
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /institutions [get]
func (h *ReferenceHandler) Institutions(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Institutions(c.Request.Context()), nil)
}

// Roles godoc
// @Summary List roles
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roles [get]
func (h *ReferenceHandler) Roles(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Roles(c.Request.Context()), nil)
}

// Categories godoc
// @Summary List grievance categories
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *ReferenceHandler) Categories(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Categories(), nil)
}

// Statuses godoc
// @Summary List grievance statuses
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /statuses [get]
func (h *ReferenceHandler) Statuses(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Statuses(), nil)
}
