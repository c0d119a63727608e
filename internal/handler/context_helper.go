package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/grievance-api/internal/dto"
	"github.com/noah-isme/grievance-api/internal/middleware"
	"github.com/noah-isme/grievance-api/internal/models"
)

func sessionFromContext(c *gin.Context) *models.SessionClaims {
	return middleware.SessionFromContext(c)
}

// grievanceQuery reads listing filters. dateRange is accepted alongside date_range.
func grievanceQuery(c *gin.Context) dto.GrievanceQuery {
	dateRange := c.Query("date_range")
	if dateRange == "" {
		dateRange = c.Query("dateRange")
	}
	return dto.GrievanceQuery{
		Status:    strings.TrimSpace(c.Query("status")),
		Category:  strings.TrimSpace(c.Query("category")),
		DateRange: strings.TrimSpace(dateRange),
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "page_size", 0),
	}
}

func parseQueryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
