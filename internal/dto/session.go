package dto

import (
	"time"

	"github.com/noah-isme/grievance-api/internal/models"
)

// StartSessionRequest selects an institution and role.
type StartSessionRequest struct {
	InstitutionID string `json:"institutionId" validate:"required"`
	RoleID        string `json:"roleId" validate:"required"`
}

// SessionResponse returns the issued session token and selection.
type SessionResponse struct {
	Token       string             `json:"token"`
	ExpiresAt   time.Time          `json:"expiresAt"`
	Institution models.Institution `json:"institution"`
	Role        models.Role        `json:"role"`
}
