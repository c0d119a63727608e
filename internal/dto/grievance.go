package dto

import (
	"time"

	"github.com/noah-isme/grievance-api/internal/models"
)

// SubmitGrievanceRequest payload for filing a grievance. InstitutionID may be
// omitted when the caller has an active session.
type SubmitGrievanceRequest struct {
	InstitutionID string   `json:"institutionId"`
	Category      string   `json:"category" validate:"required,grievance_category"`
	Description   string   `json:"description" validate:"required,notblank"`
	IsAnonymous   bool     `json:"isAnonymous"`
	Attachments   []string `json:"attachments" validate:"omitempty,dive,required"`
}

// AppendUpdateRequest captures a reviewer's status change and message.
type AppendUpdateRequest struct {
	Status  string `json:"status" validate:"required,grievance_status"`
	Message string `json:"message" validate:"required,notblank"`
}

// GrievanceQuery mirrors the admin listing filters.
type GrievanceQuery struct {
	Status    string
	Category  string
	DateRange string
	Page      int
	PageSize  int
}

// GrievanceListResponse is one page of filtered grievances plus stats over
// the full filtered set.
type GrievanceListResponse struct {
	Items      []models.Grievance    `json:"items"`
	Stats      models.GrievanceStats `json:"stats"`
	Pagination *models.Pagination    `json:"-"`
}

// TrackingResponse is what a person tracking a reference code sees.
type TrackingResponse struct {
	ReferenceCode string                   `json:"referenceId"`
	Category      models.GrievanceCategory `json:"category"`
	Description   string                   `json:"description"`
	IsAnonymous   bool                     `json:"isAnonymous"`
	Status        models.GrievanceStatus   `json:"status"`
	ProgressStep  int                      `json:"progressStep"`
	Steps         []models.GrievanceStatus `json:"steps"`
	SubmittedAt   time.Time                `json:"submittedAt"`
	LastUpdated   time.Time                `json:"lastUpdated"`
	Updates       []models.GrievanceUpdate `json:"updates"`
	Attachments   []models.Attachment      `json:"attachments,omitempty"`
}

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
