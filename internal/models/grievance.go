package models

import (
	"strings"
	"time"
)

// GrievanceStatus captures the lifecycle stage of a grievance.
type GrievanceStatus string

const (
	GrievanceStatusSubmitted   GrievanceStatus = "Submitted"
	GrievanceStatusUnderReview GrievanceStatus = "Under Review"
	GrievanceStatusInProgress  GrievanceStatus = "In Progress"
	GrievanceStatusResolved    GrievanceStatus = "Resolved"
	GrievanceStatusRejected    GrievanceStatus = "Rejected"
)

// GrievanceStatuses lists every status in display order.
var GrievanceStatuses = []GrievanceStatus{
	GrievanceStatusSubmitted,
	GrievanceStatusUnderReview,
	GrievanceStatusInProgress,
	GrievanceStatusResolved,
	GrievanceStatusRejected,
}

// Valid reports whether s is one of the fixed statuses.
func (s GrievanceStatus) Valid() bool {
	for _, status := range GrievanceStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ParseGrievanceStatus resolves a status label case-insensitively.
func ParseGrievanceStatus(raw string) (GrievanceStatus, bool) {
	raw = strings.TrimSpace(raw)
	for _, status := range GrievanceStatuses {
		if strings.EqualFold(raw, string(status)) {
			return status, true
		}
	}
	return "", false
}

// TrackingSteps are the forward stages shown to someone tracking a grievance.
var TrackingSteps = []GrievanceStatus{
	GrievanceStatusSubmitted,
	GrievanceStatusUnderReview,
	GrievanceStatusInProgress,
	GrievanceStatusResolved,
}

// ProgressStep maps a status onto TrackingSteps. Rejected shares the final step.
func (s GrievanceStatus) ProgressStep() int {
	switch s {
	case GrievanceStatusUnderReview:
		return 1
	case GrievanceStatusInProgress:
		return 2
	case GrievanceStatusResolved, GrievanceStatusRejected:
		return 3
	default:
		return 0
	}
}

// GrievanceCategory is one of the fixed complaint categories.
type GrievanceCategory string

const (
	CategoryAcademic       GrievanceCategory = "Academic Issues"
	CategoryHostel         GrievanceCategory = "Hostel/Accommodation"
	CategoryHarassment     GrievanceCategory = "Harassment/Discrimination"
	CategoryFinancial      GrievanceCategory = "Fee/Financial Issues"
	CategoryInfrastructure GrievanceCategory = "Infrastructure Problems"
	CategoryAdministrative GrievanceCategory = "Administrative Issues"
	CategoryOther          GrievanceCategory = "Other"
)

// GrievanceCategories lists every category in display order.
var GrievanceCategories = []GrievanceCategory{
	CategoryAcademic,
	CategoryHostel,
	CategoryHarassment,
	CategoryFinancial,
	CategoryInfrastructure,
	CategoryAdministrative,
	CategoryOther,
}

// Valid reports whether c is one of the fixed categories.
func (c GrievanceCategory) Valid() bool {
	for _, category := range GrievanceCategories {
		if c == category {
			return true
		}
	}
	return false
}

// SystemActor authors the initial update of every grievance.
const SystemActor = "System"

// Attachment references an uploaded file by name only.
type Attachment struct {
	Name string `json:"name"`
}

// GrievanceUpdate is one immutable entry of a grievance's audit trail.
type GrievanceUpdate struct {
	ID        string          `json:"id"`
	Status    GrievanceStatus `json:"status"`
	Message   string          `json:"message"`
	UpdatedBy string          `json:"updatedBy"`
	Timestamp time.Time       `json:"timestamp"`
}

// Grievance is a filed complaint tracked through its lifecycle.
type Grievance struct {
	ID            string            `json:"id"`
	ReferenceCode string            `json:"referenceId"`
	InstitutionID string            `json:"institutionId"`
	Category      GrievanceCategory `json:"category"`
	Description   string            `json:"description"`
	IsAnonymous   bool              `json:"isAnonymous"`
	SubmittedBy   *string           `json:"submittedBy,omitempty"`
	Status        GrievanceStatus   `json:"status"`
	SubmittedAt   time.Time         `json:"submittedAt"`
	LastUpdated   time.Time         `json:"lastUpdated"`
	Updates       []GrievanceUpdate `json:"updates"`
	Attachments   []Attachment      `json:"attachments,omitempty"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (g *Grievance) Clone() *Grievance {
	if g == nil {
		return nil
	}
	clone := *g
	if g.SubmittedBy != nil {
		submitter := *g.SubmittedBy
		clone.SubmittedBy = &submitter
	}
	clone.Updates = append([]GrievanceUpdate(nil), g.Updates...)
	if g.Attachments != nil {
		clone.Attachments = append([]Attachment(nil), g.Attachments...)
	}
	return &clone
}

// DateRange restricts grievances by submission time.
type DateRange string

const (
	DateRangeAll        DateRange = ""
	DateRangeToday      DateRange = "today"
	DateRangeLast7Days  DateRange = "last7days"
	DateRangeLast30Days DateRange = "last30days"
)

// ParseDateRange accepts the canonical tokens plus the legacy week/month aliases.
func ParseDateRange(raw string) (DateRange, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return DateRangeAll, true
	case "today":
		return DateRangeToday, true
	case "last7days", "week":
		return DateRangeLast7Days, true
	case "last30days", "month":
		return DateRangeLast30Days, true
	default:
		return "", false
	}
}

// GrievanceFilter holds conjunctive filter criteria. Zero values match everything.
type GrievanceFilter struct {
	Status    GrievanceStatus
	Category  GrievanceCategory
	DateRange DateRange
}

// GrievanceStats summarises a filtered set of grievances. Rejected grievances
// count toward Total only.
type GrievanceStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
}
