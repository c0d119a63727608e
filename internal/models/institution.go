package models

// Institution is immutable reference data a grievance belongs to.
type Institution struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Role is immutable reference data describing who is using the system.
type Role struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Role names with access to the administrative views.
const (
	RoleNameAdmin            = "Admin"
	RoleNameGrievanceOfficer = "Grievance Officer"
	RoleNameStudent          = "Student"
)

// AdminRoleNames lists the roles allowed to review and update grievances.
var AdminRoleNames = []string{RoleNameAdmin, RoleNameGrievanceOfficer}
