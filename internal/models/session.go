package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims carries the institution and role a visitor selected. It
// scopes what the API shows; it is not a credential.
type SessionClaims struct {
	InstitutionID   string `json:"institution_id"`
	InstitutionName string `json:"institution_name"`
	RoleID          string `json:"role_id"`
	RoleName        string `json:"role_name"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the selected role may use the administrative views.
func (c *SessionClaims) IsAdmin() bool {
	if c == nil {
		return false
	}
	for _, name := range AdminRoleNames {
		if c.RoleName == name {
			return true
		}
	}
	return false
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
