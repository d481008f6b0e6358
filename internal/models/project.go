package models

import "strings"

type Project struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	OwnerID     string  `json:"ownerId"`
}

// ProjectMember is a membership row. The project owner may have no row at
// all and still holds full owner privileges.
type ProjectMember struct {
	ProjectID int64
	UserID    string
	Role      string
}

// IsManagerRole reports whether the role label grants the manager
// privilege. The label is a free string compared case-insensitively.
func IsManagerRole(role string) bool {
	return strings.EqualFold(role, "Manager")
}

// MemberProfile is a membership joined with the user record, as rendered on
// the project details surface.
type MemberProfile struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	Email       *string `json:"email"`
	Role        string  `json:"role"`
	IsOwner     bool    `json:"isOwner"`
	HourlyRate  float64 `json:"hourlyRate"`
}

func (m MemberProfile) IsManager() bool {
	return IsManagerRole(m.Role)
}
