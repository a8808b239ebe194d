package domain

import (
	"time"
)

// Well-known platform role names. Organization and event roles are translated
// into these before permission lookup.
const (
	PlatformRoleOrgAdmin     = "organization-admin"
	PlatformRoleEventManager = "event-manager"
	PlatformRoleJudge        = "judge"
	PlatformRoleMentor       = "mentor"
	PlatformRoleExpert       = "expert"
	PlatformRoleParticipant  = "participant"
	PlatformRoleViewer       = "viewer"
)

// PlatformRole is a named role carrying permission codes
type PlatformRole struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// PlatformRoleAssignment grants a platform role to a user, optionally with
// an expiry. An assignment past its expiry contributes no permissions.
type PlatformRoleAssignment struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	RoleName  string     `json:"role_name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// PermissionContext narrows a permission check to an organization and/or
// event, and carries any permission codes already embedded in the caller's
// session token.
type PermissionContext struct {
	OrganizationID string
	EventID        string
	SessionPerms   []string
}
