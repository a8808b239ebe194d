package domain

import (
	"time"
)

// Event membership roles
const (
	EventRoleOrganizer   = "ORGANIZER"
	EventRoleSupervisor  = "SUPERVISOR"
	EventRoleCoordinator = "COORDINATOR"
	EventRoleJudge       = "JUDGE"
	EventRoleMentor      = "MENTOR"
	EventRoleExpert      = "EXPERT"
	EventRoleParticipant = "PARTICIPANT"
	EventRoleObserver    = "OBSERVER"
)

// Organization membership roles
const (
	OrgRoleOwner          = "OWNER"
	OrgRoleAdmin          = "ADMIN"
	OrgRoleDepartmentHead = "DEPARTMENT_HEAD"
	OrgRoleCoordinator    = "COORDINATOR"
	OrgRoleMember         = "MEMBER"
)

// Membership approval statuses
const (
	MembershipStatusPending  = "PENDING"
	MembershipStatusApproved = "APPROVED"
	MembershipStatusRejected = "REJECTED"
)

// EventMembership links a user to an event with a role and approval status.
// A user may hold several memberships in the same event with different roles.
type EventMembership struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	UserID      string    `json:"user_id"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	TrackID     *string   `json:"track_id,omitempty"`
	Permissions []string  `json:"permissions,omitempty"` // ad-hoc codes granted directly on the membership
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrgMembership links a user to an organization
type OrgMembership struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Judge is an approved JUDGE event membership joined with the user's
// display fields, as consumed by the distribution engine
type Judge struct {
	MembershipID string  `json:"membership_id"`
	UserID       string  `json:"user_id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	TrackID      *string `json:"track_id,omitempty"`
}

// DisplayName returns the judge's human-readable name, falling back to email
func (j Judge) DisplayName() string {
	switch {
	case j.FirstName != "" && j.LastName != "":
		return j.FirstName + " " + j.LastName
	case j.FirstName != "":
		return j.FirstName
	default:
		return j.Email
	}
}

// MembershipStatusRequest is the PATCH body for approving or rejecting a membership
type MembershipStatusRequest struct {
	Status string `json:"status"`
}
