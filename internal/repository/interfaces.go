package repository

import (
	"context"
	"errors"

	"hms-be/internal/domain"
)

// ErrCompletedEvaluations is returned when assignments for a phase cannot be
// replaced or cleared because completed evaluations already exist.
var ErrCompletedEvaluations = errors.New("completed evaluations exist for this phase")

// EventRepository defines event data operations
type EventRepository interface {
	// GetByID retrieves an event by ID, or nil when not found
	GetByID(ctx context.Context, id string) (*domain.Event, error)

	// ListActiveIDs retrieves the IDs of all non-archived events
	ListActiveIDs(ctx context.Context) ([]string, error)

	// GetStats computes current team/judge/assignment counts for an event
	GetStats(ctx context.Context, eventID string) (*domain.EventStats, error)
}

// TrackRepository defines track data operations
type TrackRepository interface {
	// ListActiveByEvent retrieves active tracks for an event ordered by sort order
	ListActiveByEvent(ctx context.Context, eventID string) ([]domain.Track, error)
}

// TeamRepository defines team data operations
type TeamRepository interface {
	// ListByEvent retrieves all teams for an event
	ListByEvent(ctx context.Context, eventID string) ([]domain.Team, error)

	// ListAssignable retrieves teams eligible for judge distribution
	// (status active, forming or submitted)
	ListAssignable(ctx context.Context, eventID string) ([]domain.Team, error)
}

// MembershipRepository defines event and organization membership operations
type MembershipRepository interface {
	// ListApprovedJudges retrieves approved JUDGE memberships for an event,
	// joined with user display fields
	ListApprovedJudges(ctx context.Context, eventID string) ([]domain.Judge, error)

	// ListApprovedByUserAndEvent retrieves a user's approved memberships in an event
	ListApprovedByUserAndEvent(ctx context.Context, userID, eventID string) ([]domain.EventMembership, error)

	// GetActiveOrgMembership retrieves a user's active organization membership,
	// or nil when none exists
	GetActiveOrgMembership(ctx context.Context, userID, orgID string) (*domain.OrgMembership, error)

	// UpdateStatus sets the approval status of an event membership
	UpdateStatus(ctx context.Context, membershipID, status string) (*domain.EventMembership, error)
}

// AssignmentRepository defines judge-team assignment operations
type AssignmentRepository interface {
	// HasCompleted reports whether any completed assignment exists for the phase
	HasCompleted(ctx context.Context, eventID string, phaseID int) (bool, error)

	// ReplaceForPhase atomically deletes the phase's assignments and inserts
	// the given ones. Returns ErrCompletedEvaluations without mutating when
	// completed evaluations exist. The returned count is rows actually created.
	ReplaceForPhase(ctx context.Context, eventID string, phaseID int, assignments []domain.Assignment) (int, error)

	// ClearForPhase deletes the phase's assignments, guarded by the same
	// completed-evaluation check as ReplaceForPhase
	ClearForPhase(ctx context.Context, eventID string, phaseID int) (int64, error)

	// ListForPhase retrieves persisted assignments for a phase, optionally
	// filtered by judge membership
	ListForPhase(ctx context.Context, eventID string, phaseID int, judgeMembershipID string) ([]domain.Assignment, error)
}

// RoleRepository defines platform role and permission operations
type RoleRepository interface {
	// GetUserPlatformPermissions retrieves the union of permission codes from
	// the user's unexpired platform role assignments
	GetUserPlatformPermissions(ctx context.Context, userID string) ([]string, error)

	// GetRolePermissions retrieves the permission codes of a named platform
	// role, or an empty slice when the role does not exist
	GetRolePermissions(ctx context.Context, roleName string) ([]string, error)
}
