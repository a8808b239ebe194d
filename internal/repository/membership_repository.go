package repository

import (
	"context"
	"fmt"

	"hms-be/internal/domain"
	"hms-be/pkg/database"

	"github.com/jackc/pgx/v5"
)

type PostgresMembershipRepository struct {
	db *database.PostgresDB
}

func NewMembershipRepository(db *database.PostgresDB) *PostgresMembershipRepository {
	return &PostgresMembershipRepository{db: db}
}

// ListApprovedJudges gets approved JUDGE memberships for an event joined
// with user display fields
func (r *PostgresMembershipRepository) ListApprovedJudges(ctx context.Context, eventID string) ([]domain.Judge, error) {
	query := `
		SELECT m.id, m.user_id, u.first_name, u.last_name, u.email, m.track_id
		FROM event_memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.event_id = $1 AND m.role = 'JUDGE' AND m.status = 'APPROVED'
		ORDER BY m.created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list judges: %w", err)
	}
	defer rows.Close()

	var judges []domain.Judge
	for rows.Next() {
		var judge domain.Judge
		err := rows.Scan(
			&judge.MembershipID,
			&judge.UserID,
			&judge.FirstName,
			&judge.LastName,
			&judge.Email,
			&judge.TrackID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan judge: %w", err)
		}
		judges = append(judges, judge)
	}

	return judges, rows.Err()
}

// ListApprovedByUserAndEvent gets a user's approved memberships in an event
func (r *PostgresMembershipRepository) ListApprovedByUserAndEvent(ctx context.Context, userID, eventID string) ([]domain.EventMembership, error) {
	query := `
		SELECT id, event_id, user_id, role, status, track_id, permissions, created_at, updated_at
		FROM event_memberships
		WHERE user_id = $1 AND event_id = $2 AND status = 'APPROVED'
	`

	rows, err := r.db.Pool.Query(ctx, query, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []domain.EventMembership
	for rows.Next() {
		var m domain.EventMembership
		err := rows.Scan(
			&m.ID,
			&m.EventID,
			&m.UserID,
			&m.Role,
			&m.Status,
			&m.TrackID,
			&m.Permissions,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}

	return memberships, rows.Err()
}

// GetActiveOrgMembership gets a user's active organization membership
func (r *PostgresMembershipRepository) GetActiveOrgMembership(ctx context.Context, userID, orgID string) (*domain.OrgMembership, error) {
	var m domain.OrgMembership
	query := `
		SELECT id, organization_id, user_id, role, is_active, created_at
		FROM organization_members
		WHERE user_id = $1 AND organization_id = $2 AND is_active = true
	`

	err := r.db.Pool.QueryRow(ctx, query, userID, orgID).Scan(
		&m.ID,
		&m.OrganizationID,
		&m.UserID,
		&m.Role,
		&m.IsActive,
		&m.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization membership: %w", err)
	}

	return &m, nil
}

// UpdateStatus sets the approval status of an event membership
func (r *PostgresMembershipRepository) UpdateStatus(ctx context.Context, membershipID, status string) (*domain.EventMembership, error) {
	var m domain.EventMembership
	query := `
		UPDATE event_memberships
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, event_id, user_id, role, status, track_id, permissions, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query, membershipID, status).Scan(
		&m.ID,
		&m.EventID,
		&m.UserID,
		&m.Role,
		&m.Status,
		&m.TrackID,
		&m.Permissions,
		&m.CreatedAt,
		&m.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update membership status: %w", err)
	}

	return &m, nil
}
