package repository

import (
	"context"
	"fmt"
	"time"

	"hms-be/internal/domain"
	"hms-be/pkg/database"

	"github.com/jackc/pgx/v5"
)

type PostgresEventRepository struct {
	db *database.PostgresDB
}

func NewEventRepository(db *database.PostgresDB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// GetByID gets an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var event domain.Event
	query := `
		SELECT id, organization_id, name, slug, description, status, current_phase,
		       starts_at, ends_at, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.OrganizationID,
		&event.Name,
		&event.Slug,
		&event.Description,
		&event.Status,
		&event.CurrentPhase,
		&event.StartsAt,
		&event.EndsAt,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &event, nil
}

// ListActiveIDs gets the IDs of all non-archived events
func (r *PostgresEventRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	query := `SELECT id FROM events WHERE status <> 'archived'`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active events: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan event id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// GetStats computes current counts for an event in one round trip
func (r *PostgresEventRepository) GetStats(ctx context.Context, eventID string) (*domain.EventStats, error) {
	stats := &domain.EventStats{EventID: eventID, SyncedAt: time.Now().UTC()}
	query := `
		SELECT
			(SELECT COUNT(*) FROM teams t WHERE t.event_id = $1 AND t.status IN ('active', 'forming', 'submitted')),
			(SELECT COUNT(*) FROM event_memberships m WHERE m.event_id = $1 AND m.role = 'JUDGE' AND m.status = 'APPROVED'),
			(SELECT COUNT(*) FROM assignments a WHERE a.event_id = $1),
			(SELECT COUNT(*) FROM assignments a WHERE a.event_id = $1 AND a.status = 'completed')
	`

	err := r.db.Pool.QueryRow(ctx, query, eventID).Scan(
		&stats.TeamCount,
		&stats.JudgeCount,
		&stats.AssignmentCount,
		&stats.CompletedCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get event stats: %w", err)
	}

	return stats, nil
}
