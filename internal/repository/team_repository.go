package repository

import (
	"context"
	"fmt"

	"hms-be/internal/domain"
	"hms-be/pkg/database"
)

type PostgresTeamRepository struct {
	db *database.PostgresDB
}

func NewTeamRepository(db *database.PostgresDB) *PostgresTeamRepository {
	return &PostgresTeamRepository{db: db}
}

// ListByEvent gets all teams for an event
func (r *PostgresTeamRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Team, error) {
	query := `
		SELECT id, event_id, name, status, track_id, created_at, updated_at
		FROM teams
		WHERE event_id = $1
		ORDER BY name ASC
	`

	return r.queryTeams(ctx, query, eventID)
}

// ListAssignable gets teams eligible for judge distribution
func (r *PostgresTeamRepository) ListAssignable(ctx context.Context, eventID string) ([]domain.Team, error) {
	query := `
		SELECT id, event_id, name, status, track_id, created_at, updated_at
		FROM teams
		WHERE event_id = $1 AND status IN ('active', 'forming', 'submitted')
		ORDER BY name ASC
	`

	return r.queryTeams(ctx, query, eventID)
}

func (r *PostgresTeamRepository) queryTeams(ctx context.Context, query string, args ...interface{}) ([]domain.Team, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var team domain.Team
		err := rows.Scan(
			&team.ID,
			&team.EventID,
			&team.Name,
			&team.Status,
			&team.TrackID,
			&team.CreatedAt,
			&team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}
