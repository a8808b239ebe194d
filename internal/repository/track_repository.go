package repository

import (
	"context"
	"fmt"

	"hms-be/internal/domain"
	"hms-be/pkg/database"
)

type PostgresTrackRepository struct {
	db *database.PostgresDB
}

func NewTrackRepository(db *database.PostgresDB) *PostgresTrackRepository {
	return &PostgresTrackRepository{db: db}
}

// ListActiveByEvent gets active tracks for an event ordered by sort order
func (r *PostgresTrackRepository) ListActiveByEvent(ctx context.Context, eventID string) ([]domain.Track, error) {
	query := `
		SELECT id, event_id, name, color, is_active, sort_order, created_at
		FROM tracks
		WHERE event_id = $1 AND is_active = true
		ORDER BY sort_order ASC, name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []domain.Track
	for rows.Next() {
		var track domain.Track
		err := rows.Scan(
			&track.ID,
			&track.EventID,
			&track.Name,
			&track.Color,
			&track.IsActive,
			&track.SortOrder,
			&track.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, track)
	}

	return tracks, rows.Err()
}
