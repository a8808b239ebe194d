package repository

import (
	"context"
	"fmt"
	"hash/fnv"

	"hms-be/internal/domain"
	"hms-be/pkg/database"

	"github.com/jackc/pgx/v5"
)

type PostgresAssignmentRepository struct {
	db *database.PostgresDB
}

func NewAssignmentRepository(db *database.PostgresDB) *PostgresAssignmentRepository {
	return &PostgresAssignmentRepository{db: db}
}

// HasCompleted reports whether any completed assignment exists for the phase
func (r *PostgresAssignmentRepository) HasCompleted(ctx context.Context, eventID string, phaseID int) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM assignments
			WHERE event_id = $1 AND phase_id = $2 AND status = 'completed'
		)
	`

	err := r.db.Pool.QueryRow(ctx, query, eventID, phaseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check completed assignments: %w", err)
	}

	return exists, nil
}

// phaseLockKey derives the advisory lock key for one (event, phase) pair.
// Writers on the same pair must contend on the same key.
func phaseLockKey(eventID string, phaseID int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d", eventID, phaseID)
	return int64(h.Sum64())
}

// lockPhaseTx takes the transaction-scoped advisory lock for the phase. A
// plain READ COMMITTED transaction is not enough here: two concurrent
// replacements would each pass the completed check, each DELETE would miss
// the other's uncommitted inserts, and the final state would be the union of
// both runs. The lock serializes writers so check, delete and insert see a
// settled phase.
func lockPhaseTx(ctx context.Context, tx pgx.Tx, eventID string, phaseID int) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, phaseLockKey(eventID, phaseID)); err != nil {
		return fmt.Errorf("failed to lock phase: %w", err)
	}
	return nil
}

// ReplaceForPhase atomically replaces the phase's assignments. The completed
// check, delete and bulk insert run in one transaction under a per-phase
// advisory lock so concurrent commits on the same (event, phase) serialize
// at the store.
func (r *PostgresAssignmentRepository) ReplaceForPhase(ctx context.Context, eventID string, phaseID int, assignments []domain.Assignment) (int, error) {
	created := 0

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := lockPhaseTx(ctx, tx, eventID, phaseID); err != nil {
			return err
		}

		exists, err := hasCompletedTx(ctx, tx, eventID, phaseID)
		if err != nil {
			return err
		}
		if exists {
			return ErrCompletedEvaluations
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM assignments WHERE event_id = $1 AND phase_id = $2`,
			eventID, phaseID,
		); err != nil {
			return fmt.Errorf("failed to delete assignments: %w", err)
		}

		// ON CONFLICT DO NOTHING keeps re-insertion idempotent; uniqueness of
		// (event, phase, judge, team) is enforced by the store
		insert := `
			INSERT INTO assignments (id, event_id, phase_id, judge_membership_id, team_id, track_id, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (event_id, phase_id, judge_membership_id, team_id) DO NOTHING
		`

		for _, a := range assignments {
			tag, err := tx.Exec(ctx, insert,
				a.ID,
				a.EventID,
				a.PhaseID,
				a.JudgeMembershipID,
				a.TeamID,
				a.TrackID,
				a.Status,
			)
			if err != nil {
				return fmt.Errorf("failed to insert assignment: %w", err)
			}
			created += int(tag.RowsAffected())
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

// ClearForPhase deletes the phase's assignments unless completed evaluations
// exist. Takes the same per-phase lock as ReplaceForPhase so a clear cannot
// interleave with a replacement.
func (r *PostgresAssignmentRepository) ClearForPhase(ctx context.Context, eventID string, phaseID int) (int64, error) {
	var deleted int64

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := lockPhaseTx(ctx, tx, eventID, phaseID); err != nil {
			return err
		}

		exists, err := hasCompletedTx(ctx, tx, eventID, phaseID)
		if err != nil {
			return err
		}
		if exists {
			return ErrCompletedEvaluations
		}

		tag, err := tx.Exec(ctx,
			`DELETE FROM assignments WHERE event_id = $1 AND phase_id = $2`,
			eventID, phaseID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete assignments: %w", err)
		}
		deleted = tag.RowsAffected()

		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

// ListForPhase gets persisted assignments for a phase, optionally filtered
// by judge membership
func (r *PostgresAssignmentRepository) ListForPhase(ctx context.Context, eventID string, phaseID int, judgeMembershipID string) ([]domain.Assignment, error) {
	query := `
		SELECT id, event_id, phase_id, judge_membership_id, team_id, track_id, status, created_at
		FROM assignments
		WHERE event_id = $1 AND phase_id = $2
	`
	args := []interface{}{eventID, phaseID}

	if judgeMembershipID != "" {
		query += ` AND judge_membership_id = $3`
		args = append(args, judgeMembershipID)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		err := rows.Scan(
			&a.ID,
			&a.EventID,
			&a.PhaseID,
			&a.JudgeMembershipID,
			&a.TeamID,
			&a.TrackID,
			&a.Status,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

func hasCompletedTx(ctx context.Context, tx pgx.Tx, eventID string, phaseID int) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM assignments
			WHERE event_id = $1 AND phase_id = $2 AND status = 'completed'
		)`,
		eventID, phaseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check completed assignments: %w", err)
	}
	return exists, nil
}
