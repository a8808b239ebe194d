package repository

import (
	"context"
	"fmt"

	"hms-be/pkg/database"

	"github.com/jackc/pgx/v5"
)

type PostgresRoleRepository struct {
	db *database.PostgresDB
}

func NewRoleRepository(db *database.PostgresDB) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

// GetUserPlatformPermissions gets the union of permission codes from the
// user's unexpired platform role assignments
func (r *PostgresRoleRepository) GetUserPlatformPermissions(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT DISTINCT p.code
		FROM user_platform_roles ur
		JOIN platform_roles pr ON pr.name = ur.role_name
		JOIN platform_role_permissions p ON p.role_id = pr.id
		WHERE ur.user_id = $1
		  AND (ur.expires_at IS NULL OR ur.expires_at > NOW())
	`

	return r.queryCodes(ctx, query, userID)
}

// GetRolePermissions gets the permission codes of a named platform role
func (r *PostgresRoleRepository) GetRolePermissions(ctx context.Context, roleName string) ([]string, error) {
	query := `
		SELECT p.code
		FROM platform_roles pr
		JOIN platform_role_permissions p ON p.role_id = pr.id
		WHERE pr.name = $1
	`

	return r.queryCodes(ctx, query, roleName)
}

func (r *PostgresRoleRepository) queryCodes(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query permission codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan permission code: %w", err)
		}
		codes = append(codes, code)
	}

	return codes, rows.Err()
}
