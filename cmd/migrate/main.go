package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	statements := []string{
		`DROP TABLE IF EXISTS assignments`,
		`DROP TABLE IF EXISTS event_memberships`,
		`DROP TABLE IF EXISTS teams`,
		`DROP TABLE IF EXISTS tracks`,
		`DROP TABLE IF EXISTS events`,
		`DROP TABLE IF EXISTS organization_members`,
		`DROP TABLE IF EXISTS organizations`,
		`DROP TABLE IF EXISTS user_platform_roles`,
		`DROP TABLE IF EXISTS platform_role_permissions`,
		`DROP TABLE IF EXISTS platform_roles`,
		`DROP TABLE IF EXISTS users`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS platform_roles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS platform_role_permissions (
			role_id UUID NOT NULL REFERENCES platform_roles(id) ON DELETE CASCADE,
			code TEXT NOT NULL,
			PRIMARY KEY (role_id, code)
		)`,
		`CREATE TABLE IF NOT EXISTS user_platform_roles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role_name TEXT NOT NULL REFERENCES platform_roles(name),
			expires_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS organizations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS organization_members (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (organization_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft',
			current_phase INT NOT NULL DEFAULT 1,
			starts_at TIMESTAMPTZ,
			ends_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS tracks (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT true,
			sort_order INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS teams (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'forming',
			track_id UUID REFERENCES tracks(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS event_memberships (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			track_id UUID REFERENCES tracks(id) ON DELETE SET NULL,
			permissions TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (event_id, user_id, role)
		)`,
		`CREATE TABLE IF NOT EXISTS assignments (
			id UUID PRIMARY KEY,
			event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			phase_id INT NOT NULL,
			judge_membership_id UUID NOT NULL REFERENCES event_memberships(id) ON DELETE CASCADE,
			team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
			track_id UUID REFERENCES tracks(id) ON DELETE SET NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (event_id, phase_id, judge_membership_id, team_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_event_phase ON assignments (event_id, phase_id)`,
		`CREATE INDEX IF NOT EXISTS idx_event_memberships_event_role ON event_memberships (event_id, role, status)`,
		`CREATE INDEX IF NOT EXISTS idx_teams_event_status ON teams (event_id, status)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec failed: %w", err)
		}
	}
	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	// Platform roles and their permission codes
	roles := map[string][]string{
		"organization-admin": {"events.*", "organizations.*", "users.read"},
		"event-manager":      {"events.read", "events.judges.read", "events.members.manage", "events.assignments.manage", "events.chat.use"},
		"judge":              {"events.read", "events.judges.read", "events.chat.use"},
		"mentor":             {"events.read", "events.chat.use"},
		"expert":             {"events.read", "events.chat.use"},
		"participant":        {"events.read", "events.chat.use"},
		"viewer":             {"events.read"},
	}

	for name, codes := range roles {
		var roleID string
		err := conn.QueryRow(ctx,
			`INSERT INTO platform_roles (name) VALUES ($1)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			name,
		).Scan(&roleID)
		if err != nil {
			return fmt.Errorf("seed role %q: %w", name, err)
		}

		for _, code := range codes {
			if _, err := conn.Exec(ctx,
				`INSERT INTO platform_role_permissions (role_id, code) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				roleID, code,
			); err != nil {
				return fmt.Errorf("seed permission %q: %w", code, err)
			}
		}
	}

	return nil
}
