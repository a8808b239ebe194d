package domain

import (
	"time"
)

// Event represents a hackathon or similar judged event owned by an organization
type Event struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"`
	CurrentPhase   int        `json:"current_phase"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Track is a thematic partition of an event that constrains which judges
// evaluate which teams
type Track struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// Team statuses. Only active, forming and submitted teams take part in
// judge distribution.
const (
	TeamStatusActive       = "active"
	TeamStatusForming      = "forming"
	TeamStatusSubmitted    = "submitted"
	TeamStatusDisqualified = "disqualified"
)

// Team represents a participating team within an event
type Team struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	TrackID   *string   `json:"track_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventStats is the periodic snapshot published by the stats sync service
type EventStats struct {
	EventID         string    `json:"event_id"`
	TeamCount       int       `json:"team_count"`
	JudgeCount      int       `json:"judge_count"`
	AssignmentCount int       `json:"assignment_count"`
	CompletedCount  int       `json:"completed_count"`
	SyncedAt        time.Time `json:"synced_at"`
}
