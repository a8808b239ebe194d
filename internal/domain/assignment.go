package domain

import (
	"time"
)

// Assignment evaluation statuses
const (
	AssignmentStatusPending   = "pending"
	AssignmentStatusCompleted = "completed"
)

// Assignment pairs a judge membership with a team for one phase of an event.
// Uniqueness of (event, phase, judge, team) is enforced by the store.
type Assignment struct {
	ID                string    `json:"id"`
	EventID           string    `json:"event_id"`
	PhaseID           int       `json:"phase_id"`
	JudgeMembershipID string    `json:"judge_membership_id"`
	TeamID            string    `json:"team_id"`
	TrackID           *string   `json:"track_id,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// JudgeRef is the judge roster entry inside a distribution record
type JudgeRef struct {
	UserID       string `json:"user_id"`
	MembershipID string `json:"membership_id"`
	Name         string `json:"name"`
}

// TeamRef is the team roster entry inside a distribution record
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AssignmentPair is one judge→team pairing produced by a distribution run
type AssignmentPair struct {
	JudgeMembershipID string `json:"judge_membership_id"`
	TeamID            string `json:"team_id"`
}

// TrackDistribution is the per-track (or untracked pool) result of a
// distribution run
type TrackDistribution struct {
	TrackID       *string          `json:"track_id"`
	TrackName     string           `json:"track_name"`
	Judges        []JudgeRef       `json:"judges"`
	Teams         []TeamRef        `json:"teams"`
	Pairs         []AssignmentPair `json:"assignments"`
	TeamsPerJudge int              `json:"teams_per_judge"`
}

// DistributionResult is the full outcome of a preview or commit run
type DistributionResult struct {
	Distributions []TrackDistribution `json:"distributions"`
	Warnings      []string            `json:"warnings"`
	Created       int                 `json:"created,omitempty"`
}

// DistributionRequest is the POST body for committing a distribution
type DistributionRequest struct {
	PhaseID int `json:"phase_id"`
}
