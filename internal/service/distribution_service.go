package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"hms-be/internal/domain"
	"hms-be/internal/repository"
	"hms-be/pkg/errors"
	"hms-be/pkg/logger"

	"github.com/google/uuid"
)

// DistributionService produces randomized, load-balanced judge→team
// assignments for a phase of an event, optionally partitioned by track.
type DistributionService struct {
	tracks      repository.TrackRepository
	teams       repository.TeamRepository
	memberships repository.MembershipRepository
	assignments repository.AssignmentRepository
	log         *logger.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewDistributionService creates a new distribution service. A nil rnd falls
// back to a time-seeded source; tests inject a seeded one.
func NewDistributionService(
	tracks repository.TrackRepository,
	teams repository.TeamRepository,
	memberships repository.MembershipRepository,
	assignments repository.AssignmentRepository,
	log *logger.Logger,
	rnd *rand.Rand,
) *DistributionService {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &DistributionService{
		tracks:      tracks,
		teams:       teams,
		memberships: memberships,
		assignments: assignments,
		log:         log,
		rnd:         rnd,
	}
}

// Preview computes a distribution without persisting anything
func (s *DistributionService) Preview(ctx context.Context, eventID string, phaseID int) (*domain.DistributionResult, error) {
	return s.distribute(ctx, eventID, phaseID, false)
}

// Commit computes a distribution and replaces the phase's persisted
// assignments with it. Fails with a conflict when completed evaluations
// exist for the phase; in that case nothing is mutated.
func (s *DistributionService) Commit(ctx context.Context, eventID string, phaseID int) (*domain.DistributionResult, error) {
	return s.distribute(ctx, eventID, phaseID, true)
}

// Clear deletes the phase's assignments, blocked by the same
// completed-evaluation guard as Commit
func (s *DistributionService) Clear(ctx context.Context, eventID string, phaseID int) (int64, error) {
	if phaseID <= 0 {
		return 0, errors.NewValidationError("phase ID is required", nil)
	}

	deleted, err := s.assignments.ClearForPhase(ctx, eventID, phaseID)
	if err == repository.ErrCompletedEvaluations {
		return 0, errors.NewConflictError("cannot clear assignments: completed evaluations exist for this phase")
	}
	if err != nil {
		return 0, errors.NewInternalError("failed to clear assignments", err)
	}

	s.log.WithFields(map[string]interface{}{
		"event_id": eventID,
		"phase_id": phaseID,
		"deleted":  deleted,
	}).Info("Assignments cleared")

	return deleted, nil
}

func (s *DistributionService) distribute(ctx context.Context, eventID string, phaseID int, commit bool) (*domain.DistributionResult, error) {
	if phaseID <= 0 {
		return nil, errors.NewValidationError("phase ID is required", nil)
	}

	tracks, err := s.tracks.ListActiveByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load tracks", err)
	}

	judges, err := s.memberships.ListApprovedJudges(ctx, eventID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load judges", err)
	}

	teams, err := s.teams.ListAssignable(ctx, eventID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load teams", err)
	}

	result := &domain.DistributionResult{
		Distributions: []domain.TrackDistribution{},
		Warnings:      []string{},
	}

	if len(tracks) == 0 {
		// Single untracked pool. Empty pools are a warning, not an error.
		switch {
		case len(judges) == 0:
			result.Warnings = append(result.Warnings, "no approved judges for this event")
		case len(teams) == 0:
			result.Warnings = append(result.Warnings, "no assignable teams for this event")
		default:
			result.Distributions = append(result.Distributions, s.distributePool(nil, "", judges, teams))
		}
	} else {
		judgesByTrack := make(map[string][]domain.Judge)
		for _, j := range judges {
			if j.TrackID != nil {
				judgesByTrack[*j.TrackID] = append(judgesByTrack[*j.TrackID], j)
			}
		}

		teamsByTrack := make(map[string][]domain.Team)
		untracked := 0
		for _, t := range teams {
			if t.TrackID == nil {
				untracked++
				continue
			}
			teamsByTrack[*t.TrackID] = append(teamsByTrack[*t.TrackID], t)
		}

		for _, track := range tracks {
			trackJudges := judgesByTrack[track.ID]
			trackTeams := teamsByTrack[track.ID]

			if len(trackJudges) == 0 && len(trackTeams) == 0 {
				continue
			}
			if len(trackJudges) == 0 {
				result.Warnings = append(result.Warnings, fmt.Sprintf("track %q has no approved judges", track.Name))
				continue
			}
			if len(trackTeams) == 0 {
				result.Warnings = append(result.Warnings, fmt.Sprintf("track %q has no teams", track.Name))
				continue
			}

			trackID := track.ID
			result.Distributions = append(result.Distributions, s.distributePool(&trackID, track.Name, trackJudges, trackTeams))
		}

		if untracked > 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%d team(s) have no track assignment and were not distributed", untracked))
		}
	}

	if !commit {
		return result, nil
	}

	rows := s.buildAssignments(eventID, phaseID, result.Distributions)
	created, err := s.assignments.ReplaceForPhase(ctx, eventID, phaseID, rows)
	if err == repository.ErrCompletedEvaluations {
		return nil, errors.NewConflictError("cannot redistribute: completed evaluations exist for this phase")
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to persist assignments", err)
	}
	result.Created = created

	s.log.WithFields(map[string]interface{}{
		"event_id": eventID,
		"phase_id": phaseID,
		"created":  created,
		"warnings": len(result.Warnings),
	}).Info("Distribution committed")

	return result, nil
}

// distributePool shuffles the teams and deals them round-robin across the
// judges, so every judge ends up with floor(T/J) or ceil(T/J) teams and the
// assignment order carries no bias toward list order.
func (s *DistributionService) distributePool(trackID *string, trackName string, judges []domain.Judge, teams []domain.Team) domain.TrackDistribution {
	shuffled := make([]domain.Team, len(teams))
	copy(shuffled, teams)

	s.mu.Lock()
	s.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s.mu.Unlock()

	dist := domain.TrackDistribution{
		TrackID:       trackID,
		TrackName:     trackName,
		Judges:        make([]domain.JudgeRef, 0, len(judges)),
		Teams:         make([]domain.TeamRef, 0, len(teams)),
		Pairs:         make([]domain.AssignmentPair, 0, len(teams)),
		TeamsPerJudge: (len(teams) + len(judges) - 1) / len(judges),
	}

	for _, j := range judges {
		dist.Judges = append(dist.Judges, domain.JudgeRef{
			UserID:       j.UserID,
			MembershipID: j.MembershipID,
			Name:         j.DisplayName(),
		})
	}
	for _, t := range teams {
		dist.Teams = append(dist.Teams, domain.TeamRef{ID: t.ID, Name: t.Name})
	}

	for i, team := range shuffled {
		judge := judges[i%len(judges)]
		dist.Pairs = append(dist.Pairs, domain.AssignmentPair{
			JudgeMembershipID: judge.MembershipID,
			TeamID:            team.ID,
		})
	}

	return dist
}

// buildAssignments flattens distribution records into assignment rows
func (s *DistributionService) buildAssignments(eventID string, phaseID int, distributions []domain.TrackDistribution) []domain.Assignment {
	var rows []domain.Assignment
	for _, dist := range distributions {
		for _, pair := range dist.Pairs {
			rows = append(rows, domain.Assignment{
				ID:                uuid.New().String(),
				EventID:           eventID,
				PhaseID:           phaseID,
				JudgeMembershipID: pair.JudgeMembershipID,
				TeamID:            pair.TeamID,
				TrackID:           dist.TrackID,
				Status:            domain.AssignmentStatusPending,
			})
		}
	}
	return rows
}
