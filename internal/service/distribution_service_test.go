package service

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"hms-be/internal/domain"
	"hms-be/internal/repository"
	"hms-be/pkg/errors"
	"hms-be/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTrackRepo returns a fixed track list
type fakeTrackRepo struct {
	tracks []domain.Track
	err    error
}

func (f *fakeTrackRepo) ListActiveByEvent(ctx context.Context, eventID string) ([]domain.Track, error) {
	return f.tracks, f.err
}

type fakeTeamRepo struct {
	teams []domain.Team
	err   error
}

func (f *fakeTeamRepo) ListByEvent(ctx context.Context, eventID string) ([]domain.Team, error) {
	return f.teams, f.err
}

func (f *fakeTeamRepo) ListAssignable(ctx context.Context, eventID string) ([]domain.Team, error) {
	return f.teams, f.err
}

type fakeMembershipRepo struct {
	judges      []domain.Judge
	memberships []domain.EventMembership
	orgMember   *domain.OrgMembership
	err         error
}

func (f *fakeMembershipRepo) ListApprovedJudges(ctx context.Context, eventID string) ([]domain.Judge, error) {
	return f.judges, f.err
}

func (f *fakeMembershipRepo) ListApprovedByUserAndEvent(ctx context.Context, userID, eventID string) ([]domain.EventMembership, error) {
	return f.memberships, f.err
}

func (f *fakeMembershipRepo) GetActiveOrgMembership(ctx context.Context, userID, orgID string) (*domain.OrgMembership, error) {
	return f.orgMember, f.err
}

func (f *fakeMembershipRepo) UpdateStatus(ctx context.Context, membershipID, status string) (*domain.EventMembership, error) {
	return nil, f.err
}

// fakeAssignmentRepo records what a commit persists
type fakeAssignmentRepo struct {
	hasCompleted bool
	stored       []domain.Assignment
	replaceCalls int
}

func (f *fakeAssignmentRepo) HasCompleted(ctx context.Context, eventID string, phaseID int) (bool, error) {
	return f.hasCompleted, nil
}

func (f *fakeAssignmentRepo) ReplaceForPhase(ctx context.Context, eventID string, phaseID int, assignments []domain.Assignment) (int, error) {
	f.replaceCalls++
	if f.hasCompleted {
		return 0, repository.ErrCompletedEvaluations
	}
	f.stored = assignments
	return len(assignments), nil
}

func (f *fakeAssignmentRepo) ClearForPhase(ctx context.Context, eventID string, phaseID int) (int64, error) {
	if f.hasCompleted {
		return 0, repository.ErrCompletedEvaluations
	}
	deleted := int64(len(f.stored))
	f.stored = nil
	return deleted, nil
}

func (f *fakeAssignmentRepo) ListForPhase(ctx context.Context, eventID string, phaseID int, judgeMembershipID string) ([]domain.Assignment, error) {
	return f.stored, nil
}

func makeJudges(n int, trackID *string) []domain.Judge {
	judges := make([]domain.Judge, 0, n)
	for i := 0; i < n; i++ {
		judges = append(judges, domain.Judge{
			MembershipID: fmt.Sprintf("jm-%d", i),
			UserID:       fmt.Sprintf("user-%d", i),
			FirstName:    fmt.Sprintf("Judge%d", i),
			LastName:     "Test",
			Email:        fmt.Sprintf("judge%d@example.com", i),
			TrackID:      trackID,
		})
	}
	return judges
}

func makeTeams(n int, trackID *string) []domain.Team {
	teams := make([]domain.Team, 0, n)
	for i := 0; i < n; i++ {
		teams = append(teams, domain.Team{
			ID:      fmt.Sprintf("team-%d", i),
			Name:    fmt.Sprintf("Team %d", i),
			Status:  domain.TeamStatusActive,
			TrackID: trackID,
		})
	}
	return teams
}

func newTestService(tracks []domain.Track, judges []domain.Judge, teams []domain.Team, assignments *fakeAssignmentRepo, seed int64) *DistributionService {
	return NewDistributionService(
		&fakeTrackRepo{tracks: tracks},
		&fakeTeamRepo{teams: teams},
		&fakeMembershipRepo{judges: judges},
		assignments,
		logger.NewNop(),
		rand.New(rand.NewSource(seed)),
	)
}

func TestDistributeUntrackedBalance(t *testing.T) {
	tests := []struct {
		judges int
		teams  int
	}{
		{judges: 1, teams: 1},
		{judges: 1, teams: 9},
		{judges: 3, teams: 7},
		{judges: 4, teams: 4},
		{judges: 5, teams: 3},
		{judges: 7, teams: 23},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dj_%dt", tt.judges, tt.teams), func(t *testing.T) {
			svc := newTestService(nil, makeJudges(tt.judges, nil), makeTeams(tt.teams, nil), &fakeAssignmentRepo{}, 42)

			result, err := svc.Preview(context.Background(), "event-1", 1)
			require.NoError(t, err)
			require.Len(t, result.Distributions, 1)
			assert.Empty(t, result.Warnings)

			dist := result.Distributions[0]
			require.Len(t, dist.Pairs, tt.teams)

			// Every judge receives floor(T/J) or ceil(T/J) teams
			perJudge := make(map[string]int)
			for _, pair := range dist.Pairs {
				perJudge[pair.JudgeMembershipID]++
			}
			min, max := tt.teams, 0
			for _, n := range perJudge {
				if n < min {
					min = n
				}
				if n > max {
					max = n
				}
			}
			assert.LessOrEqual(t, max-min, 1, "per-judge counts must differ by at most 1")

			// Every team is assigned exactly once
			seenTeams := make(map[string]int)
			for _, pair := range dist.Pairs {
				seenTeams[pair.TeamID]++
			}
			assert.Len(t, seenTeams, tt.teams)
			for teamID, n := range seenTeams {
				assert.Equal(t, 1, n, "team %s assigned %d times", teamID, n)
			}

			// No duplicate (judge, team) pairs
			seenPairs := make(map[string]bool)
			for _, pair := range dist.Pairs {
				key := pair.JudgeMembershipID + "/" + pair.TeamID
				assert.False(t, seenPairs[key], "duplicate pair %s", key)
				seenPairs[key] = true
			}

			expectedPerJudge := (tt.teams + tt.judges - 1) / tt.judges
			assert.Equal(t, expectedPerJudge, dist.TeamsPerJudge)
		})
	}
}

func TestDistributeEmptyPools(t *testing.T) {
	t.Run("no judges", func(t *testing.T) {
		svc := newTestService(nil, nil, makeTeams(5, nil), &fakeAssignmentRepo{}, 1)

		result, err := svc.Preview(context.Background(), "event-1", 1)
		require.NoError(t, err)
		assert.Empty(t, result.Distributions)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "no approved judges")
	})

	t.Run("no teams", func(t *testing.T) {
		svc := newTestService(nil, makeJudges(3, nil), nil, &fakeAssignmentRepo{}, 1)

		result, err := svc.Preview(context.Background(), "event-1", 1)
		require.NoError(t, err)
		assert.Empty(t, result.Distributions)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "no assignable teams")
	})
}

func TestDistributeTracked(t *testing.T) {
	trackA := "track-a"
	trackB := "track-b"
	tracks := []domain.Track{
		{ID: trackA, Name: "Healthcare", IsActive: true, SortOrder: 1},
		{ID: trackB, Name: "Fintech", IsActive: true, SortOrder: 2},
	}

	judges := append(makeJudges(3, &trackA), domain.Judge{
		MembershipID: "jm-b0", UserID: "user-b0", FirstName: "Solo", LastName: "Judge",
		Email: "solo@example.com", TrackID: &trackB,
	})
	teams := makeTeams(7, &trackA)

	repo := &fakeAssignmentRepo{}
	svc := newTestService(tracks, judges, teams, repo, 7)

	result, err := svc.Commit(context.Background(), "event-1", 2)
	require.NoError(t, err)

	// Track A distributes all 7 teams across its 3 judges as {3,2,2}
	require.Len(t, result.Distributions, 1)
	dist := result.Distributions[0]
	assert.Equal(t, "Healthcare", dist.TrackName)
	require.Len(t, dist.Pairs, 7)

	perJudge := make(map[string]int)
	for _, pair := range dist.Pairs {
		perJudge[pair.JudgeMembershipID]++
	}
	counts := make([]int, 0, len(perJudge))
	for _, n := range perJudge {
		counts = append(counts, n)
	}
	assert.ElementsMatch(t, []int{3, 2, 2}, counts)

	// Track B contributes a warning and no assignments
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Fintech")
	assert.Contains(t, result.Warnings[0], "no teams")

	assert.Equal(t, 7, result.Created)
	assert.Len(t, repo.stored, 7)

	// Persisted rows carry the track
	for _, a := range repo.stored {
		require.NotNil(t, a.TrackID)
		assert.Equal(t, trackA, *a.TrackID)
		assert.Equal(t, domain.AssignmentStatusPending, a.Status)
	}
}

func TestDistributeTrackedUntrackedTeamsWarning(t *testing.T) {
	trackA := "track-a"
	tracks := []domain.Track{{ID: trackA, Name: "Main", IsActive: true}}

	teams := append(makeTeams(4, &trackA), makeTeams(3, nil)...)
	svc := newTestService(tracks, makeJudges(2, &trackA), teams, &fakeAssignmentRepo{}, 3)

	result, err := svc.Preview(context.Background(), "event-1", 1)
	require.NoError(t, err)

	require.Len(t, result.Distributions, 1)
	assert.Len(t, result.Distributions[0].Pairs, 4)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "3 team(s) have no track assignment")
}

func TestDistributeTrackWithoutJudges(t *testing.T) {
	trackA := "track-a"
	tracks := []domain.Track{{ID: trackA, Name: "Orphan", IsActive: true}}

	svc := newTestService(tracks, nil, makeTeams(2, &trackA), &fakeAssignmentRepo{}, 3)

	result, err := svc.Preview(context.Background(), "event-1", 1)
	require.NoError(t, err)
	assert.Empty(t, result.Distributions)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no approved judges")
}

func TestCommitBlockedByCompletedEvaluations(t *testing.T) {
	repo := &fakeAssignmentRepo{hasCompleted: true}
	svc := newTestService(nil, makeJudges(2, nil), makeTeams(4, nil), repo, 9)

	_, err := svc.Commit(context.Background(), "event-1", 1)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeConflict, appErr.Type)
	assert.Empty(t, repo.stored, "no assignments may be written on conflict")
}

func TestClearBlockedByCompletedEvaluations(t *testing.T) {
	repo := &fakeAssignmentRepo{hasCompleted: true}
	svc := newTestService(nil, nil, nil, repo, 9)

	_, err := svc.Clear(context.Background(), "event-1", 1)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeConflict, appErr.Type)
}

func TestDistributeMissingPhase(t *testing.T) {
	svc := newTestService(nil, makeJudges(1, nil), makeTeams(1, nil), &fakeAssignmentRepo{}, 9)

	_, err := svc.Preview(context.Background(), "event-1", 0)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
}

func TestCommitReplacesPreviousRun(t *testing.T) {
	repo := &fakeAssignmentRepo{}
	svc := newTestService(nil, makeJudges(3, nil), makeTeams(6, nil), repo, 11)

	first, err := svc.Commit(context.Background(), "event-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 6, first.Created)

	second, err := svc.Commit(context.Background(), "event-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 6, second.Created)
	assert.Equal(t, 2, repo.replaceCalls)

	// The stored set is the second run in full, with no duplicate pairs
	seen := make(map[string]bool)
	for _, a := range repo.stored {
		key := a.JudgeMembershipID + "/" + a.TeamID
		assert.False(t, seen[key])
		seen[key] = true
	}
	assert.Len(t, repo.stored, 6)
}

func TestShuffleUsesInjectedSource(t *testing.T) {
	// Two services with the same seed produce identical pairings; a
	// different seed is overwhelmingly likely to differ for 10 teams.
	judges := makeJudges(2, nil)
	teams := makeTeams(10, nil)

	a, err := newTestService(nil, judges, teams, &fakeAssignmentRepo{}, 5).Preview(context.Background(), "e", 1)
	require.NoError(t, err)
	b, err := newTestService(nil, judges, teams, &fakeAssignmentRepo{}, 5).Preview(context.Background(), "e", 1)
	require.NoError(t, err)

	assert.Equal(t, a.Distributions[0].Pairs, b.Distributions[0].Pairs)
}
