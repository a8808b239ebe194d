package service

import (
	"context"
	"errors"
	"testing"

	"hms-be/internal/domain"
	"hms-be/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type fakeRoleRepo struct {
	userPerms map[string][]string
	rolePerms map[string][]string
	err       error
}

func (f *fakeRoleRepo) GetUserPlatformPermissions(ctx context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.userPerms[userID], nil
}

func (f *fakeRoleRepo) GetRolePermissions(ctx context.Context, roleName string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rolePerms[roleName], nil
}

func TestPermissionMatches(t *testing.T) {
	tests := []struct {
		granted   string
		requested string
		want      bool
	}{
		{granted: "events.read", requested: "events.read", want: true},
		{granted: "events.read", requested: "events.write", want: false},
		{granted: "*", requested: "anything.at.all", want: true},
		{granted: "events.*", requested: "events.phases.manage", want: true},
		{granted: "events.*", requested: "events.read", want: true},
		{granted: "events.*", requested: "organizations.read", want: false},
		// prefix test on the dotted path, not substring containment
		{granted: "events.*", requested: "eventsomething.read", want: false},
		{granted: "events.phases.*", requested: "events.phases.manage", want: true},
		{granted: "events.phases.*", requested: "events.read", want: false},
		{granted: "", requested: "events.read", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.granted+"_vs_"+tt.requested, func(t *testing.T) {
			assert.Equal(t, tt.want, permissionMatches(tt.granted, tt.requested))
		})
	}
}

func TestCanUserSessionFastPath(t *testing.T) {
	// No repository data at all: the session set alone decides
	svc := NewPermissionService(&fakeRoleRepo{}, &fakeMembershipRepo{}, logger.NewNop())

	pctx := domain.PermissionContext{SessionPerms: []string{"events.*"}}
	assert.True(t, svc.CanUser(context.Background(), "u1", "events.phases.manage", pctx))
	assert.False(t, svc.CanUser(context.Background(), "u1", "organizations.read", pctx))
}

func TestCanUserPlatformRoles(t *testing.T) {
	roles := &fakeRoleRepo{
		userPerms: map[string][]string{
			"u1": {"events.read", "events.judges.read"},
		},
	}
	svc := NewPermissionService(roles, &fakeMembershipRepo{}, logger.NewNop())

	assert.True(t, svc.CanUser(context.Background(), "u1", "events.judges.read", domain.PermissionContext{}))
	assert.False(t, svc.CanUser(context.Background(), "u1", "events.members.manage", domain.PermissionContext{}))
	assert.False(t, svc.CanUser(context.Background(), "u2", "events.read", domain.PermissionContext{}))
}

func TestCanUserOrgMembership(t *testing.T) {
	roles := &fakeRoleRepo{
		rolePerms: map[string][]string{
			domain.PlatformRoleOrgAdmin: {"events.*", "organizations.*"},
			domain.PlatformRoleViewer:   {"events.read"},
		},
	}

	t.Run("owner maps to organization-admin", func(t *testing.T) {
		memberships := &fakeMembershipRepo{
			orgMember: &domain.OrgMembership{Role: domain.OrgRoleOwner, OrganizationID: "org-1"},
		}
		svc := NewPermissionService(roles, memberships, logger.NewNop())

		pctx := domain.PermissionContext{OrganizationID: "org-1"}
		assert.True(t, svc.CanUser(context.Background(), "u1", "events.assignments.manage", pctx))
	})

	t.Run("member maps to viewer", func(t *testing.T) {
		memberships := &fakeMembershipRepo{
			orgMember: &domain.OrgMembership{Role: domain.OrgRoleMember, OrganizationID: "org-1"},
		}
		svc := NewPermissionService(roles, memberships, logger.NewNop())

		pctx := domain.PermissionContext{OrganizationID: "org-1"}
		assert.True(t, svc.CanUser(context.Background(), "u1", "events.read", pctx))
		assert.False(t, svc.CanUser(context.Background(), "u1", "events.members.manage", pctx))
	})

	t.Run("no org context skips org lookup", func(t *testing.T) {
		memberships := &fakeMembershipRepo{
			orgMember: &domain.OrgMembership{Role: domain.OrgRoleOwner, OrganizationID: "org-1"},
		}
		svc := NewPermissionService(roles, memberships, logger.NewNop())

		assert.False(t, svc.CanUser(context.Background(), "u1", "events.read", domain.PermissionContext{}))
	})
}

func TestCanUserEventMembership(t *testing.T) {
	roles := &fakeRoleRepo{
		rolePerms: map[string][]string{
			domain.PlatformRoleJudge: {"events.read", "events.judges.read", "events.chat.use"},
		},
	}

	t.Run("approved judge inherits judge role permissions", func(t *testing.T) {
		memberships := &fakeMembershipRepo{
			memberships: []domain.EventMembership{
				{Role: domain.EventRoleJudge, Status: domain.MembershipStatusApproved},
			},
		}
		svc := NewPermissionService(roles, memberships, logger.NewNop())

		pctx := domain.PermissionContext{EventID: "event-1"}
		assert.True(t, svc.CanUser(context.Background(), "u1", "events.judges.read", pctx))
		assert.False(t, svc.CanUser(context.Background(), "u1", "events.assignments.manage", pctx))
	})

	t.Run("ad-hoc membership codes contribute", func(t *testing.T) {
		memberships := &fakeMembershipRepo{
			memberships: []domain.EventMembership{
				{
					Role:        domain.EventRoleObserver,
					Status:      domain.MembershipStatusApproved,
					Permissions: []string{"events.assignments.manage"},
				},
			},
		}
		svc := NewPermissionService(&fakeRoleRepo{}, memberships, logger.NewNop())

		pctx := domain.PermissionContext{EventID: "event-1"}
		assert.True(t, svc.CanUser(context.Background(), "u1", "events.assignments.manage", pctx))
	})

	t.Run("unknown role contributes nothing but codes still apply", func(t *testing.T) {
		memberships := &fakeMembershipRepo{
			memberships: []domain.EventMembership{
				{Role: "GUEST", Status: domain.MembershipStatusApproved, Permissions: []string{"events.read"}},
			},
		}
		svc := NewPermissionService(&fakeRoleRepo{}, memberships, logger.NewNop())

		pctx := domain.PermissionContext{EventID: "event-1"}
		assert.True(t, svc.CanUser(context.Background(), "u1", "events.read", pctx))
		assert.False(t, svc.CanUser(context.Background(), "u1", "events.chat.use", pctx))
	})
}

func TestCanUserNeverErrors(t *testing.T) {
	// Every backing store failing still resolves, to false
	roles := &fakeRoleRepo{err: errors.New("db down")}
	memberships := &fakeMembershipRepo{err: errors.New("db down")}
	svc := NewPermissionService(roles, memberships, logger.NewNop())

	pctx := domain.PermissionContext{OrganizationID: "org-1", EventID: "event-1"}
	assert.False(t, svc.CanUser(context.Background(), "u1", "events.read", pctx))

	// The session fast path still works when the stores are down
	pctx.SessionPerms = []string{"events.read"}
	assert.True(t, svc.CanUser(context.Background(), "u1", "events.read", pctx))
}
