package service

import (
	"context"
	"strings"

	"hms-be/internal/domain"
	"hms-be/internal/repository"
	"hms-be/pkg/logger"
)

// Organization role → platform role translation table
var orgRoleToPlatformRole = map[string]string{
	domain.OrgRoleOwner:          domain.PlatformRoleOrgAdmin,
	domain.OrgRoleAdmin:          domain.PlatformRoleOrgAdmin,
	domain.OrgRoleDepartmentHead: domain.PlatformRoleEventManager,
	domain.OrgRoleCoordinator:    domain.PlatformRoleEventManager,
	domain.OrgRoleMember:         domain.PlatformRoleViewer,
}

// Event role → platform role translation table
var eventRoleToPlatformRole = map[string]string{
	domain.EventRoleOrganizer:   domain.PlatformRoleEventManager,
	domain.EventRoleSupervisor:  domain.PlatformRoleEventManager,
	domain.EventRoleCoordinator: domain.PlatformRoleEventManager,
	domain.EventRoleJudge:       domain.PlatformRoleJudge,
	domain.EventRoleMentor:      domain.PlatformRoleMentor,
	domain.EventRoleExpert:      domain.PlatformRoleExpert,
	domain.EventRoleParticipant: domain.PlatformRoleParticipant,
	domain.EventRoleObserver:    domain.PlatformRoleViewer,
}

// PermissionService resolves whether a user holds a permission code by
// unioning three independently fetched sources: platform roles, organization
// membership and event memberships. It never returns an error; missing data
// simply contributes no permissions.
type PermissionService struct {
	roles       repository.RoleRepository
	memberships repository.MembershipRepository
	log         *logger.Logger
}

// NewPermissionService creates a new permission service
func NewPermissionService(roles repository.RoleRepository, memberships repository.MembershipRepository, log *logger.Logger) *PermissionService {
	return &PermissionService{
		roles:       roles,
		memberships: memberships,
		log:         log,
	}
}

// CanUser reports whether the user holds the permission code in the given
// context. The session-supplied set is checked first so accounts without
// persisted role rows (bootstrap/dev accounts) remain authorizable.
func (s *PermissionService) CanUser(ctx context.Context, userID, code string, pctx domain.PermissionContext) bool {
	// 1. Session fast path
	if anyPermissionMatches(pctx.SessionPerms, code) {
		return true
	}

	// 2. Platform roles
	platformPerms, err := s.roles.GetUserPlatformPermissions(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("Failed to fetch platform permissions")
	}
	if anyPermissionMatches(platformPerms, code) {
		return true
	}

	// 3. Organization membership, translated to a platform role
	if pctx.OrganizationID != "" {
		if anyPermissionMatches(s.orgPermissions(ctx, userID, pctx.OrganizationID), code) {
			return true
		}
	}

	// 4. Event memberships, translated to platform roles, plus ad-hoc
	// membership codes
	if pctx.EventID != "" {
		if anyPermissionMatches(s.eventPermissions(ctx, userID, pctx.EventID), code) {
			return true
		}
	}

	return false
}

// orgPermissions resolves the permission codes contributed by the user's
// active membership in the organization
func (s *PermissionService) orgPermissions(ctx context.Context, userID, orgID string) []string {
	m, err := s.memberships.GetActiveOrgMembership(ctx, userID, orgID)
	if err != nil {
		s.log.WithError(err).WithField("org_id", orgID).Warn("Failed to fetch organization membership")
		return nil
	}
	if m == nil {
		return nil
	}

	roleName, ok := orgRoleToPlatformRole[m.Role]
	if !ok {
		return nil
	}

	perms, err := s.roles.GetRolePermissions(ctx, roleName)
	if err != nil {
		s.log.WithError(err).WithField("role", roleName).Warn("Failed to fetch role permissions")
		return nil
	}
	return perms
}

// eventPermissions resolves the union of permission codes contributed by all
// of the user's approved memberships in the event
func (s *PermissionService) eventPermissions(ctx context.Context, userID, eventID string) []string {
	memberships, err := s.memberships.ListApprovedByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		s.log.WithError(err).WithField("event_id", eventID).Warn("Failed to fetch event memberships")
		return nil
	}

	var perms []string
	for _, m := range memberships {
		if roleName, ok := eventRoleToPlatformRole[m.Role]; ok {
			rolePerms, err := s.roles.GetRolePermissions(ctx, roleName)
			if err != nil {
				s.log.WithError(err).WithField("role", roleName).Warn("Failed to fetch role permissions")
			} else {
				perms = append(perms, rolePerms...)
			}
		}
		perms = append(perms, m.Permissions...)
	}
	return perms
}

// anyPermissionMatches reports whether any granted code matches or subsumes
// the requested one
func anyPermissionMatches(granted []string, requested string) bool {
	for _, g := range granted {
		if permissionMatches(g, requested) {
			return true
		}
	}
	return false
}

// permissionMatches tests a single granted code against the requested one.
// Codes are dot-delimited paths; "module.*" subsumes every code under the
// module and "*" subsumes everything. This is a prefix test, not substring
// containment.
func permissionMatches(granted, requested string) bool {
	if granted == requested {
		return true
	}
	if granted == "*" {
		return true
	}
	if strings.HasSuffix(granted, ".*") {
		return strings.HasPrefix(requested, granted[:len(granted)-1])
	}
	return false
}
