package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminRolesPassEverything(t *testing.T) {
	resources := []string{
		ResourceEvents, ResourceNews, ResourceDocuments, ResourceGallery,
		ResourceElections, ResourceCandidates, ResourceVotes, ResourceResults,
		ResourceMinutes, ResourceReports, ResourceBudget, ResourceFeedback,
		ResourceUsers, ResourceFinance, ResourceSettings, ResourceSecurity,
	}
	actions := []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionWithdraw}

	for _, role := range []string{RoleSuperAdmin, RoleAdmin} {
		for _, resource := range resources {
			for _, action := range actions {
				assert.True(t, HasPermission(role, action, resource),
					"%s should be allowed %s on %s", role, action, resource)
			}
		}
	}
}

func TestUnknownRoleDenies(t *testing.T) {
	assert.False(t, HasPermission("janitor", ActionRead, ResourceEvents))
	assert.False(t, HasPermission("", ActionRead, ResourceEvents))
}

func TestUnknownResourceDenies(t *testing.T) {
	assert.False(t, HasPermission(RoleMember, ActionCreate, "spaceships"))
	assert.False(t, HasPermission(RoleStudent, ActionRead, "spaceships"))
}

func TestUnknownActionDenies(t *testing.T) {
	assert.False(t, HasPermission(RoleMember, "transmogrify", ResourceEvents))
}

func TestMemberAllowList(t *testing.T) {
	// Members manage content
	assert.True(t, HasPermission(RoleMember, ActionCreate, ResourceEvents))
	assert.True(t, HasPermission(RoleMember, ActionUpdate, ResourceNews))
	assert.True(t, HasPermission(RoleMember, ActionCreate, ResourceMinutes))
	assert.True(t, HasPermission(RoleMember, ActionUpdate, ResourceBudget))
	assert.True(t, HasPermission(RoleMember, ActionRead, ResourceReports))

	// But never users, settings, or the security subsystem
	assert.False(t, HasPermission(RoleMember, ActionCreate, ResourceUsers))
	assert.False(t, HasPermission(RoleMember, ActionUpdate, ResourceSettings))
	assert.False(t, HasPermission(RoleMember, ActionRead, ResourceSecurity))

	// And no deletes even on their own content types
	assert.False(t, HasPermission(RoleMember, ActionDelete, ResourceEvents))
}

func TestElectoralCommission(t *testing.T) {
	// Full control over the election domain
	for _, resource := range []string{ResourceElections, ResourceCandidates, ResourceVotes, ResourceResults} {
		assert.True(t, HasPermission(RoleElectoralCommission, ActionCreate, resource))
		assert.True(t, HasPermission(RoleElectoralCommission, ActionUpdate, resource))
		assert.True(t, HasPermission(RoleElectoralCommission, ActionDelete, resource))
	}

	// Read-only elsewhere
	assert.True(t, HasPermission(RoleElectoralCommission, ActionRead, ResourceNews))
	assert.False(t, HasPermission(RoleElectoralCommission, ActionCreate, ResourceNews))

	// Hard denials regardless of action
	for _, resource := range []string{ResourceUsers, ResourceFinance, ResourceSettings} {
		for _, action := range []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
			assert.False(t, HasPermission(RoleElectoralCommission, action, resource),
				"commission should be denied %s on %s", action, resource)
		}
	}
}

func TestFinanceRole(t *testing.T) {
	assert.True(t, HasPermission(RoleFinance, ActionUpdate, ResourceFinance))
	assert.True(t, HasPermission(RoleFinance, ActionCreate, ResourceBudget))
	assert.True(t, HasPermission(RoleFinance, ActionRead, ResourceEvents))
	assert.False(t, HasPermission(RoleFinance, ActionCreate, ResourceEvents))
	assert.False(t, HasPermission(RoleFinance, ActionUpdate, ResourceUsers))
}

func TestStudentRole(t *testing.T) {
	assert.True(t, HasPermission(RoleStudent, ActionRead, ResourceNews))
	assert.True(t, HasPermission(RoleStudent, ActionCreate, ResourceFeedback))
	assert.True(t, HasPermission(RoleStudent, ActionCreate, ResourceVotes))
	assert.False(t, HasPermission(RoleStudent, ActionCreate, ResourceNews))
	assert.False(t, HasPermission(RoleStudent, ActionUpdate, ResourceFeedback))
	assert.False(t, HasPermission(RoleStudent, ActionRead, ResourceSecurity))
}

func TestOwnershipOverride(t *testing.T) {
	const owner, stranger = uint(7), uint(8)

	// A student may withdraw their own candidacy without the role grant
	assert.True(t, Can(RoleStudent, owner, ActionWithdraw, ResourceCandidates, owner))
	assert.False(t, Can(RoleStudent, stranger, ActionWithdraw, ResourceCandidates, owner))

	// An organizer may update their own event
	assert.True(t, Can(RoleStudent, owner, ActionUpdate, ResourceEvents, owner))
	assert.False(t, Can(RoleStudent, stranger, ActionUpdate, ResourceEvents, owner))

	// Ownership never extends to delete
	assert.False(t, Can(RoleStudent, owner, ActionDelete, ResourceEvents, owner))

	// Role grant works regardless of ownership
	assert.True(t, Can(RoleAdmin, stranger, ActionUpdate, ResourceEvents, owner))

	// Zero owner means no override
	assert.False(t, Can(RoleStudent, 0, ActionUpdate, ResourceEvents, 0))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsAdmin(RoleSuperAdmin))
	assert.True(t, IsAdmin(RoleAdmin))
	assert.False(t, IsAdmin(RoleMember))

	assert.True(t, IsMember(RoleMember))
	assert.False(t, IsMember(RoleAdmin))

	assert.True(t, ShouldUseAdminInterface(RoleSuperAdmin))
	assert.True(t, ShouldUseAdminInterface(RoleAdmin))
	assert.False(t, ShouldUseAdminInterface(RoleElectoralCommission))
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleSuperAdmin, RoleAdmin, RoleMember, RoleFinance, RoleStudent, RoleElectoralCommission} {
		assert.True(t, ValidRole(role))
	}
	assert.False(t, ValidRole("owner"))
	assert.False(t, ValidRole(""))
}
