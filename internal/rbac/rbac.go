// Package rbac decides what a role may do. Every authorization decision in
// the application goes through HasPermission or Can; handlers never compare
// role strings themselves.
package rbac

// Roles
const (
	RoleSuperAdmin          = "super_admin"
	RoleAdmin               = "admin"
	RoleMember              = "member"
	RoleFinance             = "finance"
	RoleStudent             = "student"
	RoleElectoralCommission = "electoral_commission"
)

// Actions
const (
	ActionCreate   = "create"
	ActionRead     = "read"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionWithdraw = "withdraw"
)

// Resources
const (
	ResourceEvents     = "events"
	ResourceNews       = "news"
	ResourceDocuments  = "documents"
	ResourceGallery    = "gallery"
	ResourceElections  = "elections"
	ResourceCandidates = "candidates"
	ResourceVotes      = "votes"
	ResourceResults    = "results"
	ResourceMinutes    = "minutes"
	ResourceReports    = "reports"
	ResourceBudget     = "budget"
	ResourceFeedback   = "feedback"
	ResourceUsers      = "users"
	ResourceFinance    = "finance"
	ResourceSettings   = "settings"
	ResourceSecurity   = "security"
)

type pair struct {
	action   string
	resource string
}

// memberResources is the fixed allow-list of content a council member manages.
// Members never touch users, finance, settings, or the security subsystem.
var memberResources = map[string]bool{
	ResourceEvents:    true,
	ResourceNews:      true,
	ResourceDocuments: true,
	ResourceGallery:   true,
	ResourceElections: true,
	ResourceMinutes:   true,
	ResourceReports:   true,
	ResourceBudget:    true,
	ResourceFeedback:  true,
}

var memberActions = map[string]bool{
	ActionCreate: true,
	ActionRead:   true,
	ActionUpdate: true,
}

// electionResources is the electoral commission's writable domain.
var electionResources = map[string]bool{
	ResourceElections:  true,
	ResourceCandidates: true,
	ResourceVotes:      true,
	ResourceResults:    true,
}

// commissionDenied lists resources the commission may not touch at all,
// regardless of action.
var commissionDenied = map[string]bool{
	ResourceUsers:    true,
	ResourceFinance:  true,
	ResourceSettings: true,
	ResourceSecurity: true,
}

var financeGrants = map[pair]bool{
	{ActionCreate, ResourceFinance}:  true,
	{ActionUpdate, ResourceFinance}:  true,
	{ActionCreate, ResourceBudget}:   true,
	{ActionUpdate, ResourceBudget}:   true,
	{ActionCreate, ResourceReports}:  true,
	{ActionCreate, ResourceFeedback}: true,
}

var studentGrants = map[pair]bool{
	{ActionCreate, ResourceFeedback}:   true,
	{ActionCreate, ResourceVotes}:      true,
	{ActionCreate, ResourceCandidates}: true,
}

// readableByAll is what any authenticated role may read. The security
// subsystem, settings, and user list stay admin-only even for reads.
var readableByAll = map[string]bool{
	ResourceEvents:     true,
	ResourceNews:       true,
	ResourceDocuments:  true,
	ResourceGallery:    true,
	ResourceElections:  true,
	ResourceCandidates: true,
	ResourceResults:    true,
	ResourceMinutes:    true,
	ResourceReports:    true,
	ResourceBudget:     true,
	ResourceFeedback:   true,
}

// HasPermission reports whether role may perform action on resource. Unknown
// roles, actions, and resources all deny.
func HasPermission(role, action, resource string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin:
		return true
	case RoleMember:
		if action == ActionRead {
			return readableByAll[resource]
		}
		return memberActions[action] && memberResources[resource]
	case RoleElectoralCommission:
		if commissionDenied[resource] {
			return false
		}
		if electionResources[resource] {
			return action == ActionCreate || action == ActionRead ||
				action == ActionUpdate || action == ActionDelete
		}
		return action == ActionRead && readableByAll[resource]
	case RoleFinance:
		if action == ActionRead {
			return readableByAll[resource]
		}
		return financeGrants[pair{action, resource}]
	case RoleStudent:
		if action == ActionRead {
			return readableByAll[resource]
		}
		return studentGrants[pair{action, resource}]
	default:
		return false
	}
}

// Can layers the ownership override on top of the role grants: the acting
// user may update or withdraw an entity they own even without the general
// grant. ownerID is zero when the entity has no owner.
func Can(role string, userID uint, action, resource string, ownerID uint) bool {
	if HasPermission(role, action, resource) {
		return true
	}
	if ownerID != 0 && userID == ownerID {
		return action == ActionUpdate || action == ActionWithdraw
	}
	return false
}

func IsAdmin(role string) bool {
	return role == RoleSuperAdmin || role == RoleAdmin
}

func IsMember(role string) bool {
	return role == RoleMember
}

// ShouldUseAdminInterface reports whether the role lands on the admin UI
// after login.
func ShouldUseAdminInterface(role string) bool {
	return IsAdmin(role)
}

// ValidRole reports whether role is one of the enumerated roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleMember, RoleFinance, RoleStudent, RoleElectoralCommission:
		return true
	}
	return false
}
