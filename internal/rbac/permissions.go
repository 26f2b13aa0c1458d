package rbac

import "github.com/hrstack/onboarding-service/internal/domain"

// Capability names, granted wholesale to roles. The table below is the whole
// authorization policy; there is no per-user grant store.
const (
	CapUsersRead       = "users:read"
	CapUsersManage     = "users:manage"
	CapUsersAssignRole = "users:assign_role"

	CapChecklistsRead   = "checklists:read"
	CapChecklistsManage = "checklists:manage"
	CapChecklistsDelete = "checklists:delete"

	CapTemplatesRead    = "templates:read"
	CapTemplatesManage  = "templates:manage"
	CapTemplatesApprove = "templates:approve"
	CapTemplatesArchive = "templates:archive"

	CapAnalyticsRead = "analytics:read"
	CapSystemAdmin   = "system:admin"

	CapSessionsReadOwn   = "sessions:read_own"
	CapSessionsRevokeOwn = "sessions:revoke_own"
	CapSessionsManageAll = "sessions:manage_all"

	CapProfileReadOwn   = "profile:read_own"
	CapProfileUpdateOwn = "profile:update_own"
)

var employeeCapabilities = []string{
	CapTemplatesRead,
	CapChecklistsRead,
	CapProfileReadOwn,
	CapProfileUpdateOwn,
	CapSessionsReadOwn,
	CapSessionsRevokeOwn,
}

var hrManagerCapabilities = append([]string{
	CapUsersRead,
	CapUsersManage,
	CapUsersAssignRole,
	CapChecklistsManage,
	CapTemplatesManage,
	CapTemplatesApprove,
	CapTemplatesArchive,
	CapAnalyticsRead,
}, employeeCapabilities...)

// admin gets the union of everything plus the admin-only capabilities.
var adminCapabilities = append([]string{
	CapSystemAdmin,
	CapChecklistsDelete,
	CapSessionsManageAll,
}, hrManagerCapabilities...)

var permissionTable = map[domain.Role]map[string]bool{
	domain.RoleAdmin:     toSet(adminCapabilities),
	domain.RoleHRManager: toSet(hrManagerCapabilities),
	domain.RoleEmployee:  toSet(employeeCapabilities),
}

func toSet(caps []string) map[string]bool {
	set := make(map[string]bool, len(caps))
	for _, c := range caps {
		set[c] = true
	}
	return set
}

// HasPermission is a pure lookup; unknown roles hold nothing.
func HasPermission(role domain.Role, capability string) bool {
	return permissionTable[role][capability]
}

// AccessMode is a resource-level check used where a capability alone cannot
// express ownership or department scoping.
type AccessMode string

const (
	AccessPublic         AccessMode = "public"
	AccessAuthenticated  AccessMode = "authenticated"
	AccessOwnerOnly      AccessMode = "owner-only"
	AccessSameDepartment AccessMode = "same-department"
	AccessHRAndAbove     AccessMode = "hr-and-above"
	AccessAdminOnly      AccessMode = "admin-only"
)

// Resource is the minimal view of a record the access check needs.
type Resource struct {
	OwnerID    int64
	Department string
}

// CanAccessResource evaluates mode against the requesting user. A nil user
// means the request is unauthenticated; only public resources admit it.
func CanAccessResource(user *domain.User, resource Resource, mode AccessMode) bool {
	if mode == AccessPublic {
		return true
	}
	if user == nil {
		return false
	}
	switch mode {
	case AccessAuthenticated:
		return true
	case AccessOwnerOnly:
		return user.ID == resource.OwnerID
	case AccessSameDepartment:
		return user.Department != "" && user.Department == resource.Department
	case AccessHRAndAbove:
		return user.Role == domain.RoleHRManager || user.Role == domain.RoleAdmin
	case AccessAdminOnly:
		return user.Role == domain.RoleAdmin
	}
	return false
}

// IsRoleHigherOrEqual compares roles on the employee < hr_manager < admin
// order. Used only for role-assignment gating.
func IsRoleHigherOrEqual(a, b domain.Role) bool {
	return a.Valid() && b.Valid() && a.Level() >= b.Level()
}

// CanAssignRole enforces who may hand out which role: only admins mint
// admins; hr managers may assign hr_manager or employee; employees assign
// nothing.
func CanAssignRole(assigner, target domain.Role) bool {
	if !assigner.Valid() || !target.Valid() {
		return false
	}
	if target == domain.RoleAdmin {
		return assigner == domain.RoleAdmin
	}
	return assigner == domain.RoleAdmin || assigner == domain.RoleHRManager
}
