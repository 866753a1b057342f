// Package access holds the role-based mutation matrix: which staff role may
// create, update or delete which resource. Reads are open to every
// authenticated role; list narrowing (Cashier order scoping) lives with the
// order service, not here.
package access

// Role is a staff account's privilege class.
type Role string

const (
	RoleSuperAdmin Role = "Super Admin"
	RoleAdmin      Role = "Admin"
	RoleCashier    Role = "Cashier"
)

// Roles lists every valid role, highest privilege first.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleCashier}

// IsValidRole reports whether s names a known role.
func IsValidRole(s string) bool {
	for _, r := range Roles {
		if Role(s) == r {
			return true
		}
	}
	return false
}

type Resource string

const (
	ResourceAdmin    Resource = "admin"
	ResourceTable    Resource = "table"
	ResourceCategory Resource = "category"
	ResourceProduct  Resource = "product"
	ResourceOrder    Resource = "order"
)

type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// matrix is the declarative allowlist. A missing entry means deny.
var matrix = map[Resource]map[Operation][]Role{
	ResourceTable: {
		OpCreate: {RoleSuperAdmin},
		OpUpdate: {RoleSuperAdmin},
		OpDelete: {RoleSuperAdmin},
	},
	ResourceCategory: {
		OpCreate: {RoleSuperAdmin},
		OpUpdate: {RoleSuperAdmin},
		OpDelete: {RoleSuperAdmin},
	},
	ResourceProduct: {
		OpCreate: {RoleSuperAdmin},
		OpUpdate: {RoleSuperAdmin},
		OpDelete: {RoleSuperAdmin},
	},
	ResourceOrder: {
		OpCreate: {RoleSuperAdmin, RoleAdmin, RoleCashier},
		OpUpdate: {RoleSuperAdmin, RoleAdmin},
		OpDelete: {RoleSuperAdmin},
	},
	// Admin accounts: any role may register, update or delete by id.
	// Self-service (the /me routes) bypasses the matrix entirely.
	ResourceAdmin: {
		OpCreate: {RoleSuperAdmin, RoleAdmin, RoleCashier},
		OpUpdate: {RoleSuperAdmin, RoleAdmin, RoleCashier},
		OpDelete: {RoleSuperAdmin, RoleAdmin, RoleCashier},
	},
}

// Allowed reports whether role may perform op on resource.
func Allowed(resource Resource, op Operation, role Role) bool {
	ops, ok := matrix[resource]
	if !ok {
		return false
	}
	for _, r := range ops[op] {
		if r == role {
			return true
		}
	}
	return false
}
