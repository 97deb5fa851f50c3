// Package authz defines the HRMS roles and policies and evaluates them with casbin.
package authz

// Role is a user's role. It is stored on the user and carried in the token.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleEmployer Role = "Employer"
	RoleEmployee Role = "Employee"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleEmployer, RoleEmployee}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployer, RoleEmployee:
		return true
	}
	return false
}

// Policy names a set of roles allowed to reach a route.
type Policy string

const (
	PolicyAdminOnly       Policy = "AdminOnly"
	PolicyEmployerOrAdmin Policy = "EmployerOrAdmin"
	PolicyAllRoles        Policy = "AllRoles"
)

// DefaultGrants maps each policy to the roles it admits.
var DefaultGrants = map[Policy][]Role{
	PolicyAdminOnly:       {RoleAdmin},
	PolicyEmployerOrAdmin: {RoleAdmin, RoleEmployer},
	PolicyAllRoles:        {RoleAdmin, RoleEmployer, RoleEmployee},
}
