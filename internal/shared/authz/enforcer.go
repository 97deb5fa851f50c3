package authz

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// modelText grants a role access to a policy when a (role, policy) rule exists.
const modelText = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj
`

// Enforcer answers whether a role satisfies a policy.
// The underlying casbin enforcer is safe for concurrent reads.
type Enforcer struct {
	enforcer *casbin.Enforcer
}

// NewEnforcer builds an in-memory enforcer loaded with grants.
func NewEnforcer(grants map[Policy][]Role) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to load model: %w", err)
	}
	enf, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}

	rules := make([][]string, 0)
	for policy, roles := range grants {
		for _, role := range roles {
			rules = append(rules, []string{string(role), string(policy)})
		}
	}
	if len(rules) > 0 {
		if _, err := enf.AddPolicies(rules); err != nil {
			return nil, fmt.Errorf("authz: failed to add policies: %w", err)
		}
	}
	return &Enforcer{enforcer: enf}, nil
}

// NewDefaultEnforcer builds an enforcer with DefaultGrants.
func NewDefaultEnforcer() (*Enforcer, error) {
	return NewEnforcer(DefaultGrants)
}

// Allowed reports whether role satisfies policy. Unknown roles are never allowed.
func (e *Enforcer) Allowed(role Role, policy Policy) (bool, error) {
	if !role.Valid() {
		return false, nil
	}
	ok, err := e.enforcer.Enforce(string(role), string(policy))
	if err != nil {
		return false, fmt.Errorf("authz: enforce failed: %w", err)
	}
	return ok, nil
}
