package auth

import (
	"fmt"
	"sync"

	"github.com/ajit432/hospital-leave/internal/core/user"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Permission is an object/action pair checked against the role policy.
type Permission struct {
	Object string
	Action string
}

func (p Permission) String() string {
	return p.Object + ":" + p.Action
}

var (
	PermApplyLeave       = Permission{"leave", "apply"}
	PermReadOwnLeave     = Permission{"leave", "read_own"}
	PermReadDashboard    = Permission{"dashboard", "read"}
	PermReadAllLeave     = Permission{"leave", "read_all"}
	PermReviewLeave      = Permission{"leave", "review"}
	PermManageCategories = Permission{"category", "manage"}
	PermManageBalances   = Permission{"balance", "manage"}
	PermManageDoctors    = Permission{"doctor", "manage"}
	PermReadSummary      = Permission{"summary", "read"}
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// admin inherits every doctor permission through the g rule.
var (
	doctorPolicy = []Permission{PermApplyLeave, PermReadOwnLeave, PermReadDashboard}
	adminPolicy  = []Permission{
		PermReadAllLeave,
		PermReviewLeave,
		PermManageCategories,
		PermManageBalances,
		PermManageDoctors,
		PermReadSummary,
	}
)

type PermissionChecker interface {
	Allowed(role string, perm Permission) (bool, error)
}

// CasbinPermissionChecker evaluates the static role policy in memory.
type CasbinPermissionChecker struct {
	mu       sync.Mutex
	enforcer *casbin.Enforcer
}

func NewPermissionChecker() (*CasbinPermissionChecker, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	for _, p := range doctorPolicy {
		if _, err := e.AddPolicy(user.RoleDoctor.String(), p.Object, p.Action); err != nil {
			return nil, fmt.Errorf("add policy %s: %w", p, err)
		}
	}
	for _, p := range adminPolicy {
		if _, err := e.AddPolicy(user.RoleAdmin.String(), p.Object, p.Action); err != nil {
			return nil, fmt.Errorf("add policy %s: %w", p, err)
		}
	}
	if _, err := e.AddGroupingPolicy(user.RoleAdmin.String(), user.RoleDoctor.String()); err != nil {
		return nil, fmt.Errorf("add role inheritance: %w", err)
	}

	return &CasbinPermissionChecker{enforcer: e}, nil
}

func (c *CasbinPermissionChecker) Allowed(role string, perm Permission) (bool, error) {
	if role == "" {
		return false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enforcer.Enforce(role, perm.Object, perm.Action)
}
