package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// 预置角色名
const (
	RoleReadonlyAuditor = "readonly_auditor"
	RoleStockKeeper     = "stock_keeper"
	RoleOrderManager    = "order_manager"
)

// BuiltinRoleSeeds 书店后台预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleReadonlyAuditor,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
		},
		{
			Role:     RoleStockKeeper,
			Inherits: []string{RoleReadonlyAuditor},
			Policies: []Policy{
				{Object: "/admin/books/:id/stock", Action: "PUT"},
				{Object: "/admin/books/:id/restock", Action: "POST"},
			},
		},
		{
			Role:     RoleOrderManager,
			Inherits: []string{RoleReadonlyAuditor},
			Policies: []Policy{
				{Object: "/admin/orders/:id/state", Action: "PATCH"},
			},
		},
	}
}

// BootstrapBuiltinRoles 将预置角色的继承关系与策略同步到 casbin_rule
// 表中多出的角色策略会被移除，可重复执行。
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role %s to %s failed: %w", role, parentRole, err)
			}
		}

		want := make(map[Policy]bool, len(seed.Policies))
		for _, policy := range seed.Policies {
			item := Policy{Subject: role, Object: NormalizeObject(policy.Object), Action: NormalizeAction(policy.Action)}
			if item.Action == "" {
				return fmt.Errorf("builtin policy action is required (role %s)", role)
			}
			want[item] = true
			if _, err := s.enforcer.AddPolicy(item.Subject, item.Object, item.Action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}

		existing, err := s.enforcer.GetFilteredPolicy(0, role)
		if err != nil {
			return fmt.Errorf("list role policies failed: %w", err)
		}
		for _, rule := range existing {
			if len(rule) < 3 || want[Policy{Subject: rule[0], Object: rule[1], Action: rule[2]}] {
				continue
			}
			if _, err := s.enforcer.RemovePolicy(rule[0], rule[1], rule[2]); err != nil {
				return fmt.Errorf("remove stale policy failed: %w", err)
			}
		}
	}
	return s.enforcer.BuildRoleLinks()
}
