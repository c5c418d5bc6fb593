// Package rbac holds the static role tables and the permission and menu
// rules the console evaluates before rendering an affordance.
//
// These checks only decide what the console shows. The backend enforces
// authorization on every request regardless.
package rbac

import "ckmconsole/domain"

// Resources the console gates.
const (
	ResourceDashboard  = "dashboard"
	ResourceProduction = "production"
	ResourceInventory  = "inventory"
	ResourceQuality    = "quality"
	ResourceSuppliers  = "suppliers"
	ResourceReports    = "reports"
	ResourceSettings   = "settings"
	ResourceUsers      = "users"
)

func grant(resource string, action domain.Action) domain.Permission {
	return domain.Permission{
		Name:     resource + ":" + string(action),
		Resource: resource,
		Action:   action,
	}
}

// RolePermissions is the grant set attached to each role's user record.
var RolePermissions = map[domain.Role][]domain.Permission{
	domain.RoleAdmin: {
		grant(domain.AnyResource, domain.ActionManage),
	},
	domain.RoleProductionManager: {
		grant(ResourceProduction, domain.ActionManage),
		grant(ResourceInventory, domain.ActionRead),
		grant(ResourceQuality, domain.ActionRead),
		grant(ResourceSuppliers, domain.ActionRead),
		grant(ResourceDashboard, domain.ActionRead),
		grant(ResourceReports, domain.ActionRead),
	},
	domain.RoleQualityInspector: {
		grant(ResourceQuality, domain.ActionManage),
		grant(ResourceProduction, domain.ActionRead),
		grant(ResourceInventory, domain.ActionRead),
		grant(ResourceSuppliers, domain.ActionRead),
		grant(ResourceDashboard, domain.ActionRead),
		grant(ResourceReports, domain.ActionRead),
	},
	domain.RoleInventoryManager: {
		grant(ResourceInventory, domain.ActionManage),
		grant(ResourceProduction, domain.ActionRead),
		grant(ResourceSuppliers, domain.ActionRead),
		grant(ResourceDashboard, domain.ActionRead),
		grant(ResourceReports, domain.ActionRead),
	},
	domain.RoleSupplierRepresentative: {
		grant(ResourceSuppliers, domain.ActionRead),
		grant(ResourceSuppliers, domain.ActionUpdate),
		grant(ResourceQuality, domain.ActionRead),
		grant(ResourceInventory, domain.ActionRead),
		grant(ResourceDashboard, domain.ActionRead),
	},
	domain.RoleViewer: {
		grant(ResourceDashboard, domain.ActionRead),
		grant(ResourceReports, domain.ActionRead),
	},
}

var RoleDisplayNames = map[domain.Role]string{
	domain.RoleAdmin:                  "系统管理员",
	domain.RoleProductionManager:      "生产主管",
	domain.RoleQualityInspector:       "质量检查员",
	domain.RoleInventoryManager:       "库存管理员",
	domain.RoleSupplierRepresentative: "供应商代表",
	domain.RoleViewer:                 "观察员",
}

var RoleDepartments = map[domain.Role]string{
	domain.RoleAdmin:                  "信息技术部",
	domain.RoleProductionManager:      "生产管理部",
	domain.RoleQualityInspector:       "质量控制部",
	domain.RoleInventoryManager:       "仓储物流部",
	domain.RoleSupplierRepresentative: "供应商管理部",
	domain.RoleViewer:                 "管理层",
}

// DisplayName returns the role's Chinese label, or the raw role for an
// unknown value.
func DisplayName(r domain.Role) string {
	if name, ok := RoleDisplayNames[r]; ok {
		return name
	}
	return string(r)
}

// PermissionsFor returns a copy of the role's grants.
func PermissionsFor(r domain.Role) []domain.Permission {
	src := RolePermissions[r]
	out := make([]domain.Permission, len(src))
	copy(out, src)
	return out
}

// HasPermission reports whether user may perform action on resource.
// ADMIN passes every check; a nil user passes none.
func HasPermission(user *domain.User, resource string, action domain.Action) bool {
	if user == nil {
		return false
	}
	if user.Role == domain.RoleAdmin {
		return true
	}
	for _, p := range user.Permissions {
		if p.Grants(resource, action) {
			return true
		}
	}
	return false
}
