package rbac

import (
	"strings"

	"ckmconsole/domain"
)

type MenuItem struct {
	Label    string
	Icon     string
	Path     string
	Resource string
	Roles    []domain.Role
}

// Allows reports whether r is in the item's role set.
func (m MenuItem) Allows(r domain.Role) bool {
	for _, allowed := range m.Roles {
		if allowed == r {
			return true
		}
	}
	return false
}

var menuItems = []MenuItem{
	{
		Label: "仪表板", Icon: "dashboard", Path: "/dashboard", Resource: ResourceDashboard,
		Roles: domain.Roles(),
	},
	{
		Label: "生产管理", Icon: "factory", Path: "/production", Resource: ResourceProduction,
		Roles: []domain.Role{domain.RoleAdmin, domain.RoleProductionManager, domain.RoleQualityInspector, domain.RoleInventoryManager},
	},
	{
		Label: "库存管理", Icon: "inventory", Path: "/inventory", Resource: ResourceInventory,
		Roles: []domain.Role{domain.RoleAdmin, domain.RoleProductionManager, domain.RoleQualityInspector, domain.RoleInventoryManager, domain.RoleSupplierRepresentative},
	},
	{
		Label: "质量追溯", Icon: "verified", Path: "/quality", Resource: ResourceQuality,
		Roles: []domain.Role{domain.RoleAdmin, domain.RoleProductionManager, domain.RoleQualityInspector, domain.RoleSupplierRepresentative},
	},
	{
		Label: "供应商管理", Icon: "local_shipping", Path: "/suppliers", Resource: ResourceSuppliers,
		Roles: []domain.Role{domain.RoleAdmin, domain.RoleProductionManager, domain.RoleQualityInspector, domain.RoleInventoryManager, domain.RoleSupplierRepresentative},
	},
	{
		Label: "数据报表", Icon: "assessment", Path: "/reports", Resource: ResourceReports,
		Roles: []domain.Role{domain.RoleAdmin, domain.RoleProductionManager, domain.RoleQualityInspector, domain.RoleInventoryManager, domain.RoleViewer},
	},
	{
		Label: "系统设置", Icon: "settings", Path: "/settings", Resource: ResourceSettings,
		Roles: []domain.Role{domain.RoleAdmin},
	},
}

// MenuItems returns the full navigation list in display order.
func MenuItems() []MenuItem {
	out := make([]MenuItem, len(menuItems))
	copy(out, menuItems)
	return out
}

// VisibleMenuItems returns the items whose role set contains role, keeping
// the master order.
func VisibleMenuItems(role domain.Role) []MenuItem {
	var out []MenuItem
	for _, item := range menuItems {
		if item.Allows(role) {
			out = append(out, item)
		}
	}
	return out
}

// ItemForPath finds the menu item owning a request path, matching on the
// first path segment.
func ItemForPath(path string) (MenuItem, bool) {
	for _, item := range menuItems {
		if path == item.Path || strings.HasPrefix(path, item.Path+"/") {
			return item, true
		}
	}
	return MenuItem{}, false
}
