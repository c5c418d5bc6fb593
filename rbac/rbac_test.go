package rbac

import (
	"testing"

	"ckmconsole/domain"
)

func userWithRole(r domain.Role) *domain.User {
	return &domain.User{Username: "u", Role: r, Permissions: PermissionsFor(r)}
}

func TestTablesCoverEveryRole(t *testing.T) {
	for _, r := range domain.Roles() {
		if _, ok := RolePermissions[r]; !ok {
			t.Errorf("RolePermissions missing %s", r)
		}
		if _, ok := RoleDisplayNames[r]; !ok {
			t.Errorf("RoleDisplayNames missing %s", r)
		}
		if _, ok := RoleDepartments[r]; !ok {
			t.Errorf("RoleDepartments missing %s", r)
		}
	}
	if len(RolePermissions) != len(domain.Roles()) {
		t.Errorf("RolePermissions has %d entries, want %d", len(RolePermissions), len(domain.Roles()))
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role     domain.Role
		resource string
		action   domain.Action
		want     bool
	}{
		{domain.RoleAdmin, ResourceSettings, domain.ActionDelete, true},
		{domain.RoleAdmin, "anything", domain.ActionCreate, true},
		{domain.RoleProductionManager, ResourceProduction, domain.ActionDelete, true},
		{domain.RoleProductionManager, ResourceInventory, domain.ActionRead, true},
		{domain.RoleProductionManager, ResourceInventory, domain.ActionUpdate, false},
		{domain.RoleQualityInspector, ResourceQuality, domain.ActionUpdate, true},
		{domain.RoleQualityInspector, ResourceSuppliers, domain.ActionDelete, false},
		{domain.RoleInventoryManager, ResourceInventory, domain.ActionCreate, true},
		{domain.RoleInventoryManager, ResourceQuality, domain.ActionRead, false},
		{domain.RoleSupplierRepresentative, ResourceSuppliers, domain.ActionUpdate, true},
		{domain.RoleSupplierRepresentative, ResourceSuppliers, domain.ActionDelete, false},
		{domain.RoleViewer, ResourceDashboard, domain.ActionRead, true},
		{domain.RoleViewer, ResourceProduction, domain.ActionRead, false},
		{domain.RoleViewer, ResourceSettings, domain.ActionRead, false},
	}
	for _, tt := range tests {
		got := HasPermission(userWithRole(tt.role), tt.resource, tt.action)
		if got != tt.want {
			t.Errorf("HasPermission(%s, %s, %s) = %v, want %v", tt.role, tt.resource, tt.action, got, tt.want)
		}
	}
}

func TestHasPermissionNilUser(t *testing.T) {
	if HasPermission(nil, ResourceDashboard, domain.ActionRead) {
		t.Error("nil user should have no permissions")
	}
}

func TestAdminBypassesEmptyGrants(t *testing.T) {
	u := &domain.User{Role: domain.RoleAdmin}
	if !HasPermission(u, ResourceUsers, domain.ActionManage) {
		t.Error("ADMIN with no grants should still pass")
	}
}

func TestVisibleMenuItemsViewer(t *testing.T) {
	items := VisibleMenuItems(domain.RoleViewer)
	if len(items) != 2 {
		t.Fatalf("VIEWER sees %d items, want 2", len(items))
	}
	if items[0].Path != "/dashboard" || items[1].Path != "/reports" {
		t.Errorf("VIEWER items = %s, %s", items[0].Path, items[1].Path)
	}
}

func TestAdminMenuIsSuperset(t *testing.T) {
	admin := make(map[string]bool)
	for _, item := range VisibleMenuItems(domain.RoleAdmin) {
		admin[item.Path] = true
	}
	if len(admin) != len(MenuItems()) {
		t.Errorf("ADMIN sees %d items, want all %d", len(admin), len(MenuItems()))
	}
	for _, r := range domain.Roles() {
		for _, item := range VisibleMenuItems(r) {
			if !admin[item.Path] {
				t.Errorf("%s sees %s which ADMIN does not", r, item.Path)
			}
		}
	}
}

func TestVisibleItemsImplyRead(t *testing.T) {
	for _, r := range domain.Roles() {
		u := userWithRole(r)
		for _, item := range VisibleMenuItems(r) {
			if !HasPermission(u, item.Resource, domain.ActionRead) {
				t.Errorf("%s sees %s but lacks READ on %s", r, item.Path, item.Resource)
			}
		}
	}
}

func TestVisibleMenuItemsKeepOrder(t *testing.T) {
	all := MenuItems()
	index := make(map[string]int, len(all))
	for i, item := range all {
		index[item.Path] = i
	}
	for _, r := range domain.Roles() {
		last := -1
		for _, item := range VisibleMenuItems(r) {
			if index[item.Path] <= last {
				t.Errorf("%s menu out of order at %s", r, item.Path)
			}
			last = index[item.Path]
		}
	}
}

func TestItemForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/production", ResourceProduction, true},
		{"/production/orders/3/delete", ResourceProduction, true},
		{"/suppliers/9", ResourceSuppliers, true},
		{"/productionx", "", false},
		{"/login", "", false},
	}
	for _, tt := range tests {
		item, ok := ItemForPath(tt.path)
		if ok != tt.ok || item.Resource != tt.want {
			t.Errorf("ItemForPath(%q) = %q, %v; want %q, %v", tt.path, item.Resource, ok, tt.want, tt.ok)
		}
	}
}
