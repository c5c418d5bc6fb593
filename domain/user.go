package domain

type Role string

const (
	RoleAdmin                  Role = "ADMIN"
	RoleProductionManager      Role = "PRODUCTION_MANAGER"
	RoleQualityInspector       Role = "QUALITY_INSPECTOR"
	RoleInventoryManager       Role = "INVENTORY_MANAGER"
	RoleSupplierRepresentative Role = "SUPPLIER_REPRESENTATIVE"
	RoleViewer                 Role = "VIEWER"
)

// Roles returns every role in display order.
func Roles() []Role {
	return []Role{
		RoleAdmin,
		RoleProductionManager,
		RoleQualityInspector,
		RoleInventoryManager,
		RoleSupplierRepresentative,
		RoleViewer,
	}
}

// Valid reports whether r is one of the fixed roles.
func (r Role) Valid() bool {
	for _, known := range Roles() {
		if r == known {
			return true
		}
	}
	return false
}

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionManage Action = "MANAGE"
)

// AnyResource matches every resource in a permission grant.
const AnyResource = "*"

type Permission struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Resource string `json:"resource"`
	Action   Action `json:"action"`
}

// Grants reports whether p covers resource/action, honoring the "*" resource
// and MANAGE action wildcards.
func (p Permission) Grants(resource string, action Action) bool {
	return (p.Resource == AnyResource || p.Resource == resource) &&
		(p.Action == ActionManage || p.Action == action)
}

type User struct {
	ID          int64        `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FullName    string       `json:"fullName"`
	Role        Role         `json:"role"`
	Department  string       `json:"department"`
	IsActive    bool         `json:"isActive"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   DateTime     `json:"createdAt"`
	UpdatedAt   DateTime     `json:"updatedAt"`
}

// DisplayName prefers the full name and falls back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
