package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ckmconsole/domain"
	"ckmconsole/rbac"
)

// DemoAccount is one of the fixed development logins shown on the login page.
type DemoAccount struct {
	Username    string
	Password    string
	Role        domain.Role
	FullName    string
	Description string
}

var demoAccounts = []DemoAccount{
	{"admin", "admin123", domain.RoleAdmin, "系统管理员", "系统管理员 - 拥有所有权限"},
	{"pm", "pm123", domain.RoleProductionManager, "李生产", "生产主管 - 管理生产流程"},
	{"qi", "qi123", domain.RoleQualityInspector, "王检查", "质量检查员 - 执行质量检验"},
	{"im", "im123", domain.RoleInventoryManager, "张库存", "库存管理员 - 管理库存数据"},
	{"sr", "sr123", domain.RoleSupplierRepresentative, "赵供应商", "供应商代表 - 查看供应商信息"},
	{"viewer", "viewer123", domain.RoleViewer, "观察员", "观察员 - 只读访问权限"},
}

// DemoAccounts returns the development logins in display order.
func DemoAccounts() []DemoAccount {
	out := make([]DemoAccount, len(demoAccounts))
	copy(out, demoAccounts)
	return out
}

type mockUser struct {
	id      int64
	account DemoAccount
	hash    []byte
}

// MockBackend authenticates against the demo accounts without a network
// call. With allowUnknown set, any other username signs in as a VIEWER
// whose password is not checked.
type MockBackend struct {
	issuer       *JWTIssuer
	allowUnknown bool
	now          func() time.Time

	users map[string]mockUser

	mu sync.Mutex
	// revoked maps a token id to its expiry. Entries past expiry are
	// dropped on the next Revoke since Verify rejects those tokens anyway.
	revoked map[string]time.Time
}

func NewMockBackend(issuer *JWTIssuer, allowUnknown bool) (*MockBackend, error) {
	m := &MockBackend{
		issuer:       issuer,
		allowUnknown: allowUnknown,
		now:          time.Now,
		users:        make(map[string]mockUser, len(demoAccounts)),
		revoked:      make(map[string]time.Time),
	}
	for i, a := range demoAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("hash demo password for %s: %w", a.Username, err)
		}
		m.users[a.Username] = mockUser{id: int64(i + 1), account: a, hash: hash}
	}
	return m, nil
}

func (m *MockBackend) Authenticate(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}
	var user *domain.User
	if mu, ok := m.users[username]; ok {
		if bcrypt.CompareHashAndPassword(mu.hash, []byte(password)) != nil {
			return nil, "", ErrInvalidCredentials
		}
		user = m.buildUser(mu.id, username, mu.account.FullName, mu.account.Role)
	} else if m.allowUnknown {
		user = m.buildUser(0, username, username, domain.RoleViewer)
	} else {
		return nil, "", ErrInvalidCredentials
	}

	token, err := m.issuer.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (m *MockBackend) buildUser(id int64, username, fullName string, role domain.Role) *domain.User {
	now := domain.NewDateTime(m.now())
	return &domain.User{
		ID:          id,
		Username:    username,
		Email:       username + "@ckm.com",
		FullName:    fullName,
		Role:        role,
		Department:  rbac.RoleDepartments[role],
		IsActive:    true,
		Permissions: rbac.PermissionsFor(role),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Revoke marks the token's id as signed out. Tokens that fail verification
// are ignored.
func (m *MockBackend) Revoke(_ context.Context, token string) error {
	claims, err := m.issuer.Verify(token)
	if err != nil {
		return nil
	}
	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.revoked {
		if !e.IsZero() && now.After(e) {
			delete(m.revoked, id)
		}
	}
	m.revoked[claims.ID] = exp
	return nil
}

// Validate rejects tokens that are expired, not signed by the issuer, or
// revoked.
func (m *MockBackend) Validate(_ context.Context, token string) error {
	claims, err := m.issuer.Verify(token)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.revoked[claims.ID]; ok {
		return ErrTokenRevoked
	}
	return nil
}

// Revoked reports whether token was signed out through Revoke.
func (m *MockBackend) Revoked(token string) bool {
	claims, err := m.issuer.Verify(token)
	if err != nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[claims.ID]
	return ok
}
