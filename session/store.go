// Package session owns the console's record of who is signed in.
//
// A Store is built per browser over that browser's durable Storage. All
// reads and writes of the authenticated state go through Initialize, Login
// and Logout so handlers never touch storage keys directly.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"ckmconsole/domain"
	"ckmconsole/rbac"
)

// Session is a point-in-time view of the store. The zero value is the
// signed-out state.
type Session struct {
	User          *domain.User
	Token         string
	Authenticated bool
	Loading       bool
	// Error is set when Initialize discarded stored content. It never
	// accompanies an authenticated session.
	Error string
}

// Messages shown when a stored session could not be used.
const (
	MsgSessionExpired = "登录已失效，请重新登录"
	MsgSessionCorrupt = "会话数据无效，请重新登录"
)

type Store struct {
	mu          sync.Mutex
	storage     Storage
	issuer      TokenIssuer
	validator   TokenValidator
	initialized bool
	state       Session
}

type Option func(*Store)

// WithValidator checks the restored token on Initialize.
func WithValidator(v TokenValidator) Option {
	return func(s *Store) { s.validator = v }
}

// NewStore returns a store in the loading state. issuer may be nil when
// every Login supplies a server token.
func NewStore(storage Storage, issuer TokenIssuer, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		issuer:  issuer,
		state:   Session{Loading: true},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// commit flushes batched writes for storage that implements Committer.
func (s *Store) commit(ctx context.Context) error {
	if c, ok := s.storage.(Committer); ok {
		return c.Commit(ctx)
	}
	return nil
}

// Initialize restores the session from storage. Only the first call reads
// storage; later calls return immediately. Unreadable or inconsistent
// content, and a token the validator rejects, are cleared and leave the
// store signed out with Error set.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return
	}
	s.initialized = true

	user, token, err := s.restore(ctx)
	if err != nil {
		log.Printf("session: discarding stored session: %v", err)
		if rmErr := s.storage.Remove(ctx, KeyToken, KeyUser); rmErr != nil {
			log.Printf("session: clear storage: %v", rmErr)
		} else if cErr := s.commit(ctx); cErr != nil {
			log.Printf("session: clear storage: %v", cErr)
		}
		msg := MsgSessionCorrupt
		if errors.Is(err, errTokenRejected) {
			msg = MsgSessionExpired
		}
		s.state = Session{Error: msg}
		return
	}
	if user == nil {
		s.state = Session{}
		return
	}
	s.state = Session{User: user, Token: token, Authenticated: true}
}

var (
	errIncomplete    = errors.New("incomplete session")
	errTokenRejected = errors.New("token rejected")
)

func (s *Store) restore(ctx context.Context) (*domain.User, string, error) {
	token, hasToken, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		return nil, "", fmt.Errorf("read token: %w", err)
	}
	raw, hasUser, err := s.storage.Get(ctx, KeyUser)
	if err != nil {
		return nil, "", fmt.Errorf("read user: %w", err)
	}
	if !hasToken && !hasUser {
		return nil, "", nil
	}
	if !hasToken || !hasUser || token == "" {
		return nil, "", errIncomplete
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, "", fmt.Errorf("decode user: %w", err)
	}
	if user.Username == "" || !user.Role.Valid() {
		return nil, "", fmt.Errorf("decode user: invalid record for %q", user.Username)
	}
	if s.validator != nil {
		if err := s.validator.Validate(ctx, token); err != nil {
			return nil, "", fmt.Errorf("%w for %q: %w", errTokenRejected, user.Username, err)
		}
	}
	return &user, token, nil
}

// Login persists user and token and marks the store authenticated. An empty
// token is replaced by one from the store's issuer.
func (s *Store) Login(ctx context.Context, user *domain.User, token string) error {
	if user == nil {
		return errors.New("session: login without user")
	}
	if token == "" {
		if s.issuer == nil {
			return errors.New("session: no token and no issuer")
		}
		var err error
		token, err = s.issuer.Issue(user)
		if err != nil {
			return fmt.Errorf("session: issue token: %w", err)
		}
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("session: store token: %w", err)
	}
	if err := s.storage.Set(ctx, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("session: store user: %w", err)
	}
	if err := s.commit(ctx); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	s.initialized = true
	s.state = Session{User: user, Token: token, Authenticated: true}
	return nil
}

// Logout clears storage and resets the store to the signed-out state. The
// in-memory state is reset even when storage fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	s.state = Session{}
	if err := s.storage.Remove(ctx, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("session: clear storage: %w", err)
	}
	if err := s.commit(ctx); err != nil {
		return fmt.Errorf("session: clear storage: %w", err)
	}
	return nil
}

// HasPermission evaluates the signed-in user's grants.
func (s *Store) HasPermission(resource string, action domain.Action) bool {
	s.mu.Lock()
	user := s.state.User
	s.mu.Unlock()
	return rbac.HasPermission(user, resource, action)
}

func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.User
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Authenticated
}

// Username is the actor recorded on status transitions.
func (s *Store) Username() string {
	if u := s.User(); u != nil {
		return u.Username
	}
	return ""
}
