package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	RoleAdmin  = "admin"
	RoleTenant = "tenant"
)

// User is the identity the server returns at login.
type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	TenantID *string `json:"tenant_id,omitempty"`
	FullName string  `json:"full_name,omitempty"`
}

// Identity is either AdminSession or TenantSession. The unexported method
// keeps the set closed.
type Identity interface {
	user() User
}

type AdminSession struct {
	User User
}

type TenantSession struct {
	User     User
	TenantID string
}

func (a AdminSession) user() User  { return a.User }
func (t TenantSession) user() User { return t.User }

// IdentityFromUser picks the variant from the server's role string.
func IdentityFromUser(u User) (Identity, error) {
	switch u.Role {
	case RoleAdmin:
		return AdminSession{User: u}, nil
	case RoleTenant:
		if u.TenantID == nil || *u.TenantID == "" {
			return nil, fmt.Errorf("tenant %q has no tenant profile", u.Username)
		}
		return TenantSession{User: u, TenantID: *u.TenantID}, nil
	}
	return nil, fmt.Errorf("unknown role %q", u.Role)
}

type persistedSession struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Session owns the token and identity. It is replaced wholesale on login and
// logout. An empty path keeps it in memory only.
type Session struct {
	mu       sync.RWMutex
	path     string
	token    string
	identity Identity
}

func NewSession(path string) *Session {
	return &Session{path: path}
}

// LoadSession restores a session saved by Login. A missing file is an empty session.
func LoadSession(path string) (*Session, error) {
	s := NewSession(path)
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var saved persistedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if saved.Token == "" {
		return s, nil
	}
	identity, err := IdentityFromUser(saved.User)
	if err != nil {
		return nil, err
	}
	s.token, s.identity = saved.Token, identity
	return s, nil
}

func (s *Session) Login(token string, identity Identity) error {
	if token == "" || identity == nil {
		return errors.New("login needs a token and an identity")
	}
	if err := s.persist(&persistedSession{Token: token, User: identity.user()}); err != nil {
		return err
	}
	s.mu.Lock()
	s.token, s.identity = token, identity
	s.mu.Unlock()
	return nil
}

func (s *Session) Logout() error {
	s.mu.Lock()
	s.token, s.identity = "", nil
	s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns nil when nobody is logged in.
func (s *Session) Current() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) persist(p *persistedSession) error {
	if s.path == "" {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return os.Rename(tmp, s.path)
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login authenticates against the server and stores the resulting identity.
func Login(ctx context.Context, api *APIClient, username, password string) (Identity, error) {
	if username == "" || password == "" {
		return nil, &ValidationError{Field: "username", Message: "Username and password are required"}
	}
	var resp loginResponse
	if _, err := api.Post(ctx, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp); err != nil {
		return nil, err
	}

	identity, err := IdentityFromUser(resp.User)
	if err != nil {
		return nil, err
	}
	if err := api.Session().Login(resp.Token, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Logout revokes the token server side and always clears the local session.
func Logout(ctx context.Context, api *APIClient) error {
	var serverErr error
	if api.Session().Token() != "" {
		_, serverErr = api.Post(ctx, "/auth/logout", nil, nil)
	}
	if err := api.Session().Logout(); err != nil {
		return err
	}
	return serverErr
}
