package portal

import (
	"context"
	"net/mail"
	"strings"
	"sync"
	"time"
)

// roleAliases maps server-side role names onto the canonical ones the
// navigation layer understands. The backend stores practitioners as
// "doctor"; the portal routes them as "provider".
var roleAliases = map[string]string{
	"doctor": "provider",
}

func canonicalRole(role string) string {
	if alias, ok := roleAliases[role]; ok {
		return alias
	}
	return role
}

// Manager owns the current session: login, registration, restore from
// disk, profile refresh and logout. Safe for concurrent use.
type Manager struct {
	client *Client
	store  *Store

	mu      sync.Mutex
	session *Session
}

// NewManager builds a manager and restores any persisted session. A
// corrupt or expired file is treated as logged out, never as an error.
func NewManager(client *Client, store *Store) *Manager {
	m := &Manager{client: client, store: store}
	if sess, err := store.Load(); err == nil {
		m.session = &sess
	}
	return m
}

// Current returns the logged-in user, or ErrNoSession.
func (m *Manager) Current() (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return User{}, ErrNoSession
	}
	return m.session.User, nil
}

// Token returns the bearer token for the active session, or "".
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.Token
}

// Login authenticates against the backend and persists the session.
func (m *Manager) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, &ValidationError{Field: "credentials", Message: "email and password are required"}
	}

	var resp LoginResponse
	err := m.client.do(ctx, "POST", "/api/users/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return User{}, err
	}

	user := normalizeUser(resp.User)
	now := time.Now()
	sess := Session{
		Token:     resp.Token,
		User:      user,
		SavedAt:   now,
		ExpiresAt: now.Add(sessionTTL),
	}

	m.mu.Lock()
	m.session = &sess
	m.mu.Unlock()

	if err := m.store.Save(sess); err != nil {
		return user, err
	}
	return user, nil
}

// Register creates an account. Validation failures are reported before
// any request leaves the process.
func (m *Manager) Register(ctx context.Context, reg Registration) error {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	if reg.FirstName == "" {
		return &ValidationError{Field: "firstName", Message: "first name is required"}
	}
	if reg.LastName == "" {
		return &ValidationError{Field: "lastName", Message: "last name is required"}
	}
	if _, err := mail.ParseAddress(reg.Email); err != nil {
		return &ValidationError{Field: "email", Message: "invalid email address"}
	}
	if len(reg.Password) < 6 {
		return &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	if reg.Role == "" {
		reg.Role = "patient"
	}
	return m.client.do(ctx, "POST", "/api/users/register", "", reg, nil)
}

// Refresh revalidates the session against the profile endpoint. Any
// failure, transport included, clears the session: a stale token must
// never survive a failed check.
func (m *Manager) Refresh(ctx context.Context) (User, error) {
	m.mu.Lock()
	sess := m.session
	m.mu.Unlock()
	if sess == nil {
		return User{}, ErrNoSession
	}

	var resp struct {
		ResultCode int      `json:"result_code"`
		User       WireUser `json:"user"`
	}
	if err := m.client.do(ctx, "GET", "/api/users/fetch_profile", sess.Token, nil, &resp); err != nil {
		_ = m.Logout()
		return User{}, ErrSessionExpired
	}

	user := normalizeUser(resp.User)
	// Role is fixed for the lifetime of a session.
	user.Role = sess.User.Role

	m.mu.Lock()
	if m.session == nil {
		// A logout landed while the profile fetch was in flight.
		m.mu.Unlock()
		return User{}, ErrNoSession
	}
	m.session.User = user
	updated := *m.session
	m.mu.Unlock()

	if err := m.store.Save(updated); err != nil {
		return user, err
	}
	return user, nil
}

// Logout clears the session in memory and on disk. Calling it while
// logged out is a no-op.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return m.store.Clear()
}

func normalizeUser(w WireUser) User {
	return User{
		ID:             w.ID,
		FirstName:      w.FirstName,
		LastName:       w.LastName,
		Email:          w.Email,
		Phone:          w.Phone,
		Role:           canonicalRole(w.Role),
		Specialization: w.Specialization,
	}
}
