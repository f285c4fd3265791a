package portal

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// sessionTTL mirrors the 7-day cookie the web portal sets alongside the
// cached session.
const sessionTTL = 7 * 24 * time.Hour

// Session is the durable login state kept between runs.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	SavedAt   time.Time `json:"saved_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// User is the normalized identity the session layer exposes. Role is
// already canonical here (see roleAliases).
type User struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Role           string `json:"role"`
	Specialization string `json:"specialization,omitempty"`
}

// Store persists a session to disk as JSON.
type Store struct {
	path string
}

// DefaultStorePath resolves the per-user session file location.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "care-portal", "session.json"), nil
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	buf, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, buf, 0o600)
}

// Load returns the saved session, or ErrNoSession if none exists or the
// saved one has expired. An expired file is removed on the way out.
func (s *Store) Load() (Session, error) {
	buf, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, ErrNoSession
		}
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(buf, &sess); err != nil {
		_ = os.Remove(s.path)
		return Session{}, ErrNoSession
	}
	if sess.Token == "" || time.Now().After(sess.ExpiresAt) {
		_ = os.Remove(s.path)
		return Session{}, ErrNoSession
	}
	return sess, nil
}

func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
