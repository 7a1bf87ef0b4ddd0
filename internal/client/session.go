package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"portfolio/internal/domain/models"
)

// Session holds the bearer token and the signed-in user. It is set by
// Register and Login and cleared by Logout or when the API rejects the
// token. Safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	user  models.UserSummary
}

type sessionFile struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Set stores a fresh credential.
func (s *Session) Set(token string, user models.UserSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// Clear drops the credential.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = models.UserSummary{}
}

// Token returns the bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user.
func (s *Session) User() (models.UserSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.token != ""
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Save writes the session to path with owner-only permissions. A signed-out
// session removes the file.
func (s *Session) Save(path string) error {
	s.mu.RLock()
	data := sessionFile{Token: s.token, User: s.user}
	s.mu.RUnlock()

	if data.Token == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove session file: %w", err)
		}
		return nil
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// LoadSession reads a session saved by Save. A missing file yields an
// empty session.
func LoadSession(path string) (*Session, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var data sessionFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	s := NewSession()
	s.Set(data.Token, data.User)
	return s, nil
}
