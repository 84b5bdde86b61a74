package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/mcoot/accountsvc/internal/dependencies/clock"
	"github.com/mcoot/accountsvc/internal/model"
	"github.com/mcoot/accountsvc/internal/services/account"
)

// Errors
var (
	// ErrInvalidSession covers missing and expired sessions alike
	ErrInvalidSession = errors.New("invalid or expired session")
)

// Session represents an authenticated session: an opaque server-issued token
// bound to one account for the duration of a login
type Session struct {
	Token     string
	AccountID model.AccountID
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service is the session authority: it issues, validates and tears down
// sessions. The session map lives in the service value, injected where it is
// needed, so it can be swapped for a distributed store later.
type Service struct {
	accounts *account.Service
	clock    clock.Clock

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth service
func New(accounts *account.Service, clock clock.Clock, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		accounts:        accounts,
		clock:           clock,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// Login verifies the credentials and creates a session.
// No session is created on failure.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	acct, err := s.accounts.Verify(ctx, username, password)
	if err != nil {
		return nil, err
	}

	return s.StartSession(acct), nil
}

// StartSession mints a new session bound to the given account
func (s *Service) StartSession(acct *model.Account) *Session {
	token := generateToken()
	now := s.clock.Now()

	session := &Session{
		Token:     token,
		AccountID: acct.ID,
		Username:  acct.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session; removing an unknown token is not an
// error
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// GetAccount returns the account bound to a session token
func (s *Service) GetAccount(ctx context.Context, token string) (*model.Account, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}
	return s.accounts.Get(ctx, session.AccountID)
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

// generateToken mints an opaque, unguessable session token
func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}
