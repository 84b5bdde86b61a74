package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/accountsvc/internal/dependencies/mocks"
	"github.com/mcoot/accountsvc/internal/services/account"
	"github.com/mcoot/accountsvc/internal/storage/memory"
	"github.com/mcoot/accountsvc/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	accounts *account.Service
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.accounts = account.New(memory.New(), s.clock, testutil.NopLogger())
	s.service = New(s.accounts, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

func (s *ServiceSuite) register(username, password string) {
	_, err := s.accounts.Register(s.ctx, username, password, username+"@example.com")
	s.Require().NoError(err)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	s.register("alice", "password123")

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.True(strings.HasPrefix(session.Token, "sess_"))
	s.Equal("alice", session.Username)
	s.Equal(s.clock.Now(), session.CreatedAt)
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	s.register("alice", "password123")

	_, err := s.service.Login(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, account.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownUser() {
	_, err := s.service.Login(s.ctx, "nobody", "password123")
	s.ErrorIs(err, account.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginTokensAreUnique() {
	s.register("alice", "password123")

	first, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)
	second, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	// Concurrent logins each get their own session
	s.NotEqual(first.Token, second.Token)
	_, err = s.service.ValidateSession(first.Token)
	s.NoError(err)
	_, err = s.service.ValidateSession(second.Token)
	s.NoError(err)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	s.register("alice", "password123")
	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.Token, validated.Token)
	s.Equal(session.AccountID, validated.AccountID)
}

func (s *ServiceSuite) TestValidateSessionFailsWithUnknownToken() {
	_, err := s.service.ValidateSession("sess_unknown")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	s.register("alice", "password123")
	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	// Advance time past expiration
	s.clock.Advance(25 * time.Hour)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionAtExactExpiryStillValid() {
	s.register("alice", "password123")
	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.clock.Set(session.ExpiresAt)

	_, err = s.service.ValidateSession(session.Token)
	s.NoError(err)
}

// InvalidateSession tests

func (s *ServiceSuite) TestInvalidateSessionRemovesSession() {
	s.register("alice", "password123")
	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.service.InvalidateSession(session.Token)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSessionNoopForUnknownToken() {
	// Should not panic
	s.service.InvalidateSession("sess_unknown")
}

func (s *ServiceSuite) TestInvalidateSessionIsIdempotent() {
	s.register("alice", "password123")
	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.service.InvalidateSession(session.Token)
	s.service.InvalidateSession(session.Token)
}

func (s *ServiceSuite) TestInvalidateSessionLeavesOtherSessionsAlone() {
	s.register("alice", "password123")
	first, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)
	second, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.service.InvalidateSession(first.Token)

	_, err = s.service.ValidateSession(second.Token)
	s.NoError(err)
}

// GetAccount tests

func (s *ServiceSuite) TestGetAccountResolvesSession() {
	s.register("alice", "password123")
	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	acct, err := s.service.GetAccount(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal("alice", acct.Username)
	s.Equal(session.AccountID, acct.ID)
}

func (s *ServiceSuite) TestGetAccountFailsForInvalidSession() {
	_, err := s.service.GetAccount(s.ctx, "sess_unknown")
	s.ErrorIs(err, ErrInvalidSession)
}

// CleanExpiredSessions tests

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesOnlyExpired() {
	s.register("alice", "password123")
	old, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.clock.Advance(20 * time.Hour)
	fresh, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.clock.Advance(5 * time.Hour)
	s.service.CleanExpiredSessions()

	_, err = s.service.ValidateSession(old.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}

// Config tests

func (s *ServiceSuite) TestCustomSessionDuration() {
	s.register("alice", "password123")
	service := New(s.accounts, s.clock, Config{SessionDuration: time.Minute})

	session, err := service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)
	s.Equal(s.clock.Now().Add(time.Minute), session.ExpiresAt)

	s.clock.Advance(2 * time.Minute)
	_, err = service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}
