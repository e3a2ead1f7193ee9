package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/bunkerhq/bunker/internal/dependencies/mocks"
	"github.com/bunkerhq/bunker/internal/model"
	"github.com/bunkerhq/bunker/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	session, err := s.service.Register(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("alice", session.Username)
}

func (s *ServiceSuite) TestRegisterPersistsAccount() {
	_, _ = s.service.Register(s.ctx, "alice", "password123")

	account, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", account.Username)
	s.NotEmpty(account.PasswordHash)
	s.NotEqual("password123", account.PasswordHash) // Should be hashed
}

func (s *ServiceSuite) TestRegisterSessionIsValid() {
	session, _ := s.service.Register(s.ctx, "alice", "password123")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal("alice", validated.Username)
}

func (s *ServiceSuite) TestRegisterFailsIfUsernameExists() {
	_, _ = s.service.Register(s.ctx, "alice", "password123")

	_, err := s.service.Register(s.ctx, "alice", "different123")
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *ServiceSuite) TestRegisterFailsWithShortUsername() {
	_, err := s.service.Register(s.ctx, "ab", "password123")
	s.ErrorIs(err, model.ErrUsernameTooShort)
}

func (s *ServiceSuite) TestRegisterFailsWithShortPassword() {
	_, err := s.service.Register(s.ctx, "alice", "12345")
	s.ErrorIs(err, model.ErrPasswordTooShort)
}

func (s *ServiceSuite) TestRegisterTrimsUsername() {
	session, err := s.service.Register(s.ctx, "  alice  ", "password123")
	s.Require().NoError(err)
	s.Equal("alice", session.Username)

	_, err = s.storage.GetAccount(s.ctx, "alice")
	s.NoError(err)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	_, _ = s.service.Register(s.ctx, "alice", "password123")

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("alice", session.Username)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "password123")

	_, err := s.service.Login(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownUser() {
	_, err := s.service.Login(s.ctx, "nobody", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginIssuesFreshToken() {
	first, _ := s.service.Register(s.ctx, "alice", "password123")
	second, _ := s.service.Login(s.ctx, "alice", "password123")

	s.NotEqual(first.Token, second.Token)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session, _ := s.service.Register(s.ctx, "alice", "password123")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.Token, validated.Token)
}

func (s *ServiceSuite) TestValidateSessionFailsWithUnknownToken() {
	_, err := s.service.ValidateSession("sess_bogus")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	session, _ := s.service.Register(s.ctx, "alice", "password123")

	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestSessionValidJustBeforeExpiry() {
	session, _ := s.service.Register(s.ctx, "alice", "password123")

	s.clock.Advance(23 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.NoError(err)
}

// Logout tests

func (s *ServiceSuite) TestLogoutInvalidatesSession() {
	session, _ := s.service.Register(s.ctx, "alice", "password123")

	s.service.Logout(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestLogoutUnknownTokenIsNoop() {
	s.service.Logout("sess_bogus")
}

// Username tests

func (s *ServiceSuite) TestUsername() {
	session, _ := s.service.Register(s.ctx, "alice", "password123")

	username, err := s.service.Username(session.Token)
	s.Require().NoError(err)
	s.Equal("alice", username)
}

func (s *ServiceSuite) TestUsernameFailsWithUnknownToken() {
	_, err := s.service.Username("sess_bogus")
	s.ErrorIs(err, ErrInvalidSession)
}

// CleanExpiredSessions tests

func (s *ServiceSuite) TestCleanExpiredSessions() {
	expired, _ := s.service.Register(s.ctx, "alice", "password123")

	s.clock.Advance(25 * time.Hour)
	fresh, _ := s.service.Login(s.ctx, "alice", "password123")

	s.service.CleanExpiredSessions()

	_, err := s.service.ValidateSession(expired.Token)
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}
