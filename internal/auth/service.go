// Package auth verifies username/password credentials against the user
// store. Unknown users and wrong passwords collapse into a single failure
// so callers cannot probe which usernames exist.
package auth

import (
	"context"
	"errors"
	"time"

	"token-service/internal/database"
	"token-service/internal/database/repositories"
	"token-service/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for unknown users and bad passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked is returned while a username is locked out after
	// too many consecutive failures.
	ErrAccountLocked = errors.New("account locked")
)

// Service authenticates users and enforces the login attempt limit.
type Service struct {
	users   *repositories.UserRepository
	tracker *loginTracker
	log     *logger.Logger
}

// NewService creates a credential service backed by the user repository.
func NewService(users *repositories.UserRepository, maxAttempts int, lockout time.Duration, log *logger.Logger) *Service {
	return &Service{
		users:   users,
		tracker: newLoginTracker(maxAttempts, lockout),
		log:     log.WithComponent("auth"),
	}
}

// Authenticate verifies the username/password pair and returns the matching
// user. The context is accepted for call-site symmetry; lookups run against
// the pooled connection.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*database.User, error) {
	_ = ctx

	if s.tracker.Locked(username) {
		s.log.Warning("Login rejected, account locked: %s", username)
		return nil, ErrAccountLocked
	}

	user, err := s.users.GetByUsername(username)
	if err != nil {
		s.tracker.Fail(username)
		s.log.Debug("Login failed, unknown or inactive user: %s", username)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if s.tracker.Fail(username) {
			s.log.SecurityLogger("account_locked", username, "too many failed login attempts")
			return nil, ErrAccountLocked
		}
		s.log.Debug("Login failed, password mismatch: %s", username)
		return nil, ErrInvalidCredentials
	}

	s.tracker.Reset(username)

	if err := s.users.UpdateLastLogin(user.ID); err != nil {
		s.log.Error("Failed to update last login for %s: %v", username, err)
	}

	return user, nil
}

// HashPassword hashes a plaintext password for storage.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
