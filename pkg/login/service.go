package login

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

// Default lockout policy
const (
	DefaultMaxFailedAttempts = 5
	DefaultLockoutDuration   = 15 * time.Minute
)

// CheckPasswordResult reports the outcome of a password verification
type CheckPasswordResult struct {
	Success   bool
	LockedOut bool
}

// UserService provides user lookup and password verification with lockout tracking
type UserService struct {
	repository        UserRepository
	maxFailedAttempts int
	lockoutDuration   time.Duration
}

// Option is a function that configures a UserService
type Option func(*UserService)

// WithMaxFailedAttempts sets the number of failed attempts before lockout
func WithMaxFailedAttempts(attempts int) Option {
	return func(s *UserService) {
		s.maxFailedAttempts = attempts
	}
}

// WithLockoutDuration sets how long an account stays locked out
func WithLockoutDuration(duration time.Duration) Option {
	return func(s *UserService) {
		s.lockoutDuration = duration
	}
}

// NewUserService creates a new user service with the provided repository
func NewUserService(repository UserRepository, opts ...Option) *UserService {
	s := &UserService{
		repository:        repository,
		maxFailedAttempts: DefaultMaxFailedAttempts,
		lockoutDuration:   DefaultLockoutDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindUserByName retrieves a user by username, returning nil when absent.
// Store failures are propagated so callers can tell an unknown user apart
// from a broken user store.
func (s *UserService) FindUserByName(ctx context.Context, username string) (*User, error) {
	user, err := s.repository.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", username, err)
	}
	return user, nil
}

// VerifyPassword validates the password for the user and tracks failed
// attempts, escalating to a lockout after too many failures
func (s *UserService) VerifyPassword(ctx context.Context, user *User, password string) (CheckPasswordResult, error) {
	if user == nil {
		return CheckPasswordResult{}, fmt.Errorf("user cannot be nil")
	}

	now := time.Now().UTC()
	if user.LockedUntil.After(now) {
		slog.Warn("Account locked out", "username", user.Username, "locked_until", user.LockedUntil)
		return CheckPasswordResult{LockedOut: true}, nil
	}

	valid, err := CheckPasswordHash(password, user.PasswordHash)
	if err != nil || !valid {
		failedAttempts := user.FailedAttempts + 1
		lockedUntil := user.LockedUntil
		if failedAttempts >= s.maxFailedAttempts {
			lockedUntil = now.Add(s.lockoutDuration)
			slog.Warn("Account locked after repeated failures", "username", user.Username, "failed_attempts", failedAttempts)
		}
		if err := s.repository.UpdateLockout(ctx, user.ID, failedAttempts, lockedUntil); err != nil {
			return CheckPasswordResult{}, fmt.Errorf("failed to record login attempt: %w", err)
		}
		return CheckPasswordResult{}, nil
	}

	if user.FailedAttempts > 0 {
		if err := s.repository.UpdateLockout(ctx, user.ID, 0, time.Time{}); err != nil {
			return CheckPasswordResult{}, fmt.Errorf("failed to reset login attempts: %w", err)
		}
	}

	return CheckPasswordResult{Success: true}, nil
}

// RegisterUser hashes the provided password and creates the user, skipping
// users that already exist. Used by server startup seeding.
func (s *UserService) RegisterUser(ctx context.Context, user *User, password string) (*User, error) {
	exists, err := s.repository.UserExists(ctx, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check user %s: %w", user.Username, err)
	}
	if exists {
		return s.repository.GetUserByUsername(ctx, user.Username)
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = passwordHash

	return s.repository.CreateUser(ctx, user)
}
