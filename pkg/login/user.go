package login

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents a stored identity account with its claims material
type User struct {
	ID             uuid.UUID
	Username       string
	Name           string
	Email          string
	Roles          []string
	SecurityStamp  string
	PasswordHash   string
	FailedAttempts int
	LockedUntil    time.Time
	CreatedAt      time.Time
}

// UserRepository defines the interface for user account data access operations
type UserRepository interface {
	// GetUserByUsername retrieves a user by username. A missing user is
	// (nil, nil); an error means the store itself failed.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// CreateUser persists a new user and returns the created user
	CreateUser(ctx context.Context, user *User) (*User, error)

	// UpdateLockout persists failed-attempt tracking for a user
	UpdateLockout(ctx context.Context, userID uuid.UUID, failedAttempts int, lockedUntil time.Time) error

	// UserExists checks if a user with the given username exists
	UserExists(ctx context.Context, username string) (bool, error)
}
