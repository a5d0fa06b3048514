package login

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryUserRepository implements UserRepository using an in-memory map
type InMemoryUserRepository struct {
	mutex sync.RWMutex
	users map[string]*User
}

// NewInMemoryUserRepository creates a new in-memory user repository
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]*User),
	}
}

// GetUserByUsername retrieves a user by username, returning nil when absent
func (r *InMemoryUserRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	user, exists := r.users[username]
	if !exists {
		return nil, nil
	}

	userCopy := *user
	return &userCopy, nil
}

// CreateUser persists a new user
func (r *InMemoryUserRepository) CreateUser(ctx context.Context, user *User) (*User, error) {
	if user == nil || user.Username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return nil, fmt.Errorf("user already exists: %s", user.Username)
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	userCopy := *user
	r.users[user.Username] = &userCopy
	return user, nil
}

// UpdateLockout persists failed-attempt tracking for a user
func (r *InMemoryUserRepository) UpdateLockout(ctx context.Context, userID uuid.UUID, failedAttempts int, lockedUntil time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, user := range r.users {
		if user.ID == userID {
			user.FailedAttempts = failedAttempts
			user.LockedUntil = lockedUntil
			return nil
		}
	}
	return fmt.Errorf("user not found: %s", userID)
}

// UserExists checks if a user with the given username exists
func (r *InMemoryUserRepository) UserExists(ctx context.Context, username string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.users[username]
	return exists, nil
}
