package login

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(pool *pgxpool.Pool) (*PostgresUserRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &PostgresUserRepository{pool: pool}, nil
}

// GetUserByUsername retrieves a user by username, returning nil when absent
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	const q = `
		SELECT id, username, name, email, roles, security_stamp, password_hash, failed_attempts, locked_until, created_at
		FROM users
		WHERE username = $1`

	row := r.pool.QueryRow(ctx, q, username)

	user, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// CreateUser persists a new user
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *User) (*User, error) {
	if user == nil || user.Username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	const q = `
		INSERT INTO users (id, username, name, email, roles, security_stamp, password_hash, failed_attempts, locked_until, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, q,
		user.ID, user.Username, user.Name, user.Email, user.Roles,
		user.SecurityStamp, user.PasswordHash, user.FailedAttempts,
		nullableTime(user.LockedUntil), user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}
	return user, nil
}

// UpdateLockout persists failed-attempt tracking for a user
func (r *PostgresUserRepository) UpdateLockout(ctx context.Context, userID uuid.UUID, failedAttempts int, lockedUntil time.Time) error {
	const q = `UPDATE users SET failed_attempts = $2, locked_until = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, userID, failedAttempts, nullableTime(lockedUntil))
	if err != nil {
		return fmt.Errorf("failed to update lockout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// UserExists checks if a user with the given username exists
func (r *PostgresUserRepository) UserExists(ctx context.Context, username string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, q, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", username, err)
	}
	return exists, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	var lockedUntil *time.Time
	err := row.Scan(&user.ID, &user.Username, &user.Name, &user.Email, &user.Roles,
		&user.SecurityStamp, &user.PasswordHash, &user.FailedAttempts, &lockedUntil, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lockedUntil != nil {
		user.LockedUntil = *lockedUntil
	}
	return &user, nil
}

// nullableTime maps the zero time to NULL so the locked_until column stays
// NULL for accounts that were never locked
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
