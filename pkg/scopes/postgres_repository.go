package scopes

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresScopeRepository implements ScopeRepository using PostgreSQL
type PostgresScopeRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresScopeRepository creates a new PostgreSQL scope repository
func NewPostgresScopeRepository(pool *pgxpool.Pool) (*PostgresScopeRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &PostgresScopeRepository{pool: pool}, nil
}

// GetScope retrieves a scope by name
func (r *PostgresScopeRepository) GetScope(ctx context.Context, name string) (*Scope, error) {
	const q = `SELECT name, resources FROM scopes WHERE name = $1`

	var scope Scope
	err := r.pool.QueryRow(ctx, q, name).Scan(&scope.Name, &scope.Resources)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("scope not found: %s", name)
		}
		return nil, fmt.Errorf("failed to get scope: %w", err)
	}
	return &scope, nil
}

// CreateScope registers a new scope
func (r *PostgresScopeRepository) CreateScope(ctx context.Context, scope *Scope) (*Scope, error) {
	if scope == nil || scope.Name == "" {
		return nil, fmt.Errorf("scope name cannot be empty")
	}

	const q = `INSERT INTO scopes (name, resources) VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, q, scope.Name, scope.Resources)
	if err != nil {
		return nil, fmt.Errorf("failed to create scope %s: %w", scope.Name, err)
	}
	return scope, nil
}

// ListScopes returns all registered scopes
func (r *PostgresScopeRepository) ListScopes(ctx context.Context) ([]*Scope, error) {
	const q = `SELECT name, resources FROM scopes ORDER BY name`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list scopes: %w", err)
	}
	defer rows.Close()

	var result []*Scope
	for rows.Next() {
		var scope Scope
		if err := rows.Scan(&scope.Name, &scope.Resources); err != nil {
			return nil, fmt.Errorf("failed to scan scope: %w", err)
		}
		result = append(result, &scope)
	}
	return result, rows.Err()
}

// ScopeExists checks if a scope with the given name exists
func (r *PostgresScopeRepository) ScopeExists(ctx context.Context, name string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM scopes WHERE name = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, q, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check scope %s: %w", name, err)
	}
	return exists, nil
}
