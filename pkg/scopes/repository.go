package scopes

import (
	"context"
	"fmt"
	"sync"
)

// ScopeRepository defines the interface for scope data access operations
type ScopeRepository interface {
	// GetScope retrieves a scope by name
	GetScope(ctx context.Context, name string) (*Scope, error)

	// CreateScope registers a new scope and returns the created scope
	CreateScope(ctx context.Context, scope *Scope) (*Scope, error)

	// ListScopes returns all registered scopes
	ListScopes(ctx context.Context) ([]*Scope, error)

	// ScopeExists checks if a scope with the given name exists
	ScopeExists(ctx context.Context, name string) (bool, error)
}

// InMemoryScopeRepository implements ScopeRepository using an in-memory map
type InMemoryScopeRepository struct {
	mutex  sync.RWMutex
	scopes map[string]*Scope
}

// NewInMemoryScopeRepository creates a new in-memory scope repository
func NewInMemoryScopeRepository() *InMemoryScopeRepository {
	return &InMemoryScopeRepository{
		scopes: make(map[string]*Scope),
	}
}

// NewInMemoryScopeRepositoryWithDefaults creates a new in-memory scope
// repository pre-populated with the default scopes
func NewInMemoryScopeRepositoryWithDefaults() *InMemoryScopeRepository {
	repo := NewInMemoryScopeRepository()
	for _, scope := range DefaultScopes {
		scopeCopy := *scope
		repo.scopes[scope.Name] = &scopeCopy
	}
	return repo
}

// GetScope retrieves a scope by name
func (r *InMemoryScopeRepository) GetScope(ctx context.Context, name string) (*Scope, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	scope, exists := r.scopes[name]
	if !exists {
		return nil, fmt.Errorf("scope not found: %s", name)
	}

	scopeCopy := *scope
	return &scopeCopy, nil
}

// CreateScope registers a new scope
func (r *InMemoryScopeRepository) CreateScope(ctx context.Context, scope *Scope) (*Scope, error) {
	if scope == nil || scope.Name == "" {
		return nil, fmt.Errorf("scope name cannot be empty")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.scopes[scope.Name]; exists {
		return nil, fmt.Errorf("scope already exists: %s", scope.Name)
	}

	scopeCopy := *scope
	r.scopes[scope.Name] = &scopeCopy
	return scope, nil
}

// ListScopes returns all registered scopes
func (r *InMemoryScopeRepository) ListScopes(ctx context.Context) ([]*Scope, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*Scope, 0, len(r.scopes))
	for _, scope := range r.scopes {
		scopeCopy := *scope
		result = append(result, &scopeCopy)
	}
	return result, nil
}

// ScopeExists checks if a scope with the given name exists
func (r *InMemoryScopeRepository) ScopeExists(ctx context.Context, name string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.scopes[name]
	return exists, nil
}
