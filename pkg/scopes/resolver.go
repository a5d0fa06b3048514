package scopes

import (
	"context"
	"fmt"
)

// ResourceResolver maps requested scope sets to the resource audiences those
// scopes authorize access to
type ResourceResolver struct {
	repository ScopeRepository
}

// NewResourceResolver creates a new resolver with the provided repository
func NewResourceResolver(repository ScopeRepository) *ResourceResolver {
	return &ResourceResolver{
		repository: repository,
	}
}

// ResolveResources returns the resource audiences of all known requested
// scopes. Unknown scopes contribute no resources and are not an error. The
// result preserves first-seen order and contains no duplicates.
func (r *ResourceResolver) ResolveResources(ctx context.Context, scopeNames []string) ([]string, error) {
	var resources []string
	seen := make(map[string]bool)

	for _, name := range scopeNames {
		scope, err := r.repository.GetScope(ctx, name)
		if err != nil {
			// Scopes without a registered resource mapping are simply
			// not audience-bearing.
			continue
		}
		for _, resource := range scope.Resources {
			if seen[resource] {
				continue
			}
			seen[resource] = true
			resources = append(resources, resource)
		}
	}

	return resources, nil
}

// RegisterScope registers a scope with its resources, skipping scopes that
// already exist. Used by server startup seeding.
func (r *ResourceResolver) RegisterScope(ctx context.Context, name string, resources ...string) error {
	exists, err := r.repository.ScopeExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check scope %s: %w", name, err)
	}
	if exists {
		return nil
	}

	_, err = r.repository.CreateScope(ctx, &Scope{Name: name, Resources: resources})
	if err != nil {
		return fmt.Errorf("failed to create scope %s: %w", name, err)
	}
	return nil
}
