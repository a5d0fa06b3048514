package authorization

import (
	"context"
)

// AuthorizationRepository defines the interface for authorization data access
// operations.
//
// Implementations must keep at most one semantically distinct valid permanent
// authorization per (subject, client, scope-set) key under concurrent load:
// either by serializing creates, or by rejecting/merging the loser so that a
// subsequent FindLatestValid observes the winner.
type AuthorizationRepository interface {
	// FindLatestValid returns the most recently created valid permanent
	// authorization whose scope set exactly equals the given set, or nil
	// when none exists
	FindLatestValid(ctx context.Context, subject, clientID string, scopes []string) (*Authorization, error)

	// Create persists a new valid permanent authorization. When a matching
	// record already exists the implementation may return the existing one
	// instead of creating a duplicate.
	Create(ctx context.Context, subject, clientID string, scopes []string) (*Authorization, error)
}
