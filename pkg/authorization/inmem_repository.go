package authorization

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryAuthorizationRepository implements AuthorizationRepository using an
// in-memory slice. A single mutex serializes creates, so racing callers for
// the same key converge on one record.
type InMemoryAuthorizationRepository struct {
	mutex          sync.RWMutex
	authorizations []*Authorization
}

// NewInMemoryAuthorizationRepository creates a new in-memory authorization repository
func NewInMemoryAuthorizationRepository() *InMemoryAuthorizationRepository {
	return &InMemoryAuthorizationRepository{}
}

// FindLatestValid returns the most recently created valid permanent
// authorization with the exact scope set, newest wins
func (r *InMemoryAuthorizationRepository) FindLatestValid(ctx context.Context, subject, clientID string, scopes []string) (*Authorization, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.findLatestValidLocked(subject, clientID, scopes), nil
}

// Create persists a new valid permanent authorization. An existing record
// with the same key is returned instead of creating a duplicate.
func (r *InMemoryAuthorizationRepository) Create(ctx context.Context, subject, clientID string, scopes []string) (*Authorization, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if existing := r.findLatestValidLocked(subject, clientID, scopes); existing != nil {
		return existing, nil
	}

	scopesCopy := make([]string, len(scopes))
	copy(scopesCopy, scopes)

	auth := &Authorization{
		ID:        uuid.New(),
		Subject:   subject,
		ClientID:  clientID,
		Scopes:    scopesCopy,
		Status:    StatusValid,
		Type:      TypePermanent,
		CreatedAt: time.Now().UTC(),
	}
	r.authorizations = append(r.authorizations, auth)

	authCopy := *auth
	return &authCopy, nil
}

func (r *InMemoryAuthorizationRepository) findLatestValidLocked(subject, clientID string, scopes []string) *Authorization {
	key := ScopesKey(scopes)

	var latest *Authorization
	for _, auth := range r.authorizations {
		if auth.Subject != subject || auth.ClientID != clientID {
			continue
		}
		if auth.Status != StatusValid || auth.Type != TypePermanent {
			continue
		}
		if ScopesKey(auth.Scopes) != key {
			continue
		}
		// Newest wins; on equal timestamps the later-created record wins
		if latest == nil || !auth.CreatedAt.Before(latest.CreatedAt) {
			latest = auth
		}
	}

	if latest == nil {
		return nil
	}
	latestCopy := *latest
	return &latestCopy
}
