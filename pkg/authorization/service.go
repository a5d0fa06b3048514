package authorization

import (
	"context"
	"fmt"
	"log/slog"
)

// AuthorizationService provides lookup and lazy creation of authorization records
type AuthorizationService struct {
	repository AuthorizationRepository
}

// NewAuthorizationService creates a new authorization service with the provided repository
func NewAuthorizationService(repository AuthorizationRepository) *AuthorizationService {
	return &AuthorizationService{
		repository: repository,
	}
}

// FindLatestValid returns the most recently created valid permanent
// authorization with the exact scope set, or nil
func (s *AuthorizationService) FindLatestValid(ctx context.Context, subject, clientID string, scopes []string) (*Authorization, error) {
	return s.repository.FindLatestValid(ctx, subject, clientID, scopes)
}

// EnsureAuthorization returns the latest valid permanent authorization for
// the key, creating one when none exists. Creation runs detached from the
// caller's cancellation: once started it completes and stays visible to
// future lookups even when the request is abandoned.
func (s *AuthorizationService) EnsureAuthorization(ctx context.Context, subject, clientID string, scopes []string) (*Authorization, error) {
	auth, err := s.repository.FindLatestValid(ctx, subject, clientID, scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to look up authorization: %w", err)
	}
	if auth != nil {
		return auth, nil
	}

	// Automatically create a permanent authorization to avoid requiring
	// explicit consent for future token requests with the same scopes.
	auth, err = s.repository.Create(context.WithoutCancel(ctx), subject, clientID, scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorization: %w", err)
	}

	slog.Info("Created permanent authorization", "subject", subject, "client_id", clientID, "scopes", scopes, "authorization_id", auth.ID)
	return auth, nil
}
