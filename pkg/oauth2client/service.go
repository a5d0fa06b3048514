package oauth2client

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ClientService provides methods for managing OAuth2 clients
type ClientService struct {
	repository OAuth2ClientRepository
}

// NewClientService creates a new client service with the provided repository
func NewClientService(repository OAuth2ClientRepository) *ClientService {
	return &ClientService{
		repository: repository,
	}
}

// GetClient retrieves a client by client ID
func (s *ClientService) GetClient(ctx context.Context, clientID string) (*OAuth2Client, error) {
	return s.repository.GetClient(ctx, clientID)
}

// ValidateClientCredentials validates client ID and secret, returns the client if valid
func (s *ClientService) ValidateClientCredentials(ctx context.Context, clientID, clientSecret string) (*OAuth2Client, error) {
	client, err := s.repository.GetClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client credentials")
	}

	err = bcrypt.CompareHashAndPassword([]byte(client.ClientSecretHash), []byte(clientSecret))
	if err != nil {
		return nil, fmt.Errorf("invalid client credentials")
	}

	return client, nil
}

// RegisterClient hashes the provided secret and creates the client, skipping
// clients that already exist. Used by server startup seeding.
func (s *ClientService) RegisterClient(ctx context.Context, client *OAuth2Client, clientSecret string) (*OAuth2Client, error) {
	exists, err := s.repository.ClientExists(ctx, client.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check client %s: %w", client.ClientID, err)
	}
	if exists {
		return s.repository.GetClient(ctx, client.ClientID)
	}

	secretHash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash client secret: %w", err)
	}
	client.ClientSecretHash = string(secretHash)

	return s.repository.CreateClient(ctx, client)
}

// ListClients returns all registered clients (for admin purposes)
func (s *ClientService) ListClients(ctx context.Context) (map[string]*OAuth2Client, error) {
	clients, err := s.repository.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	clientMap := make(map[string]*OAuth2Client)
	for _, client := range clients {
		clientMap[client.ClientID] = client
	}

	return clientMap, nil
}
