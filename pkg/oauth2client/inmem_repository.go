package oauth2client

import (
	"context"
	"fmt"
	"sync"

	"github.com/jinzhu/copier"
)

// InMemoryOAuth2ClientRepository implements OAuth2ClientRepository using an in-memory map
type InMemoryOAuth2ClientRepository struct {
	mutex   sync.RWMutex
	clients map[string]*OAuth2Client
}

// NewInMemoryOAuth2ClientRepository creates a new in-memory OAuth2 client repository
func NewInMemoryOAuth2ClientRepository() *InMemoryOAuth2ClientRepository {
	return &InMemoryOAuth2ClientRepository{
		clients: make(map[string]*OAuth2Client),
	}
}

// GetClient retrieves an OAuth2 client by client ID
func (r *InMemoryOAuth2ClientRepository) GetClient(ctx context.Context, clientID string) (*OAuth2Client, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	client, exists := r.clients[clientID]
	if !exists {
		return nil, fmt.Errorf("client not found: %s", clientID)
	}

	return deepCopyClient(client)
}

// CreateClient creates a new OAuth2 client
func (r *InMemoryOAuth2ClientRepository) CreateClient(ctx context.Context, client *OAuth2Client) (*OAuth2Client, error) {
	if client == nil || client.ClientID == "" {
		return nil, fmt.Errorf("client ID cannot be empty")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.clients[client.ClientID]; exists {
		return nil, fmt.Errorf("client already exists: %s", client.ClientID)
	}

	stored, err := deepCopyClient(client)
	if err != nil {
		return nil, err
	}
	r.clients[client.ClientID] = stored
	return client, nil
}

// ListClients returns all registered OAuth2 clients
func (r *InMemoryOAuth2ClientRepository) ListClients(ctx context.Context) ([]*OAuth2Client, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*OAuth2Client, 0, len(r.clients))
	for _, client := range r.clients {
		clientCopy, err := deepCopyClient(client)
		if err != nil {
			return nil, err
		}
		result = append(result, clientCopy)
	}
	return result, nil
}

// ClientExists checks if a client with the given ID exists
func (r *InMemoryOAuth2ClientRepository) ClientExists(ctx context.Context, clientID string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.clients[clientID]
	return exists, nil
}

// deepCopyClient copies the client including its slice fields so callers
// cannot mutate the stored record
func deepCopyClient(client *OAuth2Client) (*OAuth2Client, error) {
	clientCopy := &OAuth2Client{}
	if err := copier.CopyWithOption(clientCopy, client, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("failed to copy client: %w", err)
	}
	return clientCopy, nil
}
