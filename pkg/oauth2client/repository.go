package oauth2client

import (
	"context"
)

// OAuth2ClientRepository defines the interface for OAuth2 client data access operations
type OAuth2ClientRepository interface {
	// GetClient retrieves an OAuth2 client by client ID
	GetClient(ctx context.Context, clientID string) (*OAuth2Client, error)

	// CreateClient creates a new OAuth2 client and returns the created client
	CreateClient(ctx context.Context, client *OAuth2Client) (*OAuth2Client, error)

	// ListClients returns all registered OAuth2 clients
	ListClients(ctx context.Context) ([]*OAuth2Client, error)

	// ClientExists checks if a client with the given ID exists
	ClientExists(ctx context.Context, clientID string) (bool, error)
}
