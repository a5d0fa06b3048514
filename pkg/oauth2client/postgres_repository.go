package oauth2client

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOAuth2ClientRepository implements OAuth2ClientRepository using PostgreSQL
type PostgresOAuth2ClientRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOAuth2ClientRepository creates a new PostgreSQL OAuth2 client repository
func NewPostgresOAuth2ClientRepository(pool *pgxpool.Pool) (*PostgresOAuth2ClientRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &PostgresOAuth2ClientRepository{pool: pool}, nil
}

// GetClient retrieves an OAuth2 client by client ID
func (r *PostgresOAuth2ClientRepository) GetClient(ctx context.Context, clientID string) (*OAuth2Client, error) {
	const q = `
		SELECT client_id, client_secret_hash, client_name, grant_types, scopes, client_type
		FROM oauth2_clients
		WHERE client_id = $1`

	row := r.pool.QueryRow(ctx, q, clientID)

	client, err := scanClient(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("client not found: %s", clientID)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// CreateClient creates a new OAuth2 client
func (r *PostgresOAuth2ClientRepository) CreateClient(ctx context.Context, client *OAuth2Client) (*OAuth2Client, error) {
	if client == nil || client.ClientID == "" {
		return nil, fmt.Errorf("client ID cannot be empty")
	}

	const q = `
		INSERT INTO oauth2_clients (client_id, client_secret_hash, client_name, grant_types, scopes, client_type)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, q,
		client.ClientID, client.ClientSecretHash, client.ClientName,
		client.GrantTypes, client.Scopes, client.ClientType)
	if err != nil {
		return nil, fmt.Errorf("failed to create client %s: %w", client.ClientID, err)
	}
	return client, nil
}

// ListClients returns all registered OAuth2 clients
func (r *PostgresOAuth2ClientRepository) ListClients(ctx context.Context) ([]*OAuth2Client, error) {
	const q = `
		SELECT client_id, client_secret_hash, client_name, grant_types, scopes, client_type
		FROM oauth2_clients
		ORDER BY client_id`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var result []*OAuth2Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		result = append(result, client)
	}
	return result, rows.Err()
}

// ClientExists checks if a client with the given ID exists
func (r *PostgresOAuth2ClientRepository) ClientExists(ctx context.Context, clientID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM oauth2_clients WHERE client_id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, q, clientID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check client %s: %w", clientID, err)
	}
	return exists, nil
}

func scanClient(row pgx.Row) (*OAuth2Client, error) {
	var client OAuth2Client
	err := row.Scan(&client.ClientID, &client.ClientSecretHash, &client.ClientName,
		&client.GrantTypes, &client.Scopes, &client.ClientType)
	if err != nil {
		return nil, err
	}
	return &client, nil
}
