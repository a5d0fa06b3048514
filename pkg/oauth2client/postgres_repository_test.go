package oauth2client

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgresRepository(t *testing.T) (*PostgresOAuth2ClientRepository, func()) {
	t.Helper()
	ctx := context.Background()

	postgresContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	schema, err := os.ReadFile("../../migrations/oauth2_clients.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	repo, err := NewPostgresOAuth2ClientRepository(pool)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return repo, cleanup
}

func TestPostgresOAuth2ClientRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	repo, cleanup := setupPostgresRepository(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("GetClient_NotFound", func(t *testing.T) {
		client, err := repo.GetClient(ctx, "ghost_client")
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("CreateAndGet", func(t *testing.T) {
		created, err := repo.CreateClient(ctx, &OAuth2Client{
			ClientID:         "server_api_1",
			ClientSecretHash: "$2a$10$hash",
			ClientName:       "Server Api 1",
			GrantTypes:       []string{GrantTypeClientCredentials, GrantTypeRefreshToken},
			Scopes:           []string{"api1", "openid", "offline_access"},
			ClientType:       "confidential",
		})
		require.NoError(t, err)
		require.NotNil(t, created)

		found, err := repo.GetClient(ctx, "server_api_1")
		require.NoError(t, err)
		assert.Equal(t, "Server Api 1", found.ClientName)
		assert.Equal(t, []string{GrantTypeClientCredentials, GrantTypeRefreshToken}, found.GrantTypes)
		assert.Equal(t, []string{"api1", "openid", "offline_access"}, found.Scopes)
		assert.True(t, found.ValidateGrantType(GrantTypeClientCredentials))
	})

	t.Run("CreateDuplicate_Fails", func(t *testing.T) {
		_, err := repo.CreateClient(ctx, &OAuth2Client{
			ClientID:         "server_api_1",
			ClientSecretHash: "$2a$10$hash",
		})
		assert.Error(t, err)
	})

	t.Run("ClientExists", func(t *testing.T) {
		exists, err := repo.ClientExists(ctx, "server_api_1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ClientExists(ctx, "ghost_client")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("ListClients", func(t *testing.T) {
		_, err := repo.CreateClient(ctx, &OAuth2Client{
			ClientID:         "console_app",
			ClientSecretHash: "$2a$10$hash",
			GrantTypes:       []string{GrantTypePassword},
			ClientType:       "public",
		})
		require.NoError(t, err)

		clients, err := repo.ListClients(ctx)
		require.NoError(t, err)
		assert.Len(t, clients, 2)
	})
}
