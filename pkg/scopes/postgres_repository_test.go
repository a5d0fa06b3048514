package scopes

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

func setupPostgresRepository(t *testing.T) (*PostgresScopeRepository, func()) {
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

	schema, err := os.ReadFile("../../migrations/scopes.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	repo, err := NewPostgresScopeRepository(pool)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return repo, cleanup
}

func TestPostgresScopeRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	repo, cleanup := setupPostgresRepository(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("GetScope_NotFound", func(t *testing.T) {
		scope, err := repo.GetScope(ctx, "unknown_scope")
		assert.Error(t, err)
		assert.Nil(t, scope)
	})

	t.Run("CreateAndGet", func(t *testing.T) {
		_, err := repo.CreateScope(ctx, &Scope{
			Name:      "api1",
			Resources: []string{"server_api_1"},
		})
		require.NoError(t, err)

		found, err := repo.GetScope(ctx, "api1")
		require.NoError(t, err)
		assert.Equal(t, []string{"server_api_1"}, found.Resources)
	})

	t.Run("ScopeExists", func(t *testing.T) {
		exists, err := repo.ScopeExists(ctx, "api1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ScopeExists(ctx, "unknown_scope")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("ResolvesThroughResolver", func(t *testing.T) {
		resolver := NewResourceResolver(repo)

		resources, err := resolver.ResolveResources(ctx, []string{"api1", "openid"})
		require.NoError(t, err)
		assert.Equal(t, []string{"server_api_1"}, resources, "audience-less scopes contribute nothing")
	})

	t.Run("ListScopes", func(t *testing.T) {
		_, err := repo.CreateScope(ctx, &Scope{Name: "api2", Resources: []string{"server_api_2"}})
		require.NoError(t, err)

		scopes, err := repo.ListScopes(ctx)
		require.NoError(t, err)
		assert.Len(t, scopes, 2)
	})
}
