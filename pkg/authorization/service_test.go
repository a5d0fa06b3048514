package authorization

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAuthorization_CreatesOnce(t *testing.T) {
	ctx := context.Background()
	service := NewAuthorizationService(NewInMemoryAuthorizationRepository())

	first, err := service.EnsureAuthorization(ctx, "server_api_1", "server_api_1", []string{"openid", "offline_access"})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, StatusValid, first.Status)
	assert.Equal(t, TypePermanent, first.Type)

	second, err := service.EnsureAuthorization(ctx, "server_api_1", "server_api_1", []string{"openid", "offline_access"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "repeated exchanges must reuse the existing authorization")
}

func TestEnsureAuthorization_ScopeOrderInsensitive(t *testing.T) {
	ctx := context.Background()
	service := NewAuthorizationService(NewInMemoryAuthorizationRepository())

	first, err := service.EnsureAuthorization(ctx, "sub", "client", []string{"offline_access", "openid"})
	require.NoError(t, err)

	second, err := service.EnsureAuthorization(ctx, "sub", "client", []string{"openid", "offline_access"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureAuthorization_DistinctKeys(t *testing.T) {
	ctx := context.Background()
	service := NewAuthorizationService(NewInMemoryAuthorizationRepository())

	a, err := service.EnsureAuthorization(ctx, "sub", "client", []string{"openid"})
	require.NoError(t, err)

	b, err := service.EnsureAuthorization(ctx, "sub", "client", []string{"openid", "offline_access"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	c, err := service.EnsureAuthorization(ctx, "sub", "other_client", []string{"openid"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestEnsureAuthorization_EmptyScopeSet(t *testing.T) {
	ctx := context.Background()
	service := NewAuthorizationService(NewInMemoryAuthorizationRepository())

	first, err := service.EnsureAuthorization(ctx, "sub", "client", nil)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := service.EnsureAuthorization(ctx, "sub", "client", []string{})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureAuthorization_ConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryAuthorizationRepository()
	service := NewAuthorizationService(repo)

	const workers = 32
	results := make([]*Authorization, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			auth, err := service.EnsureAuthorization(ctx, "server_api_1", "server_api_1", []string{"openid", "offline_access"})
			assert.NoError(t, err)
			results[i] = auth
		}(i)
	}
	wg.Wait()

	for _, auth := range results {
		require.NotNil(t, auth)
		assert.Equal(t, results[0].ID, auth.ID, "concurrent exchanges must converge on one authorization")
	}

	found, err := repo.FindLatestValid(ctx, "server_api_1", "server_api_1", []string{"openid", "offline_access"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, results[0].ID, found.ID)
}

func TestEnsureAuthorization_SurvivesCancelledContext(t *testing.T) {
	repo := NewInMemoryAuthorizationRepository()
	service := NewAuthorizationService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	auth, err := service.EnsureAuthorization(ctx, "sub", "client", []string{"openid"})
	require.NoError(t, err)
	require.NotNil(t, auth)

	found, err := repo.FindLatestValid(context.Background(), "sub", "client", []string{"openid"})
	require.NoError(t, err)
	require.NotNil(t, found, "creation must remain visible after the request is abandoned")
	assert.Equal(t, auth.ID, found.ID)
}
