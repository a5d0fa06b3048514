package exchange

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-oauth2/pkg/authorization"
	"github.com/tendant/simple-oauth2/pkg/login"
	"github.com/tendant/simple-oauth2/pkg/oauth2client"
	"github.com/tendant/simple-oauth2/pkg/principal"
	"github.com/tendant/simple-oauth2/pkg/scopes"
)

// brokenUserRepository simulates a user store whose database is down
type brokenUserRepository struct{}

func (brokenUserRepository) GetUserByUsername(ctx context.Context, username string) (*login.User, error) {
	return nil, errors.New("pg: connection refused")
}

func (brokenUserRepository) CreateUser(ctx context.Context, user *login.User) (*login.User, error) {
	return nil, errors.New("pg: connection refused")
}

func (brokenUserRepository) UpdateLockout(ctx context.Context, userID uuid.UUID, failedAttempts int, lockedUntil time.Time) error {
	return errors.New("pg: connection refused")
}

func (brokenUserRepository) UserExists(ctx context.Context, username string) (bool, error) {
	return false, errors.New("pg: connection refused")
}

type testEnv struct {
	engine    *ExchangeService
	clients   *oauth2client.ClientService
	users     *login.UserService
	authzRepo *authorization.InMemoryAuthorizationRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	clientService := oauth2client.NewClientService(oauth2client.NewInMemoryOAuth2ClientRepository())
	_, err := clientService.RegisterClient(ctx, &oauth2client.OAuth2Client{
		ClientID:   "server_api_1",
		ClientName: "Server Api 1",
		GrantTypes: []string{oauth2client.GrantTypeClientCredentials, oauth2client.GrantTypeRefreshToken},
		Scopes:     []string{"api1", "openid", "offline_access"},
		ClientType: "confidential",
	}, "388D45FA-B36B-4988-BA59-B187D329C207")
	require.NoError(t, err)

	userService := login.NewUserService(login.NewInMemoryUserRepository())
	_, err = userService.RegisterUser(ctx, &login.User{
		Username:      "johndoe",
		Name:          "John Doe",
		Email:         "john@example.com",
		Roles:         []string{"user"},
		SecurityStamp: "stamp-1",
	}, "SecurePass123!")
	require.NoError(t, err)

	resolver := scopes.NewResourceResolver(scopes.NewInMemoryScopeRepository())
	require.NoError(t, resolver.RegisterScope(ctx, "api1", "server_api_1"))

	authzRepo := authorization.NewInMemoryAuthorizationRepository()

	engine := NewExchangeService(clientService, userService, resolver,
		authorization.NewAuthorizationService(authzRepo))

	return &testEnv{
		engine:    engine,
		clients:   clientService,
		users:     userService,
		authzRepo: authzRepo,
	}
}

func TestExchange_ClientCredentials(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	p, err := env.engine.Exchange(ctx, GrantRequest{
		GrantType: oauth2client.GrantTypeClientCredentials,
		ClientID:  "server_api_1",
		Scopes:    []string{"api1", "openid", "offline_access"},
	})
	require.NoError(t, err)

	assert.Equal(t, "server_api_1", p.Subject)
	assert.Equal(t, []string{"api1", "openid", "offline_access"}, p.Scopes, "requested scopes are granted verbatim")
	assert.Equal(t, []string{"server_api_1"}, p.Resources)
	assert.NotEmpty(t, p.AuthorizationID)

	name, ok := p.FirstClaim(principal.ClaimName)
	require.True(t, ok)
	assert.Equal(t, "Server Api 1", name)

	// Claim destinations are computed before the principal is returned
	for _, c := range p.Claims {
		assert.NotNil(t, c.Destinations)
	}
}

func TestExchange_ClientCredentials_Repeatable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	req := GrantRequest{
		GrantType: oauth2client.GrantTypeClientCredentials,
		ClientID:  "server_api_1",
		Scopes:    []string{"api1", "openid"},
	}

	first, err := env.engine.Exchange(ctx, req)
	require.NoError(t, err)

	second, err := env.engine.Exchange(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.Subject, second.Subject)
	assert.Equal(t, first.Scopes, second.Scopes)
	assert.Equal(t, first.AuthorizationID, second.AuthorizationID, "repeated exchanges reuse the authorization")
}

func TestExchange_ClientCredentials_ConcurrentAuthorizationCreation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	req := GrantRequest{
		GrantType: oauth2client.GrantTypeClientCredentials,
		ClientID:  "server_api_1",
		Scopes:    []string{"openid", "offline_access"},
	}

	const workers = 16
	authzIDs := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := env.engine.Exchange(ctx, req)
			assert.NoError(t, err)
			if p != nil {
				authzIDs[i] = p.AuthorizationID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range authzIDs {
		assert.Equal(t, authzIDs[0], id, "racing exchanges must converge on one authorization")
	}

	found, err := env.authzRepo.FindLatestValid(ctx, "server_api_1", "server_api_1", []string{"openid", "offline_access"})
	require.NoError(t, err)
	require.NotNil(t, found)
}

func TestExchange_ClientCredentials_UnknownClient(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	p, err := env.engine.Exchange(ctx, GrantRequest{
		GrantType: oauth2client.GrantTypeClientCredentials,
		ClientID:  "ghost_client",
	})
	assert.Nil(t, p, "no partially populated principal on denial")

	var unknownClient ErrUnknownClient
	require.ErrorAs(t, err, &unknownClient)
	assert.Equal(t, "ghost_client", unknownClient.ClientID)
}

func TestExchange_Password(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	p, err := env.engine.Exchange(ctx, GrantRequest{
		GrantType: oauth2client.GrantTypePassword,
		Username:  "johndoe",
		Password:  "SecurePass123!",
		Scopes:    []string{"openid", "unknown_scope", "roles", "email", "profile", "offline_access"},
	})
	require.NoError(t, err)

	// Allow-list order, unknown scope excluded
	assert.Equal(t, []string{"email", "profile", "roles", "openid", "offline_access"}, p.Scopes)

	// Baseline roles replace the stored role set
	assert.Equal(t, []string{"admin", "account"}, p.ClaimValues(principal.ClaimRole))

	// Security stamp is carried on the principal but destined for no token
	stampProjected := false
	for _, c := range p.Claims {
		if c.Type == principal.ClaimSecurityStamp {
			stampProjected = true
			assert.Empty(t, c.Destinations)
		}
	}
	assert.True(t, stampProjected)

	assert.Empty(t, p.AuthorizationID, "password grant creates no authorization record")
}

func TestExchange_Password_InvalidCredentialsIndistinguishable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, unknownUserErr := env.engine.Exchange(ctx, GrantRequest{
		GrantType: oauth2client.GrantTypePassword,
		Username:  "nobody",
		Password:  "whatever",
	})
	_, wrongPasswordErr := env.engine.Exchange(ctx, GrantRequest{
		GrantType: oauth2client.GrantTypePassword,
		Username:  "johndoe",
		Password:  "wrong-password",
	})

	var invalid ErrInvalidCredentials
	require.ErrorAs(t, unknownUserErr, &invalid)
	require.ErrorAs(t, wrongPasswordErr, &invalid)
	assert.Equal(t, unknownUserErr.Error(), wrongPasswordErr.Error(), "no distinguishing signal between unknown user and wrong password")
}

func TestExchange_Password_UserStoreFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	engine := NewExchangeService(env.clients,
		login.NewUserService(brokenUserRepository{}),
		scopes.NewResourceResolver(scopes.NewInMemoryScopeRepository()),
		authorization.NewAuthorizationService(env.authzRepo))

	_, err := engine.Exchange(ctx, GrantRequest{
		GrantType: oauth2client.GrantTypePassword,
		Username:  "johndoe",
		Password:  "SecurePass123!",
	})

	var internal ErrInternal
	require.ErrorAs(t, err, &internal, "a broken user store is an internal failure")

	var invalid ErrInvalidCredentials
	assert.False(t, errors.As(err, &invalid), "store failures must not be reported as bad credentials")
}

func TestExchange_RefreshToken_ReprojectsDestinations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	recovered := principal.Principal{
		Subject: "user-123",
		Scopes:  []string{"profile"},
	}
	recovered.AddClaim(principal.ClaimName, "John Doe")
	recovered.AddClaim(principal.ClaimSecurityStamp, "stamp-1")

	p, err := env.engine.Exchange(ctx, GrantRequest{
		GrantType: oauth2client.GrantTypeRefreshToken,
		Principal: &recovered,
	})
	require.NoError(t, err)

	name, ok := p.FirstClaim(principal.ClaimName)
	require.True(t, ok)
	assert.Equal(t, "John Doe", name)

	for _, c := range p.Claims {
		assert.NotNil(t, c.Destinations, "destinations must be recomputed on refresh")
		if c.Type == principal.ClaimSecurityStamp {
			assert.Empty(t, c.Destinations)
		}
	}
}

func TestExchange_RefreshToken_MissingPrincipal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.engine.Exchange(ctx, GrantRequest{
		GrantType: oauth2client.GrantTypeRefreshToken,
	})

	var invalid ErrInvalidCredentials
	assert.ErrorAs(t, err, &invalid)
}

func TestExchange_UnsupportedGrantType(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.engine.Exchange(ctx, GrantRequest{
		GrantType: "authorization_code",
	})

	var unsupported ErrUnsupportedGrantType
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "authorization_code", unsupported.GrantType)
}
