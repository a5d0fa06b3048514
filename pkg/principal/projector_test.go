package principal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectDestinations_RuleTable(t *testing.T) {
	p := Principal{
		Subject: "user-123",
		Scopes:  []string{ScopeEmail, ScopeProfile, ScopeRoles},
	}
	p.AddClaim(ClaimSubject, "user-123")
	p.AddClaim(ClaimName, "John Doe")
	p.AddClaim(ClaimEmail, "john@example.com")
	p.AddClaim(ClaimRole, "admin")
	p.AddClaim(ClaimSecurityStamp, "stamp-value")

	projected := ProjectDestinations(p)

	byType := map[string]Claim{}
	for _, c := range projected.Claims {
		byType[c.Type] = c
	}

	// Subject is not in the rule table, so it falls back to access token only
	assert.Equal(t, []string{DestinationAccessToken}, byType[ClaimSubject].Destinations)

	assert.Equal(t, []string{DestinationAccessToken, DestinationIdentityToken}, byType[ClaimName].Destinations)
	assert.Equal(t, []string{DestinationAccessToken, DestinationIdentityToken}, byType[ClaimEmail].Destinations)
	assert.Equal(t, []string{DestinationAccessToken, DestinationIdentityToken}, byType[ClaimRole].Destinations)

	stamp := byType[ClaimSecurityStamp]
	require.NotNil(t, stamp.Destinations, "projected claims must carry a computed destination set")
	assert.Empty(t, stamp.Destinations, "security stamp must never be destined for any token")
}

func TestProjectDestinations_WithoutIdentityScopes(t *testing.T) {
	p := Principal{Subject: "client-1"}
	p.AddClaim(ClaimName, "Demo Client")
	p.AddClaim(ClaimEmail, "demo@example.com")
	p.AddClaim(ClaimRole, "service")

	projected := ProjectDestinations(p)

	for _, c := range projected.Claims {
		assert.Equal(t, []string{DestinationAccessToken}, c.Destinations,
			"claim %s should only reach the access token without identity scopes", c.Type)
	}
}

func TestProjectDestinations_Idempotent(t *testing.T) {
	p := Principal{
		Subject: "user-123",
		Scopes:  []string{ScopeProfile, ScopeRoles},
	}
	p.AddClaim(ClaimName, "John Doe")
	p.AddClaim(ClaimRole, "admin")
	p.AddClaim(ClaimRole, "account")
	p.AddClaim(ClaimSecurityStamp, "secret")

	once := ProjectDestinations(p)
	twice := ProjectDestinations(once)

	assert.Equal(t, once, twice)
}

func TestSetClaims_ReplacesExistingValues(t *testing.T) {
	p := Principal{Subject: "user-123"}
	p.AddClaim(ClaimRole, "viewer")
	p.AddClaim(ClaimName, "John Doe")

	p.SetClaims(ClaimRole, "admin", "account")

	assert.Equal(t, []string{"admin", "account"}, p.ClaimValues(ClaimRole))
	name, ok := p.FirstClaim(ClaimName)
	require.True(t, ok)
	assert.Equal(t, "John Doe", name)
}
