package tokengenerator

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tendant/simple-oauth2/pkg/principal"
)

// Default token expiry durations
const (
	DefaultAccessTokenExpiry  = 15 * time.Minute
	DefaultRefreshTokenExpiry = 24 * time.Hour
	DefaultIDTokenExpiry      = time.Hour
)

// Wire parameter names of the token response
const (
	ParamAccessToken  = "access_token"
	ParamTokenType    = "token_type"
	ParamExpiresIn    = "expires_in"
	ParamRefreshToken = "refresh_token"
	ParamIDToken      = "id_token"
	ParamScope        = "scope"
)

// TokenIssuer turns a finalized principal into signed token wire parameters.
// Claim destinations computed by the projector decide which claims reach
// which token; claims without destinations are dropped entirely.
type TokenIssuer struct {
	generator          TokenGenerator
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	idTokenExpiry      time.Duration
}

// IssuerOption is a function that configures a TokenIssuer
type IssuerOption func(*TokenIssuer)

// parseDurationValue parses either a string or time.Duration into time.Duration
func parseDurationValue(v interface{}) (time.Duration, error) {
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		if val == "" {
			return 0, nil
		}
		return time.ParseDuration(val)
	default:
		return 0, fmt.Errorf("invalid duration type: %T", v)
	}
}

// WithAccessTokenExpiry sets the access token expiry duration
// Accepts either time.Duration or string (e.g., "1h", "30m")
func WithAccessTokenExpiry(expiry interface{}) IssuerOption {
	return func(ti *TokenIssuer) {
		if d, err := parseDurationValue(expiry); err == nil && d > 0 {
			ti.accessTokenExpiry = d
		} else if err != nil {
			slog.Error("Failed to parse access token expiry", "err", err, "value", expiry)
		}
	}
}

// WithRefreshTokenExpiry sets the refresh token expiry duration
// Accepts either time.Duration or string (e.g., "24h", "168h")
func WithRefreshTokenExpiry(expiry interface{}) IssuerOption {
	return func(ti *TokenIssuer) {
		if d, err := parseDurationValue(expiry); err == nil && d > 0 {
			ti.refreshTokenExpiry = d
		} else if err != nil {
			slog.Error("Failed to parse refresh token expiry", "err", err, "value", expiry)
		}
	}
}

// WithIDTokenExpiry sets the identity token expiry duration
func WithIDTokenExpiry(expiry interface{}) IssuerOption {
	return func(ti *TokenIssuer) {
		if d, err := parseDurationValue(expiry); err == nil && d > 0 {
			ti.idTokenExpiry = d
		} else if err != nil {
			slog.Error("Failed to parse id token expiry", "err", err, "value", expiry)
		}
	}
}

// NewTokenIssuer creates a new token issuer backed by the given generator
func NewTokenIssuer(generator TokenGenerator, opts ...IssuerOption) *TokenIssuer {
	ti := &TokenIssuer{
		generator:          generator,
		accessTokenExpiry:  DefaultAccessTokenExpiry,
		refreshTokenExpiry: DefaultRefreshTokenExpiry,
		idTokenExpiry:      DefaultIDTokenExpiry,
	}
	for _, opt := range opts {
		opt(ti)
	}
	return ti
}

// IssueTokens signs the principal into wire parameters: always an access
// token, an identity token when the openid scope was granted, a refresh token
// when offline_access was granted.
func (ti *TokenIssuer) IssueTokens(p principal.Principal) (map[string]interface{}, error) {
	scopeStr := strings.Join(p.Scopes, " ")

	accessRoot := map[string]interface{}{
		"token_use": TokenUseAccess,
	}
	if scopeStr != "" {
		accessRoot[ParamScope] = scopeStr
	}
	if len(p.Resources) > 0 {
		accessRoot["resources"] = p.Resources
	}
	if p.AuthorizationID != "" {
		accessRoot["authorization_id"] = p.AuthorizationID
	}

	accessToken, accessExpiry, err := ti.generator.GenerateToken(p.Subject, ti.accessTokenExpiry,
		accessRoot, claimsForDestination(p, principal.DestinationAccessToken))
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	params := map[string]interface{}{
		ParamAccessToken: accessToken,
		ParamTokenType:   "Bearer",
		ParamExpiresIn:   int(time.Until(accessExpiry).Seconds()),
	}
	if scopeStr != "" {
		params[ParamScope] = scopeStr
	}

	if p.HasScope(principal.ScopeOpenID) {
		idToken, _, err := ti.generator.GenerateToken(p.Subject, ti.idTokenExpiry,
			map[string]interface{}{"token_use": TokenUseID},
			claimsForDestination(p, principal.DestinationIdentityToken))
		if err != nil {
			return nil, fmt.Errorf("failed to issue id token: %w", err)
		}
		params[ParamIDToken] = idToken
	}

	if p.HasScope(principal.ScopeOfflineAccess) {
		refreshToken, _, err := ti.generator.GenerateToken(p.Subject, ti.refreshTokenExpiry,
			map[string]interface{}{"token_use": TokenUseRefresh},
			map[string]interface{}{"principal": p})
		if err != nil {
			return nil, fmt.Errorf("failed to issue refresh token: %w", err)
		}
		params[ParamRefreshToken] = refreshToken
	}

	return params, nil
}

// RecoverPrincipal rebuilds the principal embedded in a refresh token.
// Destinations are not persisted with the token; the exchange engine
// re-projects them.
func (ti *TokenIssuer) RecoverPrincipal(tokenStr string) (*principal.Principal, error) {
	claims, err := ti.parseClaims(tokenStr)
	if err != nil {
		return nil, err
	}

	if use, _ := claims["token_use"].(string); use != TokenUseRefresh {
		return nil, fmt.Errorf("not a refresh token")
	}

	extraClaims, ok := claims["extra_claims"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("refresh token carries no principal")
	}

	// Round-trip through JSON to rebuild the typed principal
	raw, err := json.Marshal(extraClaims["principal"])
	if err != nil {
		return nil, fmt.Errorf("failed to decode principal: %w", err)
	}
	var p principal.Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode principal: %w", err)
	}
	if p.Subject == "" {
		return nil, fmt.Errorf("refresh token carries no principal")
	}
	return &p, nil
}

// Introspect rebuilds a claims view of the principal behind an access or
// refresh token for the introspection endpoint
func (ti *TokenIssuer) Introspect(tokenStr string) (*principal.Principal, error) {
	claims, err := ti.parseClaims(tokenStr)
	if err != nil {
		return nil, err
	}

	if use, _ := claims["token_use"].(string); use == TokenUseRefresh {
		return ti.RecoverPrincipal(tokenStr)
	}

	p := principal.Principal{}
	if sub, ok := claims["sub"].(string); ok {
		p.Subject = sub
	}
	if scopeStr, ok := claims[ParamScope].(string); ok && scopeStr != "" {
		p.Scopes = strings.Split(scopeStr, " ")
	}
	if authzID, ok := claims["authorization_id"].(string); ok {
		p.AuthorizationID = authzID
	}

	extraClaims, _ := claims["extra_claims"].(map[string]interface{})
	for claimType, value := range extraClaims {
		switch v := value.(type) {
		case string:
			p.AddClaim(claimType, v)
		case []interface{}:
			for _, item := range v {
				if s, ok := item.(string); ok {
					p.AddClaim(claimType, s)
				}
			}
		}
	}

	return &p, nil
}

func (ti *TokenIssuer) parseClaims(tokenStr string) (jwt.MapClaims, error) {
	token, err := ti.generator.ParseToken(tokenStr)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// claimsForDestination flattens the claims destined for the given token type
// into an extra-claims map. Multi-valued claim types become string lists.
func claimsForDestination(p principal.Principal, destination string) map[string]interface{} {
	result := make(map[string]interface{})
	for _, c := range p.Claims {
		if !c.HasDestination(destination) {
			continue
		}
		switch existing := result[c.Type].(type) {
		case nil:
			result[c.Type] = c.Value
		case string:
			result[c.Type] = []string{existing, c.Value}
		case []string:
			result[c.Type] = append(existing, c.Value)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
