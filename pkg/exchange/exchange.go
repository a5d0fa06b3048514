package exchange

import (
	"context"
	"log/slog"

	"github.com/tendant/simple-oauth2/pkg/authorization"
	"github.com/tendant/simple-oauth2/pkg/login"
	"github.com/tendant/simple-oauth2/pkg/oauth2client"
	"github.com/tendant/simple-oauth2/pkg/principal"
	"github.com/tendant/simple-oauth2/pkg/scopes"
)

// GrantRequest represents a parsed token request handed to the exchange engine
type GrantRequest struct {
	GrantType string
	ClientID  string
	Username  string
	Password  string

	// Principal recovered from a refresh token, set for the refresh grant only
	Principal *principal.Principal

	// Requested scopes in request order
	Scopes []string
}

// Scopes the password grant is allowed to echo into the granted scope set,
// in the order they are granted
var passwordScopeAllowList = []string{
	principal.ScopeEmail,
	principal.ScopeProfile,
	principal.ScopeRoles,
	principal.ScopeOpenID,
	principal.ScopeOfflineAccess,
}

// Scopes that make a client-credentials exchange eligible for silent
// reauthorization through a persisted authorization record
var reauthorizationScopes = []string{
	principal.ScopeOpenID,
	principal.ScopeOfflineAccess,
}

// ExchangeService is the token exchange engine: it turns a grant request into
// a finalized principal or a structured denial. All collaborators are passed
// explicitly; the engine keeps no state of its own.
type ExchangeService struct {
	clientService      *oauth2client.ClientService
	userService        *login.UserService
	resourceResolver   *scopes.ResourceResolver
	authzService       *authorization.AuthorizationService
	passwordGrantRoles []string
}

// Option is a function that configures an ExchangeService
type Option func(*ExchangeService)

// WithPasswordGrantRoles sets the baseline role set granted to every
// password-authenticated subject. This is policy, not structure: the default
// mirrors the reference deployment.
func WithPasswordGrantRoles(roles ...string) Option {
	return func(s *ExchangeService) {
		s.passwordGrantRoles = roles
	}
}

// NewExchangeService creates a new token exchange engine with the provided collaborators
func NewExchangeService(clientService *oauth2client.ClientService, userService *login.UserService,
	resourceResolver *scopes.ResourceResolver, authzService *authorization.AuthorizationService,
	opts ...Option) *ExchangeService {
	s := &ExchangeService{
		clientService:      clientService,
		userService:        userService,
		resourceResolver:   resourceResolver,
		authzService:       authzService,
		passwordGrantRoles: []string{"admin", "account"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Exchange processes a grant request and returns the finalized principal with
// all claim destinations computed. Denials are returned as the typed errors
// of this package; anything else is an infrastructure failure.
func (s *ExchangeService) Exchange(ctx context.Context, req GrantRequest) (*principal.Principal, error) {
	switch req.GrantType {
	case oauth2client.GrantTypeClientCredentials:
		return s.exchangeClientCredentials(ctx, req)
	case oauth2client.GrantTypePassword:
		return s.exchangePassword(ctx, req)
	case oauth2client.GrantTypeRefreshToken:
		return s.exchangeRefreshToken(ctx, req)
	default:
		return nil, ErrUnsupportedGrantType{GrantType: req.GrantType}
	}
}

// exchangeClientCredentials handles the client-credentials grant. The client
// secret was already validated by the token endpoint, so a missing client
// record here is a configuration inconsistency.
func (s *ExchangeService) exchangeClientCredentials(ctx context.Context, req GrantRequest) (*principal.Principal, error) {
	client, err := s.clientService.GetClient(ctx, req.ClientID)
	if err != nil {
		return nil, ErrUnknownClient{ClientID: req.ClientID}
	}

	// Requested scopes are granted verbatim; allow-list enforcement is the
	// registry's concern. Surface a mismatch in the logs so a misconfigured
	// client does not pass silently.
	if len(client.Scopes) > 0 && !client.ValidateScope(req.Scopes) {
		slog.Warn("Client requested scopes outside its registered scope list",
			"client_id", client.ClientID, "requested", req.Scopes, "registered", client.Scopes)
	}

	grantedScopes := make([]string, len(req.Scopes))
	copy(grantedScopes, req.Scopes)

	// Use the client_id as the subject identifier
	p := principal.Principal{
		Subject: client.ClientID,
		Scopes:  grantedScopes,
	}
	p.AddClaim(principal.ClaimSubject, client.ClientID)
	p.AddClaim(principal.ClaimName, client.ClientName)

	resources, err := s.resourceResolver.ResolveResources(ctx, grantedScopes)
	if err != nil {
		return nil, ErrInternal{Err: err}
	}
	p.Resources = resources

	// Only openid/offline_access make the grant eligible for silent
	// reauthorization; the persisted record is keyed by that subset
	authScopes := intersect(grantedScopes, reauthorizationScopes)
	auth, err := s.authzService.EnsureAuthorization(ctx, client.ClientID, client.ClientID, authScopes)
	if err != nil {
		return nil, ErrInternal{Err: err}
	}
	p.AuthorizationID = auth.ID.String()

	projected := principal.ProjectDestinations(p)
	return &projected, nil
}

// exchangePassword handles the resource-owner-password grant. An unknown
// username, a wrong password and a locked-out account all produce the same
// denial so callers cannot enumerate accounts.
func (s *ExchangeService) exchangePassword(ctx context.Context, req GrantRequest) (*principal.Principal, error) {
	user, err := s.userService.FindUserByName(ctx, req.Username)
	if err != nil {
		return nil, ErrInternal{Err: err}
	}
	if user == nil {
		return nil, ErrInvalidCredentials{}
	}

	result, err := s.userService.VerifyPassword(ctx, user, req.Password)
	if err != nil {
		return nil, ErrInternal{Err: err}
	}
	if !result.Success {
		return nil, ErrInvalidCredentials{}
	}

	p := principal.Principal{Subject: user.ID.String()}
	p.AddClaim(principal.ClaimSubject, user.ID.String())
	p.AddClaim(principal.ClaimName, user.Username)
	if user.Email != "" {
		p.AddClaim(principal.ClaimEmail, user.Email)
	}
	for _, role := range user.Roles {
		p.AddClaim(principal.ClaimRole, role)
	}
	if user.SecurityStamp != "" {
		p.AddClaim(principal.ClaimSecurityStamp, user.SecurityStamp)
	}

	// Every password-authenticated subject receives the baseline role set
	p.SetClaims(principal.ClaimRole, s.passwordGrantRoles...)

	// Granted scopes follow the allow-list order, not the request order,
	// so token contents stay deterministic
	p.Scopes = intersect(passwordScopeAllowList, req.Scopes)

	// Resources are resolved for the full requested set: audience
	// derivation is scope-driven, independent of which scopes are echoed
	// into the granted set
	resources, err := s.resourceResolver.ResolveResources(ctx, req.Scopes)
	if err != nil {
		return nil, ErrInternal{Err: err}
	}
	p.Resources = resources

	projected := principal.ProjectDestinations(p)
	return &projected, nil
}

// exchangeRefreshToken re-projects claim destinations on the principal
// recovered from the refresh token. Destinations are never persisted with the
// token and must be recomputed on every exchange.
func (s *ExchangeService) exchangeRefreshToken(ctx context.Context, req GrantRequest) (*principal.Principal, error) {
	if req.Principal == nil {
		return nil, ErrInvalidCredentials{}
	}

	projected := principal.ProjectDestinations(*req.Principal)
	return &projected, nil
}

// intersect returns the elements of order that are present in values,
// preserving the order slice's ordering
func intersect(order, values []string) []string {
	result := make([]string, 0, len(order))
	for _, item := range order {
		for _, v := range values {
			if item == v {
				result = append(result, item)
				break
			}
		}
	}
	return result
}
