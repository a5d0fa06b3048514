package principal

// Scope names that control identity token visibility
const (
	ScopeOpenID        = "openid"
	ScopeProfile       = "profile"
	ScopeEmail         = "email"
	ScopeRoles         = "roles"
	ScopeOfflineAccess = "offline_access"
)

// ProjectDestinations computes the destination set of every claim on the
// principal and returns the updated principal. Claims are not automatically
// included in issued tokens: a claim without destinations is dropped by the
// token generator.
//
// The rules are:
//   - name, email and role claims always go to the access token, and
//     additionally to the identity token when the profile, email or roles
//     scope was granted respectively
//   - security stamp claims never appear in any token
//   - every other claim type goes to the access token only
//
// The function is pure and idempotent; running it again after scopes change
// recomputes destinations from scratch.
func ProjectDestinations(p Principal) Principal {
	claims := make([]Claim, len(p.Claims))
	for i, c := range p.Claims {
		c.Destinations = destinationsFor(c, p)
		claims[i] = c
	}
	p.Claims = claims
	return p
}

func destinationsFor(c Claim, p Principal) []string {
	// A non-nil slice marks the claim as projected even when it ends up
	// excluded from every token.
	destinations := make([]string, 0, 2)

	switch c.Type {
	case ClaimName:
		destinations = append(destinations, DestinationAccessToken)
		if p.HasScope(ScopeProfile) {
			destinations = append(destinations, DestinationIdentityToken)
		}

	case ClaimEmail:
		destinations = append(destinations, DestinationAccessToken)
		if p.HasScope(ScopeEmail) {
			destinations = append(destinations, DestinationIdentityToken)
		}

	case ClaimRole:
		destinations = append(destinations, DestinationAccessToken)
		if p.HasScope(ScopeRoles) {
			destinations = append(destinations, DestinationIdentityToken)
		}

	// Never include the security stamp in the access and identity tokens,
	// as it's a secret value.
	case ClaimSecurityStamp:

	default:
		destinations = append(destinations, DestinationAccessToken)
	}

	return destinations
}
