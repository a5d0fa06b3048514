package principal

// Standard claim type constants aligned with OIDC claim names
const (
	ClaimSubject       = "sub"
	ClaimName          = "name"
	ClaimEmail         = "email"
	ClaimRole          = "role"
	ClaimSecurityStamp = "security_stamp"
)

// Destination constants specify which issued tokens a claim is copied into
const (
	DestinationAccessToken   = "access_token"
	DestinationIdentityToken = "id_token"
)

// Claim represents a single claim attached to a principal along with the
// token destinations it will be serialized into
type Claim struct {
	Type         string   `json:"type"`
	Value        string   `json:"value"`
	Destinations []string `json:"destinations,omitempty"`
}

// HasDestination checks if the claim is destined for the given token type
func (c Claim) HasDestination(destination string) bool {
	for _, d := range c.Destinations {
		if d == destination {
			return true
		}
	}
	return false
}

// Principal represents an authenticated identity together with its claims,
// granted scopes and resolved resource audiences. It is the unit handed to
// the token generator for signing.
type Principal struct {
	Subject         string   `json:"subject"`
	Claims          []Claim  `json:"claims,omitempty"`
	Scopes          []string `json:"scopes,omitempty"`
	Resources       []string `json:"resources,omitempty"`
	AuthorizationID string   `json:"authorization_id,omitempty"`
}

// AddClaim appends a claim of the given type and value. Destinations are left
// unset until the claims projector runs.
func (p *Principal) AddClaim(claimType, value string) {
	p.Claims = append(p.Claims, Claim{Type: claimType, Value: value})
}

// SetClaims replaces all claims of the given type with the provided values
func (p *Principal) SetClaims(claimType string, values ...string) {
	kept := p.Claims[:0]
	for _, c := range p.Claims {
		if c.Type != claimType {
			kept = append(kept, c)
		}
	}
	p.Claims = kept
	for _, v := range values {
		p.Claims = append(p.Claims, Claim{Type: claimType, Value: v})
	}
}

// ClaimValues returns the values of all claims of the given type in order
func (p *Principal) ClaimValues(claimType string) []string {
	var values []string
	for _, c := range p.Claims {
		if c.Type == claimType {
			values = append(values, c.Value)
		}
	}
	return values
}

// FirstClaim returns the value of the first claim of the given type
func (p *Principal) FirstClaim(claimType string) (string, bool) {
	for _, c := range p.Claims {
		if c.Type == claimType {
			return c.Value, true
		}
	}
	return "", false
}

// HasScope checks if the principal has been granted the given scope
func (p *Principal) HasScope(scope string) bool {
	for _, s := range p.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
