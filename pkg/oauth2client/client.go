package oauth2client

// Grant type constants supported by the token endpoint
const (
	GrantTypeClientCredentials = "client_credentials"
	GrantTypePassword          = "password"
	GrantTypeRefreshToken      = "refresh_token"
)

// OAuth2Client represents an OAuth2 client configuration
type OAuth2Client struct {
	ClientID         string
	ClientSecretHash string
	ClientName       string
	GrantTypes       []string
	Scopes           []string
	ClientType       string // "public" or "confidential"
}

// ValidateGrantType checks if the provided grant type is allowed for this client
func (c *OAuth2Client) ValidateGrantType(grantType string) bool {
	for _, allowedType := range c.GrantTypes {
		if allowedType == grantType {
			return true
		}
	}
	return false
}

// ValidateScope checks if the provided scopes are allowed for this client
func (c *OAuth2Client) ValidateScope(requestedScopes []string) bool {
	for _, requestedScope := range requestedScopes {
		found := false
		for _, allowedScope := range c.Scopes {
			if allowedScope == requestedScope {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
