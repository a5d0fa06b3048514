package wellknown

// AuthorizationServerMetadata represents the OAuth 2.0 Authorization Server
// Metadata as defined in RFC 8414: https://datatracker.ietf.org/doc/html/rfc8414
type AuthorizationServerMetadata struct {
	// REQUIRED: The authorization server's issuer identifier
	Issuer string `json:"issuer"`

	// REQUIRED: URL of the authorization server's token endpoint
	TokenEndpoint string `json:"token_endpoint"`

	// OPTIONAL: URL of the authorization server's introspection endpoint
	IntrospectionEndpoint string `json:"introspection_endpoint,omitempty"`

	// OPTIONAL: Array of scope values that the authorization server supports
	ScopesSupported []string `json:"scopes_supported,omitempty"`

	// OPTIONAL: Array of grant_type values that the authorization server supports
	GrantTypesSupported []string `json:"grant_types_supported,omitempty"`

	// OPTIONAL: Array of client authentication methods supported by the token endpoint
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported,omitempty"`
}

// Config holds configuration for well-known endpoints
type Config struct {
	// The issuer identifier of this authorization server
	Issuer string

	// Base URL for constructing endpoint URLs
	BaseURL string

	// Path prefix under which the connect endpoints are mounted
	ConnectPrefix string

	// Supported scopes
	Scopes []string
}

// NewAuthorizationServerMetadata creates a new AuthorizationServerMetadata instance
func NewAuthorizationServerMetadata(config Config) *AuthorizationServerMetadata {
	scopes := config.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "profile", "email", "roles", "offline_access"}
	}

	prefix := config.ConnectPrefix
	if prefix == "" {
		prefix = "/api/v1.0/connect"
	}

	return &AuthorizationServerMetadata{
		Issuer:                            config.Issuer,
		TokenEndpoint:                     config.BaseURL + prefix + "/token",
		IntrospectionEndpoint:             config.BaseURL + prefix + "/introspect",
		ScopesSupported:                   scopes,
		GrantTypesSupported:               []string{"client_credentials", "password", "refresh_token"},
		TokenEndpointAuthMethodsSupported: []string{"client_secret_post"},
	}
}
