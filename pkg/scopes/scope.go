package scopes

// Scope represents a named permission unit together with the resource
// audiences it authorizes access to
type Scope struct {
	Name      string
	Resources []string
}

// DefaultScopes contains hardcoded scopes for testing
var DefaultScopes = map[string]*Scope{
	"api1": {
		Name:      "api1",
		Resources: []string{"server_api_1"},
	},
}
