package wellknown

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Handler provides HTTP handlers for well-known endpoints
type Handler struct {
	config Config
}

// NewHandler creates a new well-known endpoints handler
func NewHandler(config Config) *Handler {
	return &Handler{
		config: config,
	}
}

// AuthorizationServerMetadata handles GET /.well-known/oauth-authorization-server
func (h *Handler) AuthorizationServerMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	metadata := NewAuthorizationServerMetadata(h.config)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if err := json.NewEncoder(w).Encode(metadata); err != nil {
		slog.Error("Failed to encode authorization server metadata", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// OpenIDConfiguration handles GET /.well-known/openid-configuration
// This endpoint provides OpenID Connect Discovery 1.0 compatibility
func (h *Handler) OpenIDConfiguration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	metadata := NewAuthorizationServerMetadata(h.config)

	oidcMetadata := map[string]interface{}{
		"issuer":                                metadata.Issuer,
		"token_endpoint":                        metadata.TokenEndpoint,
		"introspection_endpoint":                metadata.IntrospectionEndpoint,
		"scopes_supported":                      metadata.ScopesSupported,
		"grant_types_supported":                 metadata.GrantTypesSupported,
		"token_endpoint_auth_methods_supported": metadata.TokenEndpointAuthMethodsSupported,
		"subject_types_supported":               []string{"public"},
		"id_token_signing_alg_values_supported": []string{"HS256"},
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if err := json.NewEncoder(w).Encode(oidcMetadata); err != nil {
		slog.Error("Failed to encode OpenID configuration", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// RegisterRoutes registers all well-known endpoint routes with the provided mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/.well-known/oauth-authorization-server", h.AuthorizationServerMetadata)
	mux.HandleFunc("/.well-known/openid-configuration", h.OpenIDConfiguration)
}

// RegisterRoutesWithPrefix registers all well-known endpoint routes with a
// custom handler function, for integrating with existing routing systems
func (h *Handler) RegisterRoutesWithPrefix(registerFunc func(pattern string, handler http.HandlerFunc)) {
	registerFunc("/.well-known/oauth-authorization-server", h.AuthorizationServerMetadata)
	registerFunc("/.well-known/openid-configuration", h.OpenIDConfiguration)
}
