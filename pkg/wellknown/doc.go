// Package wellknown provides OAuth 2.0 discovery endpoints.
//
// It implements RFC 8414 (OAuth 2.0 Authorization Server Metadata) and the
// subset of OpenID Connect Discovery 1.0 this server supports, so clients can
// locate the token and introspection endpoints without manual configuration.
//
// # Basic Usage
//
//	handler := wellknown.NewHandler(wellknown.Config{
//		Issuer:  "https://auth.example.com",
//		BaseURL: "https://auth.example.com",
//		Scopes:  []string{"api1", "openid", "offline_access"},
//	})
//
//	mux := http.NewServeMux()
//	handler.RegisterRoutes(mux)
package wellknown
