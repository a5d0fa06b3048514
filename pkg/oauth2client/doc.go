// Package oauth2client provides OAuth2 client registry operations for simple-oauth2.
//
// This package manages OAuth2 client records (id, display name, allowed grant
// types, allowed scopes) and client secret validation. Client records are
// immutable for the duration of a request once loaded.
//
// # Overview
//
// The oauth2client package provides:
//   - OAuth2Client type with grant type and scope validation helpers
//   - Repository pattern for client storage abstraction
//   - In-memory repository implementation
//   - ClientService with bcrypt secret validation and startup registration
//
// # Basic Usage
//
//	import "github.com/tendant/simple-oauth2/pkg/oauth2client"
//
//	repo := oauth2client.NewInMemoryOAuth2ClientRepository()
//	service := oauth2client.NewClientService(repo)
//
//	// Register a client at startup
//	client, err := service.RegisterClient(ctx, &oauth2client.OAuth2Client{
//		ClientID:   "server_api_1",
//		ClientName: "Server Api 1",
//		GrantTypes: []string{oauth2client.GrantTypeClientCredentials},
//		Scopes:     []string{"api1"},
//		ClientType: "confidential",
//	}, "388D45FA-B36B-4988-BA59-B187D329C207")
//
//	// Validate credentials on the token endpoint
//	client, err = service.ValidateClientCredentials(ctx, clientID, clientSecret)
package oauth2client
