// Package principal defines the authenticated principal model and the claims
// destination projector for simple-oauth2.
//
// A principal is the unit signed into tokens: a subject identifier plus its
// claims, granted scopes and resolved resource audiences. Claims carry a
// destination set deciding which token types (access token, identity token)
// each claim is copied into.
//
// # Overview
//
// The principal package provides:
//   - Principal and Claim types shared by all grant flows
//   - Claim and destination constants
//   - ProjectDestinations, the pure claims-to-destinations rule table
//
// # Basic Usage
//
//	import "github.com/tendant/simple-oauth2/pkg/principal"
//
//	p := principal.Principal{Subject: "user-123", Scopes: []string{"profile"}}
//	p.AddClaim(principal.ClaimName, "John Doe")
//
//	// Compute destinations before the principal is handed to token issuance
//	p = principal.ProjectDestinations(p)
//
// # Related Packages
//
//   - pkg/exchange - Grant exchange engine producing principals
//   - pkg/tokengenerator - Token issuance consuming projected principals
package principal
