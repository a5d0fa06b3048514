// Package exchange implements the token exchange engine for simple-oauth2.
//
// The engine turns a parsed grant request (client-credentials, password or
// refresh-token) into a finalized principal: it resolves the caller's
// identity, derives claims and granted scopes, resolves resource audiences,
// manages long-lived authorization records for silent reauthorization and
// computes per-claim token destinations. Token signing and HTTP handling live
// outside the engine.
//
// # Overview
//
// The exchange package provides:
//   - GrantRequest and the Exchange state machine over grant types
//   - Typed denial errors (unknown client, invalid credentials, unsupported
//     grant type, internal)
//   - Lazy creation of permanent authorizations on the client-credentials path
//
// # Basic Usage
//
//	import "github.com/tendant/simple-oauth2/pkg/exchange"
//
//	engine := exchange.NewExchangeService(clientService, userService, resolver, authzService)
//
//	p, err := engine.Exchange(ctx, exchange.GrantRequest{
//		GrantType: oauth2client.GrantTypeClientCredentials,
//		ClientID:  "server_api_1",
//		Scopes:    []string{"api1", "openid", "offline_access"},
//	})
//
// Each request is processed independently; the only side effect is the
// at-most-once creation of an authorization record per
// (subject, client, scope-subset) key.
//
// # Related Packages
//
//   - pkg/principal - Principal model and claims projector
//   - pkg/response - Envelope shaping of engine results
//   - pkg/tokengenerator - Token issuance from finalized principals
package exchange
