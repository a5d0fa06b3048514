package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/tendant/simple-oauth2/pkg/exchange"
	"github.com/tendant/simple-oauth2/pkg/oauth2client"
	"github.com/tendant/simple-oauth2/pkg/response"
	"github.com/tendant/simple-oauth2/pkg/tokengenerator"
)

// Handle implements the token and introspection endpoints
type Handle struct {
	engine        *exchange.ExchangeService
	clientService *oauth2client.ClientService
	issuer        *tokengenerator.TokenIssuer
}

// NewHandle creates a new token endpoint handler
func NewHandle(engine *exchange.ExchangeService, clientService *oauth2client.ClientService,
	issuer *tokengenerator.TokenIssuer) *Handle {
	return &Handle{
		engine:        engine,
		clientService: clientService,
		issuer:        issuer,
	}
}

// Token implements the OAuth2 token endpoint
// (POST /token)
func (h *Handle) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Error("Failed to parse token request form", "error", err)
		renderEnvelope(w, r, response.ShapeError(exchange.ErrInternal{Err: err}))
		return
	}

	grantType := r.PostFormValue("grant_type")
	clientID := r.PostFormValue("client_id")

	req := exchange.GrantRequest{
		GrantType: grantType,
		ClientID:  clientID,
		Username:  r.PostFormValue("username"),
		Password:  r.PostFormValue("password"),
		Scopes:    splitScopes(r.PostFormValue("scope")),
	}

	// Client authentication happens at the endpoint; the engine only sees
	// requests whose secret already checked out
	if grantType == oauth2client.GrantTypeClientCredentials {
		clientSecret := r.PostFormValue("client_secret")
		if _, err := h.clientService.ValidateClientCredentials(r.Context(), clientID, clientSecret); err != nil {
			slog.Warn("Client authentication failed", "client_id", clientID)
			renderEnvelope(w, r, response.ShapeError(exchange.ErrUnknownClient{ClientID: clientID}))
			return
		}
	}

	if grantType == oauth2client.GrantTypeRefreshToken {
		recovered, err := h.issuer.RecoverPrincipal(r.PostFormValue("refresh_token"))
		if err != nil {
			slog.Warn("Refresh token rejected", "error", err)
			renderEnvelope(w, r, response.ShapeError(exchange.ErrInvalidCredentials{}))
			return
		}
		req.Principal = recovered
	}

	p, err := h.engine.Exchange(r.Context(), req)
	if err != nil {
		slog.Warn("Token exchange denied", "grant_type", grantType, "client_id", clientID, "error", err)
		renderEnvelope(w, r, response.ShapeError(err))
		return
	}

	params, err := h.issuer.IssueTokens(*p)
	if err != nil {
		slog.Error("Failed to issue tokens", "subject", p.Subject, "error", err)
		renderEnvelope(w, r, response.ShapeError(exchange.ErrInternal{Err: err}))
		return
	}

	renderEnvelope(w, r, response.Shape(params))
}

// Introspect implements the token introspection endpoint
// (POST /introspect)
func (h *Handle) Introspect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Error("Failed to parse introspection request form", "error", err)
		renderEnvelope(w, r, response.ShapeError(exchange.ErrInternal{Err: err}))
		return
	}

	p, err := h.issuer.Introspect(r.PostFormValue("token"))
	if err != nil {
		// Unparseable or expired tokens introspect as inactive, not as errors
		renderEnvelope(w, r, response.Shape(map[string]interface{}{"active": false}))
		return
	}

	renderEnvelope(w, r, response.ShapeIntrospection(p))
}

func renderEnvelope(w http.ResponseWriter, r *http.Request, env response.TokenResponseEnvelope) {
	render.Status(r, env.StatusCode)
	render.JSON(w, r, env)
}

func splitScopes(scope string) []string {
	if scope == "" {
		return nil
	}
	return strings.Fields(scope)
}
