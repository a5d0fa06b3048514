package client

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-oauth2/pkg/oauth2client"
)

// ResourceHandle serves a demo protected resource guarded by access tokens
type ResourceHandle struct {
	clientService *oauth2client.ClientService
}

// NewResourceHandle creates a new protected resource handler
func NewResourceHandle(clientService *oauth2client.ClientService) *ResourceHandle {
	return &ResourceHandle{clientService: clientService}
}

// GetMessage greets the authenticated caller by its registered display name
// (GET /message)
func (h *ResourceHandle) GetMessage(w http.ResponseWriter, r *http.Request) {
	authUser := GetAuthUser(r)
	if authUser == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	oauthClient, err := h.clientService.GetClient(r.Context(), authUser.Subject)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s has been successfully authenticated.", oauthClient.ClientName)
}

// Routes returns a router serving the protected resource behind the verifier
// and auth-user middleware
func Routes(h *ResourceHandle, verifier func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(verifier)
	r.Use(AuthUserMiddleware)
	r.Get("/message", h.GetMessage)
	return r
}
