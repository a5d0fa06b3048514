package api

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns a router serving the token and introspection endpoints,
// intended to be mounted under the connect prefix
func Routes(h *Handle) chi.Router {
	r := chi.NewRouter()
	r.Post("/token", h.Token)
	r.Post("/introspect", h.Introspect)
	return r
}
