package client

import (
	"log/slog"
	"net/http"
)

// RequireRole returns a middleware that checks if the authenticated user has
// any of the specified roles.
// Returns 401 Unauthorized if not authenticated.
// Returns 403 Forbidden if authenticated but missing required role.
// Must be used after AuthUserMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authUser := GetAuthUser(r)

			if authUser == nil {
				slog.Debug("Unauthenticated request to role-protected resource", "requiredRoles", roles)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !authUser.HasAnyRole(roles...) {
				slog.Warn("User lacks required role",
					"subject", authUser.Subject,
					"userRoles", authUser.Roles,
					"requiredRoles", roles)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireScope returns a middleware that checks if the access token was
// granted any of the specified scopes.
// Returns 401 Unauthorized if not authenticated.
// Returns 403 Forbidden if authenticated but missing required scope.
// Must be used after AuthUserMiddleware.
func RequireScope(scopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authUser := GetAuthUser(r)

			if authUser == nil {
				slog.Debug("Unauthenticated request to scope-protected resource", "requiredScopes", scopes)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !authUser.HasAnyScope(scopes...) {
				slog.Warn("User lacks required scope",
					"subject", authUser.Subject,
					"userScopes", authUser.Scopes,
					"requiredScopes", scopes)
				http.Error(w, "Forbidden: insufficient scope", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAllScopes returns a middleware that checks if the access token was
// granted ALL of the specified scopes.
// Must be used after AuthUserMiddleware.
func RequireAllScopes(scopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authUser := GetAuthUser(r)

			if authUser == nil {
				slog.Debug("Unauthenticated request to scope-protected resource", "requiredScopes", scopes)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !authUser.HasAllScopes(scopes...) {
				slog.Warn("User lacks all required scopes",
					"subject", authUser.Subject,
					"userScopes", authUser.Scopes,
					"requiredScopes", scopes)
				http.Error(w, "Forbidden: insufficient scope", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
