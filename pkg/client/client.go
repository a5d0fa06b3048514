package client

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth/v5"
	"github.com/tendant/simple-oauth2/pkg/tokengenerator"
)

// AuthUser is the caller identity rebuilt from a verified access token
type AuthUser struct {
	Subject         string
	DisplayName     string
	Email           string
	Roles           []string
	Scopes          []string
	AuthorizationID string
}

func (u AuthUser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("subject", u.Subject),
		slog.Any("roles", u.Roles),
		slog.Any("scopes", u.Scopes),
	)
}

// HasAnyRole reports whether the user carries at least one of the given roles
func (u *AuthUser) HasAnyRole(roles ...string) bool {
	for _, userRole := range u.Roles {
		for _, role := range roles {
			if userRole == role {
				return true
			}
		}
	}
	return false
}

// HasAnyScope reports whether the user was granted at least one of the given scopes
func (u *AuthUser) HasAnyScope(scopes ...string) bool {
	for _, userScope := range u.Scopes {
		for _, scope := range scopes {
			if userScope == scope {
				return true
			}
		}
	}
	return false
}

// HasAllScopes reports whether the user was granted every one of the given scopes
func (u *AuthUser) HasAllScopes(scopes ...string) bool {
	for _, scope := range scopes {
		found := false
		for _, userScope := range u.Scopes {
			if userScope == scope {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "client context value " + k.name
}

const ACCESS_TOKEN_NAME = "access_token"

var AuthUserKey = &contextKey{"AuthUser"}

// GetAuthUser returns the authenticated user placed on the request context by
// AuthUserMiddleware, or nil when the request is unauthenticated
func GetAuthUser(r *http.Request) *AuthUser {
	user, _ := r.Context().Value(AuthUserKey).(*AuthUser)
	return user
}

// Verifier verifies the bearer token from the Authorization header or the
// access_token cookie and stores the parse result on the context
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return jwtauth.Verify(ja, jwtauth.TokenFromHeader, TokenFromCookie)(next)
	}
}

func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(ACCESS_TOKEN_NAME)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// AuthUserMiddleware rebuilds the AuthUser from the verified token claims.
// Only access tokens are accepted; refresh and identity tokens presented as
// bearer credentials are rejected.
func AuthUserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			slog.Debug("Missing or invalid bearer token", "error", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if use, _ := claims["token_use"].(string); use != tokengenerator.TokenUseAccess {
			slog.Warn("Bearer credential is not an access token", "token_use", claims["token_use"])
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		authUser := &AuthUser{}
		if sub, ok := claims["sub"].(string); ok {
			authUser.Subject = sub
		}
		if authUser.Subject == "" {
			http.Error(w, "missing subject in token", http.StatusUnauthorized)
			return
		}

		if scopeStr, ok := claims["scope"].(string); ok && scopeStr != "" {
			authUser.Scopes = strings.Fields(scopeStr)
		}
		if authzID, ok := claims["authorization_id"].(string); ok {
			authUser.AuthorizationID = authzID
		}

		if extraClaims, ok := claims["extra_claims"].(map[string]interface{}); ok {
			if name, ok := extraClaims["name"].(string); ok {
				authUser.DisplayName = name
			}
			if email, ok := extraClaims["email"].(string); ok {
				authUser.Email = email
			}
			authUser.Roles = stringValues(extraClaims["role"])
		}

		slog.Debug("Authenticated request", "user", authUser)

		ctx := context.WithValue(r.Context(), AuthUserKey, authUser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// stringValues coerces a claim value that may be a single string or a list
// of strings into a string slice
func stringValues(v interface{}) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []string:
		return val
	case []interface{}:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
