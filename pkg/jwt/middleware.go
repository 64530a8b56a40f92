package jwt

import (
	"net/http"
	"strings"
)

// SkipFunc decides whether a request bypasses token verification (bootstrap
// endpoints such as login).
type SkipFunc func(r *http.Request) bool

// SkipPaths returns a SkipFunc matching the given path prefixes.
func SkipPaths(prefixes ...string) SkipFunc {
	return func(r *http.Request) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(r.URL.Path, p) {
				return true
			}
		}
		return false
	}
}

// Middleware verifies the bearer token and injects its AccessClaims into the
// request context. Requests matching skip pass through unverified; everyone
// else without a valid token gets 401.
func Middleware(service *Service, skip SkipFunc) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip != nil && skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := BearerToken(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			var claims AccessClaims
			if err := service.Parse(tokenString, &claims); err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := WithToken(r.Context(), tokenString)
			ctx = WithClaims(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header per RFC 6750.
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrInvalidToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}
