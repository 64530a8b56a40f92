package jwt

import (
	"context"

	"github.com/google/uuid"
)

type claimsKey struct{}
type tokenKey struct{}

// WithClaims attaches verified access claims to the context.
func WithClaims(ctx context.Context, claims AccessClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext retrieves verified access claims from the context.
func ClaimsFromContext(ctx context.Context) (AccessClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(AccessClaims)
	return claims, ok
}

// WithToken attaches the raw token string to the context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext retrieves the raw token string from the context.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok
}

// TenantIDFromContext returns the TenantId claim of the verified token.
// Tokens without the claim report false; callers must fail closed rather
// than fall back to a default tenant.
func TenantIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.TenantID == "" {
		return "", false
	}
	return claims.TenantID, true
}

// UserIDFromContext returns the subject claim of the verified token parsed
// as a user UUID.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return uuid.UUID{}, false
	}
	return claims.UserID()
}
