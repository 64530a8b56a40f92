// Package jwt provides HMAC-SHA256 access tokens for the API: a small
// generate/verify service, the AccessClaims shape issued on login (subject =
// user ID, TenantId = tenant the session is pinned to), and middleware that
// verifies bearer tokens and exposes the claims through context accessors.
package jwt
