package jwt

import (
	"time"

	"github.com/google/uuid"
)

// TenantClaimName is the claim carrying the tenant identifier in access
// tokens. Casing matches what login issues and the resolver expects.
const TenantClaimName = "TenantId"

// AccessClaims are the claims issued on login and consumed by the tenant
// resolver and the permission guard. Subject carries the user ID; TenantID
// pins the token to the tenant the user authenticated against.
type AccessClaims struct {
	StandardClaims
	TenantID string `json:"TenantId,omitempty"`
}

// NewAccessClaims builds claims for a user/tenant pair with the given
// lifetime.
func NewAccessClaims(userID uuid.UUID, tenantID string, ttl time.Duration) AccessClaims {
	now := time.Now()
	return AccessClaims{
		StandardClaims: StandardClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		TenantID: tenantID,
	}
}

// UserID parses the subject claim as a user UUID.
func (c AccessClaims) UserID() (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}
