package iam

import (
	"context"
	"errors"
	"time"

	"github.com/domuslabs/domus/pkg/jwt"
	"github.com/domuslabs/domus/pkg/tenant"
)

// DefaultTokenTTL is the access token lifetime issued on login.
const DefaultTokenTTL = 12 * time.Hour

// AuthService authenticates users against the current tenant's store and
// issues access tokens pinned to that tenant.
type AuthService struct {
	repo     *Repository
	tokens   *jwt.Service
	tokenTTL time.Duration
}

// NewAuthService creates an auth service. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewAuthService(repo *Repository, tokens *jwt.Service, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{repo: repo, tokens: tokens, tokenTTL: ttl}
}

// Login verifies the credentials against the tenant the request resolved to
// and returns a signed access token carrying the user ID and the tenant
// identifier. Unknown emails and wrong passwords are indistinguishable to
// the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *User, error) {
	record, err := tenant.RecordFromContext(ctx)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}
	if !user.Active {
		return "", nil, ErrUserInactive
	}

	token, err := s.tokens.Generate(jwt.NewAccessClaims(user.ID, record.Identifier, s.tokenTTL))
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
