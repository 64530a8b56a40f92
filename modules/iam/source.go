package iam

import (
	"context"

	"github.com/google/uuid"
)

// PermissionSource adapts the repository's permission-set query to the
// permission.Source interface. It reads the tenant handle from the context
// like every other repository call.
type PermissionSource struct {
	repo *Repository
}

// NewPermissionSource returns a source over the given repository.
func NewPermissionSource(repo *Repository) *PermissionSource {
	return &PermissionSource{repo: repo}
}

func (s *PermissionSource) Load(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.repo.UserModuleActions(ctx, userID)
}
