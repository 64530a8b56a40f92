package attachment

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/domuslabs/domus/pkg/file"
	"github.com/domuslabs/domus/pkg/tenant"
)

// MaxUploadSize caps a single attachment at 25 MiB.
const MaxUploadSize = 25 << 20

// Service pairs metadata rows in the tenant database with bytes in a
// file.Storage backend. Storage paths are prefixed with the tenant
// identifier so backends shared across tenants stay partitioned.
type Service struct {
	repo    *Repository
	storage file.Storage
	logger  *slog.Logger
}

func NewService(repo *Repository, storage file.Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, storage: storage, logger: logger}
}

// Upload validates and stores the file, then records its metadata. If the
// metadata insert fails the stored bytes are removed again.
func (s *Service) Upload(ctx context.Context, ownerID uuid.UUID, entityType string, entityID uuid.UUID, fh *multipart.FileHeader) (*Attachment, error) {
	if fh == nil {
		return nil, ErrFileMissing
	}
	if err := file.ValidateSize(fh, MaxUploadSize); err != nil {
		return nil, err
	}
	record, err := tenant.RecordFromContext(ctx)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	path := fmt.Sprintf("%s/%s/%s/%s%s",
		record.Identifier, entityType, entityID, id, file.GetExtension(fh))

	stored, err := s.storage.Save(ctx, fh, path)
	if err != nil {
		return nil, err
	}

	a := &Attachment{
		ID:         id,
		OwnerID:    ownerID,
		EntityType: entityType,
		EntityID:   entityID,
		Filename:   file.SanitizeFilename(fh.Filename),
		MIMEType:   stored.MIMEType,
		SizeBytes:  stored.Size,
		Path:       stored.Path,
	}
	if _, err := s.repo.Create(ctx, a); err != nil {
		if delErr := s.storage.Delete(ctx, stored.Path); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back stored file",
				slog.String("path", stored.Path), slog.Any("error", delErr))
		}
		return nil, err
	}
	a.URL = s.storage.URL(a.Path)
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Attachment, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a.URL = s.storage.URL(a.Path)
	return a, nil
}

func (s *Service) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]Attachment, error) {
	as, err := s.repo.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	for i := range as {
		as[i].URL = s.storage.URL(as[i].Path)
	}
	return as, nil
}

// Delete removes the metadata row first so a storage failure cannot leave
// a dangling record pointing at missing bytes.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, a.Path); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete stored file",
			slog.String("path", a.Path), slog.Any("error", err))
	}
	return nil
}
