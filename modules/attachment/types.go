package attachment

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is the metadata record for an uploaded file. The bytes live
// in file.Storage; the record lives in the tenant database under a
// tenant-scoped storage path.
type Attachment struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	Filename   string    `json:"filename"`
	MIMEType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	Path       string    `json:"-"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"created_at"`
}
