package community

import (
	"time"

	"github.com/google/uuid"
)

// Community is the top of the residential hierarchy within a tenant:
// community → block → floor → unit.
type Community struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Block is a building within a community.
type Block struct {
	ID          uuid.UUID `json:"id"`
	CommunityID uuid.UUID `json:"community_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Floor is a level within a block.
type Floor struct {
	ID        uuid.UUID `json:"id"`
	BlockID   uuid.UUID `json:"block_id"`
	Number    int       `json:"number"`
	CreatedAt time.Time `json:"created_at"`
}

// Unit is a residence on a floor, optionally owned by a user.
type Unit struct {
	ID          uuid.UUID  `json:"id"`
	FloorID     uuid.UUID  `json:"floor_id"`
	Number      string     `json:"number"`
	Area        float64    `json:"area_sqm"`
	OwnerUserID *uuid.UUID `json:"owner_user_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
