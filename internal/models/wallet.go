package models

import (
	"time"

	"github.com/google/uuid"
)

// Wallet owner kinds. A wallet binds one EVM address per chain to exactly
// one owning entity; the address is unique per chain across all owners.
const (
	OwnerUser  = "user"
	OwnerChat  = "chat"
	OwnerSquad = "squad"
)

type Wallet struct {
	ID        uuid.UUID `json:"id"`
	OwnerKind string    `json:"owner_kind"`
	OwnerID   uuid.UUID `json:"owner_id"`
	ChainID   uuid.UUID `json:"chain_id"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
