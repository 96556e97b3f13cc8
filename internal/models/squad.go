package models

import (
	"time"

	"github.com/google/uuid"
)

// Squad is a user-owned group with its own pool wallet and member balances.
// The owner is not listed among members but counts toward membership.
type Squad struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	OwnerUserID uuid.UUID `json:"owner_user_id"`
	IsActive    bool      `json:"is_active"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SquadMember struct {
	ID       uuid.UUID `json:"id"`
	SquadID  uuid.UUID `json:"squad_id"`
	UserID   uuid.UUID `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}
