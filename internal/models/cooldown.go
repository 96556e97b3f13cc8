package models

import (
	"time"

	"github.com/google/uuid"
)

// Cooldown blocks a (user, action) pair until the expiry passes.
type Cooldown struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Action        string    `json:"action"`
	CooldownUntil time.Time `json:"cooldown_until"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c *Cooldown) IsActive(now time.Time) bool {
	return c.CooldownUntil.After(now)
}
