package models

import (
	"time"

	"github.com/google/uuid"
)

// User is keyed on the Telegram numeric id; that is the only natural key.
// The handle (username_tg) is globally unique when present but not reserved:
// registration evicts it from any previous holder.
type User struct {
	ID             uuid.UUID `json:"id"`
	TelegramUserID int64     `json:"telegram_user_id"`
	UsernameTG     *string   `json:"username_tg,omitempty"`
	FirstName      *string   `json:"first_name,omitempty"`
	LastName       *string   `json:"last_name,omitempty"`

	IsActive           bool `json:"is_active"`
	IsStaff            bool `json:"is_staff"`
	FullPermissionsAPI bool `json:"full_permissions_api"`
	HasBetaAccess      bool `json:"has_beta_access"`
	HasAlphaAccess     bool `json:"has_alpha_access"`

	// Set once at creation, never reassigned.
	ReferredByID *uuid.UUID `json:"referred_by_id,omitempty"`

	IsBotSuspected bool `json:"is_bot_suspected"`

	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func (u *User) DisplayName() string {
	switch {
	case u.FirstName != nil && u.LastName != nil:
		return *u.FirstName + " " + *u.LastName
	case u.FirstName != nil:
		return *u.FirstName
	case u.UsernameTG != nil:
		return *u.UsernameTG
	default:
		return "user"
	}
}
