package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat is a Telegram group holding a reward pool wallet per chain.
type Chat struct {
	ID             uuid.UUID `json:"id"`
	TelegramChatID int64     `json:"telegram_chat_id"`
	Title          string    `json:"title"`
	Username       *string   `json:"username,omitempty"`
	IsActive       bool      `json:"is_active"`
	IsPublic       bool      `json:"is_public"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
