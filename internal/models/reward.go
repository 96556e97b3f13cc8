package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reward kinds
const (
	RewardKindChat     = "chat_reward"
	RewardKindDrop     = "squad_drop"
	RewardKindReferral = "referral"
)

// Reward records a distribution out of a pool balance (or a referral bonus).
// The debit and credit that back it are applied in the same transaction that
// inserts this row.
type Reward struct {
	ID            uuid.UUID       `json:"id"`
	Kind          string          `json:"kind"`
	PoolBalanceID *uuid.UUID      `json:"pool_balance_id,omitempty"`
	FromUserID    *uuid.UUID      `json:"from_user_id,omitempty"`
	ToUserID      uuid.UUID       `json:"to_user_id"`
	TokenID       uuid.UUID       `json:"token_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        *string         `json:"reason,omitempty"`
	TransactionID *uuid.UUID      `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
