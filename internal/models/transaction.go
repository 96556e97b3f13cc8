package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TxTypeDeposit    = "deposit"
	TxTypeWithdrawal = "withdrawal"
	TxTypeTransfer   = "transfer"
	TxTypeReward     = "reward"
	TxTypeDrop       = "drop"
)

// Transaction statuses
const (
	TxStatusPending   = "pending"
	TxStatusConfirmed = "confirmed"
	TxStatusFailed    = "failed"
	TxStatusCancelled = "cancelled"
)

// Transaction is an immutable audit record of a claimed transfer.
// Transactions are recorded, not executed: nothing here talks to a chain.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Hash        *string         `json:"hash,omitempty"`
	ChainID     uuid.UUID       `json:"chain_id"`
	FromAddress string          `json:"from_address"`
	ToAddress   string          `json:"to_address"`
	TokenID     uuid.UUID       `json:"token_id"`
	Amount      decimal.Decimal `json:"amount"`

	Type   string `json:"type"`
	Status string `json:"status"`

	GasUsed     *int64           `json:"gas_used,omitempty"`
	GasPrice    *decimal.Decimal `json:"gas_price,omitempty"`
	BlockNumber *int64           `json:"block_number,omitempty"`
	BlockHash   *string          `json:"block_hash,omitempty"`

	UserID *uuid.UUID `json:"user_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}
