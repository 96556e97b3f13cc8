package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EVMChain is a supported EVM-compatible network. Chains are seeded via
// migrations and toggled with is_active; chain_id is globally unique.
type EVMChain struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	ChainID              int64     `json:"chain_id"`
	RPCURL               string    `json:"rpc_url"`
	ExplorerURL          *string   `json:"explorer_url,omitempty"`
	NativeCurrencySymbol string    `json:"native_currency_symbol"`
	IsActive             bool      `json:"is_active"`
	IsTestnet            bool      `json:"is_testnet"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Token is an ERC-20 (or the chain-native currency) on one chain.
// Native tokens have no contract address; non-native ones must.
type Token struct {
	ID       uuid.UUID `json:"id"`
	ChainID  uuid.UUID `json:"chain_id"`
	Name     string    `json:"name"`
	Symbol   string    `json:"symbol"`
	Address  *string   `json:"address,omitempty"`
	Decimals int       `json:"decimals"`

	IsNative bool `json:"is_native"`
	IsActive bool `json:"is_active"`

	MinTransferAmount decimal.Decimal `json:"min_transfer_amount"`
	MaxTransferAmount decimal.Decimal `json:"max_transfer_amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
