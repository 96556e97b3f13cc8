package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tokendrop/wallet-backend/internal/ledger"
)

// Balance owner kinds. The first three reference a Wallet row; squad_member
// references a squad_members row (members hold balances without an address).
const (
	BalanceOwnerUserWallet  = "user_wallet"
	BalanceOwnerChatWallet  = "chat_wallet"
	BalanceOwnerSquadWallet = "squad_wallet"
	BalanceOwnerSquadMember = "squad_member"
)

// IsBalanceOwnerKind reports whether kind names one of the ledger owner
// kinds above. Client-supplied kinds must pass this before reaching the
// balances table, which CHECK-constrains the column.
func IsBalanceOwnerKind(kind string) bool {
	switch kind {
	case BalanceOwnerUserWallet, BalanceOwnerChatWallet, BalanceOwnerSquadWallet, BalanceOwnerSquadMember:
		return true
	}
	return false
}

// Balance is the single generic ledger record for every owner kind,
// keyed (owner_kind, owner_id, token_id). The embedded ledger.Account
// carries the available/frozen arithmetic; the reward fields gate
// distribution for pool balances (chat rewards, squad drops).
type Balance struct {
	ID        uuid.UUID `json:"id"`
	OwnerKind string    `json:"owner_kind"`
	OwnerID   uuid.UUID `json:"owner_id"`
	TokenID   uuid.UUID `json:"token_id"`

	ledger.Account

	ledger.RewardPolicy

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
