package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Typed invariant violations. Repositories abort the enclosing transaction
// when any of these surface, so no partial mutation persists.
var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAvailable = errors.New("insufficient available balance")
	ErrInsufficientFrozen    = errors.New("insufficient frozen balance")
)

// Account is the available/frozen money pair shared by every balance owner
// kind (user wallet, chat wallet, squad wallet, squad member). Amounts are
// exact decimals (numeric(36,18) in the store), never floats.
type Account struct {
	Balance decimal.Decimal `json:"balance"`
	Frozen  decimal.Decimal `json:"frozen_balance"`
}

// Available is the portion eligible for withdrawal or distribution.
func (a Account) Available() decimal.Decimal {
	return a.Balance.Sub(a.Frozen)
}

func (a *Account) Deposit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

func (a *Account) Withdraw(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.Available()) {
		return ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Freeze moves amount from available to frozen. The raw balance is untouched.
func (a *Account) Freeze(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.Available()) {
		return ErrInsufficientAvailable
	}
	a.Frozen = a.Frozen.Add(amount)
	return nil
}

func (a *Account) Unfreeze(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.Frozen) {
		return ErrInsufficientFrozen
	}
	a.Frozen = a.Frozen.Sub(amount)
	return nil
}

// RewardPolicy gates reward/drop eligibility on a pool balance.
type RewardPolicy struct {
	Enabled bool            `json:"reward_enabled"`
	Min     decimal.Decimal `json:"min_reward_amount"`
	Max     decimal.Decimal `json:"max_reward_amount"`
}

// CanDistribute reports whether amount may be paid out of this account under
// the given policy. It is an eligibility check only — moving the funds is the
// caller's job (withdraw from the pool, deposit to the recipient).
func (a Account) CanDistribute(amount decimal.Decimal, p RewardPolicy) bool {
	if !p.Enabled {
		return false
	}
	if amount.LessThan(p.Min) || amount.GreaterThan(p.Max) {
		return false
	}
	return !amount.GreaterThan(a.Available())
}
