package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDepositWithdraw(t *testing.T) {
	var a Account

	if err := a.Deposit(dec("100")); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if !a.Balance.Equal(dec("100")) {
		t.Errorf("balance = %s, want 100", a.Balance)
	}

	if err := a.Withdraw(dec("30")); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if !a.Balance.Equal(dec("70")) {
		t.Errorf("balance = %s, want 70", a.Balance)
	}

	err := a.Withdraw(dec("1000"))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
	if !a.Balance.Equal(dec("70")) {
		t.Errorf("failed withdraw must not mutate balance, got %s", a.Balance)
	}
}

func TestInvalidAmounts(t *testing.T) {
	a := Account{Balance: dec("10"), Frozen: dec("5")}

	for name, fn := range map[string]func(decimal.Decimal) error{
		"deposit":  a.Deposit,
		"withdraw": a.Withdraw,
		"freeze":   a.Freeze,
		"unfreeze": a.Unfreeze,
	} {
		if err := fn(dec("0")); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("%s(0): expected ErrInvalidAmount, got %v", name, err)
		}
		if err := fn(dec("-1")); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("%s(-1): expected ErrInvalidAmount, got %v", name, err)
		}
	}
}

func TestFreezeReducesAvailable(t *testing.T) {
	a := Account{Balance: dec("70")}

	if err := a.Freeze(dec("40")); err != nil {
		t.Fatalf("freeze failed: %v", err)
	}
	if !a.Frozen.Equal(dec("40")) {
		t.Errorf("frozen = %s, want 40", a.Frozen)
	}
	if !a.Available().Equal(dec("30")) {
		t.Errorf("available = %s, want 30", a.Available())
	}

	// Raw balance (70) would cover the withdrawal, available (30) does not.
	err := a.Withdraw(dec("40"))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
	if !a.Balance.Equal(dec("70")) {
		t.Errorf("balance = %s, want 70", a.Balance)
	}
}

func TestFreezeMoreThanAvailable(t *testing.T) {
	a := Account{Balance: dec("50"), Frozen: dec("30")}

	err := a.Freeze(dec("21"))
	if !errors.Is(err, ErrInsufficientAvailable) {
		t.Errorf("expected ErrInsufficientAvailable, got %v", err)
	}
	if err := a.Freeze(dec("20")); err != nil {
		t.Errorf("freeze of exactly available should succeed, got %v", err)
	}
}

func TestUnfreeze(t *testing.T) {
	a := Account{Balance: dec("100"), Frozen: dec("40")}

	err := a.Unfreeze(dec("50"))
	if !errors.Is(err, ErrInsufficientFrozen) {
		t.Errorf("expected ErrInsufficientFrozen, got %v", err)
	}
	if !a.Frozen.Equal(dec("40")) {
		t.Errorf("failed unfreeze must not mutate frozen, got %s", a.Frozen)
	}

	if err := a.Unfreeze(dec("40")); err != nil {
		t.Fatalf("unfreeze failed: %v", err)
	}
	if !a.Frozen.IsZero() {
		t.Errorf("frozen = %s, want 0", a.Frozen)
	}
	if !a.Available().Equal(dec("100")) {
		t.Errorf("available = %s, want 100", a.Available())
	}
}

func TestRepeatedFractionalAmountsExact(t *testing.T) {
	var a Account
	for i := 0; i < 1000; i++ {
		if err := a.Deposit(dec("0.1")); err != nil {
			t.Fatal(err)
		}
	}
	if !a.Balance.Equal(dec("100")) {
		t.Errorf("1000 deposits of 0.1 = %s, want exactly 100", a.Balance)
	}
	for i := 0; i < 1000; i++ {
		if err := a.Withdraw(dec("0.1")); err != nil {
			t.Fatal(err)
		}
	}
	if !a.Balance.IsZero() {
		t.Errorf("balance after symmetric withdrawals = %s, want 0", a.Balance)
	}
}

func TestCanDistribute(t *testing.T) {
	a := Account{Balance: dec("10"), Frozen: dec("4")} // available 6
	policy := RewardPolicy{Enabled: true, Min: dec("0.001"), Max: dec("5")}

	tests := []struct {
		name   string
		amount string
		p      RewardPolicy
		want   bool
	}{
		{"ok", "1", policy, true},
		{"at min", "0.001", policy, true},
		{"at max", "5", policy, true},
		{"below min", "0.0001", policy, false},
		{"above max", "5.1", policy, false},
		{"disabled", "1", RewardPolicy{Enabled: false, Min: dec("0.001"), Max: dec("5")}, false},
		{"exceeds available", "5.5", RewardPolicy{Enabled: true, Min: dec("0.001"), Max: dec("10")}, false},
		{"exactly available", "6", RewardPolicy{Enabled: true, Min: dec("0.001"), Max: dec("10")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.CanDistribute(dec(tt.amount), tt.p); got != tt.want {
				t.Errorf("CanDistribute(%s) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}
