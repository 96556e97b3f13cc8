package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tokendrop/wallet-backend/internal/ledger"
	"github.com/tokendrop/wallet-backend/internal/models"
)

// ErrNotEligible — запрошенная сумма не проходит политику распределения
// (enabled/min/max/available) пула.
var ErrNotEligible = errors.New("amount is not eligible for distribution")

const balanceColumns = `id, owner_kind, owner_id, token_id, balance, frozen_balance,
	reward_enabled, min_reward_amount, max_reward_amount, created_at, updated_at`

type BalanceRepo struct {
	pool *pgxpool.Pool
}

func NewBalanceRepo(pool *pgxpool.Pool) *BalanceRepo {
	return &BalanceRepo{pool: pool}
}

// GetOrCreate returns the (owner, token) record, creating a zero row if absent.
func (r *BalanceRepo) GetOrCreate(ctx context.Context, ownerKind string, ownerID, tokenID uuid.UUID) (*models.Balance, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO balances (owner_kind, owner_id, token_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_kind, owner_id, token_id) DO NOTHING
	`, ownerKind, ownerID, tokenID)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, ownerKind, ownerID, tokenID)
}

func (r *BalanceRepo) Get(ctx context.Context, ownerKind string, ownerID, tokenID uuid.UUID) (*models.Balance, error) {
	var b models.Balance
	err := r.pool.QueryRow(ctx, `
		SELECT `+balanceColumns+` FROM balances
		WHERE owner_kind = $1 AND owner_id = $2 AND token_id = $3
	`, ownerKind, ownerID, tokenID).Scan(balanceFields(&b)...)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BalanceRepo) ListByOwner(ctx context.Context, ownerKind string, ownerID uuid.UUID) ([]models.Balance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+balanceColumns+` FROM balances
		WHERE owner_kind = $1 AND owner_id = $2 ORDER BY created_at
	`, ownerKind, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []models.Balance
	for rows.Next() {
		var b models.Balance
		if err := rows.Scan(balanceFields(&b)...); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// Mutate applies a ledger operation to one record as a row-locked
// read-modify-write. Two concurrent withdrawals cannot both observe a stale
// available amount: the second one waits on the row lock and sees the first
// one's effect. A failing fn aborts the transaction untouched. When audit is
// non-nil the transaction row is written in the same database transaction.
func (r *BalanceRepo) Mutate(ctx context.Context, id uuid.UUID, fn func(*ledger.Account) error, audit *models.Transaction) (*models.Balance, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var b models.Balance
	err = tx.QueryRow(ctx,
		`SELECT `+balanceColumns+` FROM balances WHERE id = $1 FOR UPDATE`, id,
	).Scan(balanceFields(&b)...)
	if err != nil {
		return nil, err
	}

	if err := fn(&b.Account); err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
		UPDATE balances SET balance = $1, frozen_balance = $2, updated_at = now()
		WHERE id = $3
		RETURNING `+balanceColumns,
		b.Balance, b.Frozen, id,
	).Scan(balanceFields(&b)...)
	if err != nil {
		return nil, err
	}

	if audit != nil {
		err = tx.QueryRow(ctx, `
			INSERT INTO transactions (hash, chain_id, from_address, to_address, token_id, amount, type, status, user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at
		`, audit.Hash, audit.ChainID, audit.FromAddress, audit.ToAddress, audit.TokenID,
			audit.Amount, audit.Type, audit.Status, audit.UserID,
		).Scan(&audit.ID, &audit.CreatedAt)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BalanceRepo) SetRewardPolicy(ctx context.Context, id uuid.UUID, p ledger.RewardPolicy) (*models.Balance, error) {
	var b models.Balance
	err := r.pool.QueryRow(ctx, `
		UPDATE balances SET reward_enabled = $1, min_reward_amount = $2, max_reward_amount = $3, updated_at = now()
		WHERE id = $4
		RETURNING `+balanceColumns,
		p.Enabled, p.Min, p.Max, id,
	).Scan(balanceFields(&b)...)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

type DistributeParams struct {
	PoolBalanceID uuid.UUID

	RecipientOwnerKind string
	RecipientOwnerID   uuid.UUID
	TokenID            uuid.UUID

	Amount decimal.Decimal

	// Audit rows written inside the same transaction.
	Reward models.Reward
	Tx     models.Transaction
}

// Distribute pays Amount from the pool balance to the recipient's balance as
// ONE transaction: eligibility check, debit, credit and both audit rows all
// commit or roll back together. There is no window where the pool is debited
// without the recipient being credited.
func (r *BalanceRepo) Distribute(ctx context.Context, p DistributeParams) (*models.Reward, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Make sure the recipient row exists before locking.
	_, err = tx.Exec(ctx, `
		INSERT INTO balances (owner_kind, owner_id, token_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_kind, owner_id, token_id) DO NOTHING
	`, p.RecipientOwnerKind, p.RecipientOwnerID, p.TokenID)
	if err != nil {
		return nil, err
	}

	var recipientID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id FROM balances WHERE owner_kind = $1 AND owner_id = $2 AND token_id = $3
	`, p.RecipientOwnerKind, p.RecipientOwnerID, p.TokenID).Scan(&recipientID)
	if err != nil {
		return nil, err
	}
	if recipientID == p.PoolBalanceID {
		return nil, ErrNotEligible
	}

	// Lock both rows in id order so two opposite distributions cannot
	// deadlock against each other.
	rows, err := tx.Query(ctx, `
		SELECT `+balanceColumns+` FROM balances
		WHERE id = ANY($1) ORDER BY id FOR UPDATE
	`, []uuid.UUID{p.PoolBalanceID, recipientID})
	if err != nil {
		return nil, err
	}
	var pool, recipient models.Balance
	for rows.Next() {
		var b models.Balance
		if err := rows.Scan(balanceFields(&b)...); err != nil {
			rows.Close()
			return nil, err
		}
		switch b.ID {
		case p.PoolBalanceID:
			pool = b
		case recipientID:
			recipient = b
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if pool.ID == uuid.Nil {
		return nil, pgx.ErrNoRows
	}

	if !pool.CanDistribute(p.Amount, pool.RewardPolicy) {
		return nil, ErrNotEligible
	}
	if err := pool.Withdraw(p.Amount); err != nil {
		return nil, err
	}
	if err := recipient.Deposit(p.Amount); err != nil {
		return nil, err
	}

	for _, b := range []*models.Balance{&pool, &recipient} {
		_, err = tx.Exec(ctx, `
			UPDATE balances SET balance = $1, frozen_balance = $2, updated_at = now()
			WHERE id = $3
		`, b.Balance, b.Frozen, b.ID)
		if err != nil {
			return nil, err
		}
	}

	txRecord := p.Tx
	txRecord.TokenID = p.TokenID
	txRecord.Amount = p.Amount
	var txID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (chain_id, from_address, to_address, token_id, amount, type, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, txRecord.ChainID, txRecord.FromAddress, txRecord.ToAddress, txRecord.TokenID,
		txRecord.Amount, txRecord.Type, models.TxStatusConfirmed, txRecord.UserID,
	).Scan(&txID)
	if err != nil {
		return nil, err
	}

	reward := p.Reward
	reward.PoolBalanceID = &p.PoolBalanceID
	reward.TokenID = p.TokenID
	reward.Amount = p.Amount
	reward.TransactionID = &txID
	err = tx.QueryRow(ctx, `
		INSERT INTO rewards (kind, pool_balance_id, from_user_id, to_user_id, token_id, amount, reason, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, reward.Kind, reward.PoolBalanceID, reward.FromUserID, reward.ToUserID,
		reward.TokenID, reward.Amount, reward.Reason, reward.TransactionID,
	).Scan(&reward.ID, &reward.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &reward, nil
}

func balanceFields(b *models.Balance) []any {
	return []any{
		&b.ID, &b.OwnerKind, &b.OwnerID, &b.TokenID, &b.Account.Balance, &b.Frozen,
		&b.Enabled, &b.Min, &b.Max, &b.CreatedAt, &b.UpdatedAt,
	}
}
