package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokendrop/wallet-backend/internal/models"
)

const txColumns = `id, hash, chain_id, from_address, to_address, token_id, amount,
	type, status, gas_used, gas_price, block_number, block_hash, user_id, created_at, confirmed_at`

type TransactionRepo struct {
	pool *pgxpool.Pool
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

func (r *TransactionRepo) Insert(ctx context.Context, t *models.Transaction) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO transactions (hash, chain_id, from_address, to_address, token_id, amount,
			type, status, gas_used, gas_price, block_number, block_hash, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`, t.Hash, t.ChainID, t.FromAddress, t.ToAddress, t.TokenID, t.Amount,
		t.Type, t.Status, t.GasUsed, t.GasPrice, t.BlockNumber, t.BlockHash, t.UserID,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *TransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+txColumns+` FROM transactions
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(txFields(&t)...); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func txFields(t *models.Transaction) []any {
	return []any{
		&t.ID, &t.Hash, &t.ChainID, &t.FromAddress, &t.ToAddress, &t.TokenID, &t.Amount,
		&t.Type, &t.Status, &t.GasUsed, &t.GasPrice, &t.BlockNumber, &t.BlockHash,
		&t.UserID, &t.CreatedAt, &t.ConfirmedAt,
	}
}
