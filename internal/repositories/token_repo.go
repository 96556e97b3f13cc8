package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokendrop/wallet-backend/internal/models"
)

const tokenColumns = `id, chain_id, name, symbol, address, decimals,
	is_native, is_active, min_transfer_amount, max_transfer_amount, created_at, updated_at`

type TokenRepo struct {
	pool *pgxpool.Pool
}

func NewTokenRepo(pool *pgxpool.Pool) *TokenRepo {
	return &TokenRepo{pool: pool}
}

func (r *TokenRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Token, error) {
	var t models.Token
	err := r.pool.QueryRow(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE id = $1`, id,
	).Scan(tokenFields(&t)...)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepo) ListByChain(ctx context.Context, chainID uuid.UUID) ([]models.Token, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE chain_id = $1 AND is_active = true ORDER BY symbol`,
		chainID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []models.Token
	for rows.Next() {
		var t models.Token
		if err := rows.Scan(tokenFields(&t)...); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func tokenFields(t *models.Token) []any {
	return []any{
		&t.ID, &t.ChainID, &t.Name, &t.Symbol, &t.Address, &t.Decimals,
		&t.IsNative, &t.IsActive, &t.MinTransferAmount, &t.MaxTransferAmount, &t.CreatedAt, &t.UpdatedAt,
	}
}
