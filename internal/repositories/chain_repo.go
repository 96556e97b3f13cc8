package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokendrop/wallet-backend/internal/models"
)

const chainColumns = `id, name, chain_id, rpc_url, explorer_url,
	native_currency_symbol, is_active, is_testnet, created_at, updated_at`

type ChainRepo struct {
	pool *pgxpool.Pool
}

func NewChainRepo(pool *pgxpool.Pool) *ChainRepo {
	return &ChainRepo{pool: pool}
}

// GetActiveByName matches chain names case-insensitively among active chains.
func (r *ChainRepo) GetActiveByName(ctx context.Context, name string) (*models.EVMChain, error) {
	var c models.EVMChain
	err := r.pool.QueryRow(ctx,
		`SELECT `+chainColumns+` FROM evm_chains WHERE lower(name) = lower($1) AND is_active = true`,
		name,
	).Scan(chainFields(&c)...)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChainRepo) ListActive(ctx context.Context) ([]models.EVMChain, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+chainColumns+` FROM evm_chains WHERE is_active = true ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chains []models.EVMChain
	for rows.Next() {
		var c models.EVMChain
		if err := rows.Scan(chainFields(&c)...); err != nil {
			return nil, err
		}
		chains = append(chains, c)
	}
	return chains, rows.Err()
}

func chainFields(c *models.EVMChain) []any {
	return []any{
		&c.ID, &c.Name, &c.ChainID, &c.RPCURL, &c.ExplorerURL,
		&c.NativeCurrencySymbol, &c.IsActive, &c.IsTestnet, &c.CreatedAt, &c.UpdatedAt,
	}
}
