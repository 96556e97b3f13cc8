package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokendrop/wallet-backend/internal/models"
)

const walletColumns = `id, owner_kind, owner_id, chain_id, address, created_at, updated_at`

type WalletRepo struct {
	pool *pgxpool.Pool
}

func NewWalletRepo(pool *pgxpool.Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Upsert binds an address to (owner, chain), replacing any previous address
// the owner had on that chain. This is the canonical create-or-update path.
func (r *WalletRepo) Upsert(ctx context.Context, w *models.Wallet) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO wallets (owner_kind, owner_id, chain_id, address)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_kind, owner_id, chain_id) DO UPDATE SET
			address = EXCLUDED.address,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`, w.OwnerKind, w.OwnerID, w.ChainID, w.Address).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
}

// InsertStrict is the add-only registration path: it refuses to replace an
// existing binding. Returns false without error when the owner already has
// an address on the chain.
func (r *WalletRepo) InsertStrict(ctx context.Context, w *models.Wallet) (bool, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO wallets (owner_kind, owner_id, chain_id, address)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_kind, owner_id, chain_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`, w.OwnerKind, w.OwnerID, w.ChainID, w.Address).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByChainAndAddress finds whoever holds the address on a chain.
func (r *WalletRepo) GetByChainAndAddress(ctx context.Context, chainID uuid.UUID, address string) (*models.Wallet, error) {
	var w models.Wallet
	err := r.pool.QueryRow(ctx, `
		SELECT `+walletColumns+` FROM wallets
		WHERE chain_id = $1 AND lower(address) = lower($2)
	`, chainID, address).Scan(walletFields(&w)...)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepo) ListByOwner(ctx context.Context, ownerKind string, ownerID uuid.UUID) ([]models.Wallet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+walletColumns+` FROM wallets
		WHERE owner_kind = $1 AND owner_id = $2 ORDER BY created_at
	`, ownerKind, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []models.Wallet
	for rows.Next() {
		var w models.Wallet
		if err := rows.Scan(walletFields(&w)...); err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func walletFields(w *models.Wallet) []any {
	return []any{&w.ID, &w.OwnerKind, &w.OwnerID, &w.ChainID, &w.Address, &w.CreatedAt, &w.UpdatedAt}
}
