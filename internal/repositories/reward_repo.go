package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokendrop/wallet-backend/internal/models"
)

const rewardColumns = `id, kind, pool_balance_id, from_user_id, to_user_id, token_id,
	amount, reason, transaction_id, created_at`

type RewardRepo struct {
	pool *pgxpool.Pool
}

func NewRewardRepo(pool *pgxpool.Pool) *RewardRepo {
	return &RewardRepo{pool: pool}
}

// Reward rows are inserted by BalanceRepo.Distribute inside the payout
// transaction; this repo only reads them back.
func (r *RewardRepo) ListByRecipient(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Reward, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+rewardColumns+` FROM rewards
		WHERE to_user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rewards []models.Reward
	for rows.Next() {
		var rw models.Reward
		err := rows.Scan(&rw.ID, &rw.Kind, &rw.PoolBalanceID, &rw.FromUserID, &rw.ToUserID,
			&rw.TokenID, &rw.Amount, &rw.Reason, &rw.TransactionID, &rw.CreatedAt)
		if err != nil {
			return nil, err
		}
		rewards = append(rewards, rw)
	}
	return rewards, rows.Err()
}
