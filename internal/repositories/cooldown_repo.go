package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokendrop/wallet-backend/internal/models"
)

type CooldownRepo struct {
	pool *pgxpool.Pool
}

func NewCooldownRepo(pool *pgxpool.Pool) *CooldownRepo {
	return &CooldownRepo{pool: pool}
}

// IsOnCooldown: присутствие записи с expiry в будущем блокирует действие.
func (r *CooldownRepo) IsOnCooldown(ctx context.Context, userID uuid.UUID, action string) (bool, error) {
	var blocked bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM cooldowns
			WHERE user_id = $1 AND action = $2 AND cooldown_until > now()
		)
	`, userID, action).Scan(&blocked)
	return blocked, err
}

func (r *CooldownRepo) Set(ctx context.Context, userID uuid.UUID, action string, d time.Duration) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cooldowns (user_id, action, cooldown_until)
		VALUES ($1, $2, now() + $3::interval)
		ON CONFLICT (user_id, action) DO UPDATE SET cooldown_until = EXCLUDED.cooldown_until
	`, userID, action, d.String())
	return err
}

func (r *CooldownRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Cooldown, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, action, cooldown_until, created_at
		FROM cooldowns WHERE user_id = $1 ORDER BY cooldown_until DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cds []models.Cooldown
	for rows.Next() {
		var c models.Cooldown
		if err := rows.Scan(&c.ID, &c.UserID, &c.Action, &c.CooldownUntil, &c.CreatedAt); err != nil {
			return nil, err
		}
		cds = append(cds, c)
	}
	return cds, rows.Err()
}
