package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokendrop/wallet-backend/internal/models"
)

const chatColumns = `id, telegram_chat_id, title, username, is_active, is_public, created_at, updated_at`

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

func (r *ChatRepo) Upsert(ctx context.Context, c *models.Chat) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO chats (telegram_chat_id, title, username, is_public)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (telegram_chat_id) DO UPDATE SET
			title = EXCLUDED.title,
			username = EXCLUDED.username,
			updated_at = now()
		RETURNING `+chatColumns,
		c.TelegramChatID, c.Title, c.Username, c.IsPublic,
	).Scan(chatFields(c)...)
}

func (r *ChatRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	var c models.Chat
	err := r.pool.QueryRow(ctx,
		`SELECT `+chatColumns+` FROM chats WHERE id = $1 AND is_active = true`, id,
	).Scan(chatFields(&c)...)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func chatFields(c *models.Chat) []any {
	return []any{&c.ID, &c.TelegramChatID, &c.Title, &c.Username, &c.IsActive, &c.IsPublic, &c.CreatedAt, &c.UpdatedAt}
}
