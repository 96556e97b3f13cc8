package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const newUsersKey = "auth:new_users"

// NewUserEntry — identity triple, которую админка опрашивает после
// первой регистрации через mini-app.
type NewUserEntry struct {
	TelegramUserID int64   `json:"telegram_user_id"`
	UsernameTG     *string `json:"username_tg,omitempty"`
	FirstName      *string `json:"first_name,omitempty"`
}

// NewUserBuffer is a short-lived shared list, not an event log: Drain is
// read-then-clear, so concurrent pollers race on the clear and each may see
// a partial or empty list. Acceptable for a monitoring feed only.
type NewUserBuffer struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewNewUserBuffer(client *redis.Client, ttl time.Duration, log *zap.Logger) *NewUserBuffer {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &NewUserBuffer{client: client, ttl: ttl, log: log}
}

func (b *NewUserBuffer) Push(ctx context.Context, entry NewUserEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pipe := b.client.Pipeline()
	pipe.RPush(ctx, newUsersKey, string(data))
	pipe.Expire(ctx, newUsersKey, b.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Drain returns the buffered entries and clears the list.
func (b *NewUserBuffer) Drain(ctx context.Context) ([]NewUserEntry, error) {
	pipe := b.client.TxPipeline()
	lrange := pipe.LRange(ctx, newUsersKey, 0, -1)
	pipe.Del(ctx, newUsersKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return b.decode(lrange.Val()), nil
}

func (b *NewUserBuffer) decode(raw []string) []NewUserEntry {
	entries := make([]NewUserEntry, 0, len(raw))
	for _, item := range raw {
		var e NewUserEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			b.log.Warn("skipping malformed new-user entry", zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	return entries
}
