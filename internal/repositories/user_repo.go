package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokendrop/wallet-backend/internal/models"
)

const userColumns = `id, telegram_user_id, username_tg, first_name, last_name,
	is_active, is_staff, full_permissions_api, has_beta_access, has_alpha_access,
	referred_by_id, is_bot_suspected, created_at, last_login`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

type GetOrCreateParams struct {
	TelegramID int64
	UsernameTG *string
	FirstName  *string
	LastName   *string
	// Referrer is fixed at creation only; ignored for existing users.
	ReferredByID *uuid.UUID
	// Handle-less referral count above which a new handle-less user
	// is flagged as a suspected bot.
	BotReferralThreshold int
}

// GetOrCreate finds or registers a user by telegram id inside one transaction:
// evicts the requested handle from any other holder (last write wins), creates
// the row or refreshes handle/names on an existing one, and runs the
// bot-suspicion heuristic for fresh handle-less referrals. A concurrent
// registration of the same handle can trip the unique index; the whole
// transaction is retried once on that conflict.
func (r *UserRepo) GetOrCreate(ctx context.Context, p GetOrCreateParams) (*models.User, bool, error) {
	if p.UsernameTG != nil {
		lowered := strings.ToLower(*p.UsernameTG)
		p.UsernameTG = &lowered
	}

	user, created, err := r.getOrCreateTx(ctx, p)
	if isUniqueViolation(err) {
		user, created, err = r.getOrCreateTx(ctx, p)
	}
	return user, created, err
}

func (r *UserRepo) getOrCreateTx(ctx context.Context, p GetOrCreateParams) (*models.User, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	// Handles are not reserved: the most recent registration takes the
	// handle and the previous holder loses it.
	if p.UsernameTG != nil {
		_, err = tx.Exec(ctx, `
			UPDATE users SET username_tg = NULL
			WHERE username_tg = $1 AND telegram_user_id <> $2
		`, *p.UsernameTG, p.TelegramID)
		if err != nil {
			return nil, false, err
		}
	}

	var u models.User
	err = tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE telegram_user_id = $1 FOR UPDATE`,
		p.TelegramID,
	).Scan(userFields(&u)...)

	switch {
	case err == nil:
		// Existing user: refresh mutable identity fields, never the referrer.
		err = tx.QueryRow(ctx, `
			UPDATE users SET username_tg = $1, first_name = $2, last_name = $3
			WHERE id = $4
			RETURNING `+userColumns,
			p.UsernameTG, p.FirstName, p.LastName, u.ID,
		).Scan(userFields(&u)...)
		if err != nil {
			return nil, false, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, false, err
		}
		return &u, false, nil

	case errors.Is(err, pgx.ErrNoRows):
		err = tx.QueryRow(ctx, `
			INSERT INTO users (telegram_user_id, username_tg, first_name, last_name, referred_by_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+userColumns,
			p.TelegramID, p.UsernameTG, p.FirstName, p.LastName, p.ReferredByID,
		).Scan(userFields(&u)...)
		if err != nil {
			return nil, false, err
		}

		// Bot heuristic: a referrer accumulating handle-less referrals past
		// the threshold marks this fresh handle-less account as suspected.
		// The count includes the row just inserted.
		if p.UsernameTG == nil && p.ReferredByID != nil && p.BotReferralThreshold > 0 {
			var handleless int
			err = tx.QueryRow(ctx, `
				SELECT count(*) FROM users
				WHERE referred_by_id = $1 AND username_tg IS NULL
			`, *p.ReferredByID).Scan(&handleless)
			if err != nil {
				return nil, false, err
			}
			if handleless > p.BotReferralThreshold {
				err = tx.QueryRow(ctx, `
					UPDATE users SET is_bot_suspected = true WHERE id = $1
					RETURNING `+userColumns, u.ID,
				).Scan(userFields(&u)...)
				if err != nil {
					return nil, false, err
				}
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, false, err
		}
		return &u, true, nil

	default:
		return nil, false, err
	}
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	).Scan(userFields(&u)...)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE telegram_user_id = $1`, telegramID,
	).Scan(userFields(&u)...)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, time.Now(), id)
	return err
}

func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(userFields(&u)...); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func userFields(u *models.User) []any {
	return []any{
		&u.ID, &u.TelegramUserID, &u.UsernameTG, &u.FirstName, &u.LastName,
		&u.IsActive, &u.IsStaff, &u.FullPermissionsAPI, &u.HasBetaAccess, &u.HasAlphaAccess,
		&u.ReferredByID, &u.IsBotSuspected, &u.CreatedAt, &u.LastLogin,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
