package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokendrop/wallet-backend/internal/models"
)

const squadColumns = `id, name, owner_user_id, is_active, is_public, created_at, updated_at`

type SquadRepo struct {
	pool *pgxpool.Pool
}

func NewSquadRepo(pool *pgxpool.Pool) *SquadRepo {
	return &SquadRepo{pool: pool}
}

func (r *SquadRepo) Create(ctx context.Context, s *models.Squad) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO squads (name, owner_user_id, is_public)
		VALUES ($1, $2, $3)
		RETURNING `+squadColumns,
		s.Name, s.OwnerUserID, s.IsPublic,
	).Scan(squadFields(s)...)
}

func (r *SquadRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Squad, error) {
	var s models.Squad
	err := r.pool.QueryRow(ctx,
		`SELECT `+squadColumns+` FROM squads WHERE id = $1 AND is_active = true`, id,
	).Scan(squadFields(&s)...)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AddMember joins a user to a squad. The owner is never inserted into the
// member list; joining twice is a no-op (false).
func (r *SquadRepo) AddMember(ctx context.Context, squadID, userID uuid.UUID) (*models.SquadMember, bool, error) {
	var m models.SquadMember
	err := r.pool.QueryRow(ctx, `
		INSERT INTO squad_members (squad_id, user_id)
		SELECT $1, $2 WHERE NOT EXISTS (
			SELECT 1 FROM squads WHERE id = $1 AND owner_user_id = $2
		)
		ON CONFLICT (squad_id, user_id) DO NOTHING
		RETURNING id, squad_id, user_id, joined_at
	`, squadID, userID).Scan(&m.ID, &m.SquadID, &m.UserID, &m.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &m, true, nil
}

func (r *SquadRepo) RemoveMember(ctx context.Context, squadID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM squad_members WHERE squad_id = $1 AND user_id = $2`, squadID, userID)
	return err
}

func (r *SquadRepo) GetMember(ctx context.Context, squadID, userID uuid.UUID) (*models.SquadMember, error) {
	var m models.SquadMember
	err := r.pool.QueryRow(ctx, `
		SELECT id, squad_id, user_id, joined_at FROM squad_members
		WHERE squad_id = $1 AND user_id = $2
	`, squadID, userID).Scan(&m.ID, &m.SquadID, &m.UserID, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *SquadRepo) ListMembers(ctx context.Context, squadID uuid.UUID) ([]models.SquadMember, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, squad_id, user_id, joined_at FROM squad_members
		WHERE squad_id = $1 ORDER BY joined_at
	`, squadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.SquadMember
	for rows.Next() {
		var m models.SquadMember
		if err := rows.Scan(&m.ID, &m.SquadID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// MemberCount counts the member rows plus the owner.
func (r *SquadRepo) MemberCount(ctx context.Context, squadID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) + 1 FROM squad_members WHERE squad_id = $1`, squadID,
	).Scan(&n)
	return n, err
}

func squadFields(s *models.Squad) []any {
	return []any{&s.ID, &s.Name, &s.OwnerUserID, &s.IsActive, &s.IsPublic, &s.CreatedAt, &s.UpdatedAt}
}
