package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tokendrop/wallet-backend/internal/apperrors"
	"github.com/tokendrop/wallet-backend/internal/ledger"
	"github.com/tokendrop/wallet-backend/internal/models"
	"go.uber.org/zap"
)

// SquadService manages squads, membership and drops from the squad pool
// into member balances.
type SquadService struct {
	squads  SquadRepository
	ledger  *LedgerService
	wallets *WalletService
	log     *zap.Logger
}

func NewSquadService(squads SquadRepository, ledger *LedgerService, wallets *WalletService, log *zap.Logger) *SquadService {
	return &SquadService{squads: squads, ledger: ledger, wallets: wallets, log: log}
}

func (s *SquadService) CreateSquad(ctx context.Context, ownerUserID uuid.UUID, name string, isPublic bool) (*models.Squad, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.RequiredError("name")
	}
	squad := &models.Squad{
		Name:        strings.TrimSpace(name),
		OwnerUserID: ownerUserID,
		IsPublic:    isPublic,
	}
	if err := s.squads.Create(ctx, squad); err != nil {
		return nil, err
	}
	return squad, nil
}

func (s *SquadService) GetSquad(ctx context.Context, id uuid.UUID) (*models.Squad, error) {
	squad, err := s.squads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("squad", id.String())
		}
		return nil, err
	}
	return squad, nil
}

// Join adds a user to the squad. The owner is already counted as a member
// and is never inserted; repeated joins are idempotent (joined=false).
func (s *SquadService) Join(ctx context.Context, squadID, userID uuid.UUID) (*models.SquadMember, bool, error) {
	if _, err := s.GetSquad(ctx, squadID); err != nil {
		return nil, false, err
	}
	return s.squads.AddMember(ctx, squadID, userID)
}

func (s *SquadService) Leave(ctx context.Context, squadID, userID uuid.UUID) error {
	squad, err := s.GetSquad(ctx, squadID)
	if err != nil {
		return err
	}
	if squad.OwnerUserID == userID {
		return apperrors.NewConflictError("squad", "owner cannot leave their own squad")
	}
	return s.squads.RemoveMember(ctx, squadID, userID)
}

func (s *SquadService) Members(ctx context.Context, squadID uuid.UUID) ([]models.SquadMember, int, error) {
	if _, err := s.GetSquad(ctx, squadID); err != nil {
		return nil, 0, err
	}
	members, err := s.squads.ListMembers(ctx, squadID)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.squads.MemberCount(ctx, squadID)
	if err != nil {
		return nil, 0, err
	}
	return members, count, nil
}

func (s *SquadService) RegisterAddress(ctx context.Context, squadID uuid.UUID, chainName, address string) (*models.Wallet, error) {
	if _, err := s.GetSquad(ctx, squadID); err != nil {
		return nil, err
	}
	return s.wallets.RegisterAddress(ctx, models.OwnerSquad, squadID, chainName, address)
}

func (s *SquadService) Balances(ctx context.Context, squadID uuid.UUID) ([]models.Balance, error) {
	if _, err := s.GetSquad(ctx, squadID); err != nil {
		return nil, err
	}
	return s.ledger.ListBalances(ctx, models.BalanceOwnerSquadWallet, squadID)
}

// MemberBalances lists the balances the user holds inside the squad
// (squad_member owner kind, keyed on the membership row).
func (s *SquadService) MemberBalances(ctx context.Context, squadID, userID uuid.UUID) ([]models.Balance, error) {
	member, err := s.squads.GetMember(ctx, squadID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("squad member", "")
		}
		return nil, err
	}
	return s.ledger.ListBalances(ctx, models.BalanceOwnerSquadMember, member.ID)
}

func (s *SquadService) Deposit(ctx context.Context, squadID uuid.UUID, in PoolDeposit) (*models.Balance, error) {
	if _, err := s.GetSquad(ctx, squadID); err != nil {
		return nil, err
	}
	return s.ledger.Deposit(ctx, MoveInput{
		OwnerKind:   models.BalanceOwnerSquadWallet,
		OwnerID:     squadID,
		TokenID:     in.TokenID,
		Amount:      in.Amount,
		Hash:        in.Hash,
		FromAddress: in.FromAddress,
		ActorUserID: in.ActorUserID,
	})
}

func (s *SquadService) SetRewardPolicy(ctx context.Context, squadID, tokenID uuid.UUID, p ledger.RewardPolicy) (*models.Balance, error) {
	if _, err := s.GetSquad(ctx, squadID); err != nil {
		return nil, err
	}
	return s.ledger.SetRewardPolicy(ctx, models.BalanceOwnerSquadWallet, squadID, tokenID, p)
}

type DropInput struct {
	SquadID      uuid.UUID
	ActorUserID  uuid.UUID
	MemberUserID uuid.UUID
	TokenID      uuid.UUID
	Amount       decimal.Decimal
	Reason       *string
}

// Drop pays from the squad pool into a member's squad balance. Only the
// squad owner can drop; the recipient must hold a membership row (the owner
// has none and cannot receive drops).
func (s *SquadService) Drop(ctx context.Context, in DropInput) (*models.Reward, error) {
	squad, err := s.GetSquad(ctx, in.SquadID)
	if err != nil {
		return nil, err
	}
	if squad.OwnerUserID != in.ActorUserID {
		return nil, apperrors.NewAuthorizationError("only the squad owner can distribute drops")
	}

	member, err := s.squads.GetMember(ctx, in.SquadID, in.MemberUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("squad member", "")
		}
		return nil, err
	}

	return s.ledger.Distribute(ctx, DistributeInput{
		Kind:               models.RewardKindDrop,
		PoolOwnerKind:      models.BalanceOwnerSquadWallet,
		PoolOwnerID:        in.SquadID,
		RecipientOwnerKind: models.BalanceOwnerSquadMember,
		RecipientOwnerID:   member.ID,
		TokenID:            in.TokenID,
		Amount:             in.Amount,
		ActorUserID:        in.ActorUserID,
		RecipientUserID:    in.MemberUserID,
		Reason:             in.Reason,
		CooldownAction:     CooldownSquadDrop,
	})
}
