package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tokendrop/wallet-backend/internal/apperrors"
	"github.com/tokendrop/wallet-backend/internal/config"
	"github.com/tokendrop/wallet-backend/internal/events"
	"github.com/tokendrop/wallet-backend/internal/ledger"
	"github.com/tokendrop/wallet-backend/internal/models"
	"github.com/tokendrop/wallet-backend/internal/repositories"
	"go.uber.org/zap"
)

// Cooldown actions gating distribution endpoints.
const (
	CooldownChatReward = "chat_reward"
	CooldownSquadDrop  = "squad_drop"
)

// LedgerService exposes the balance operations: deposits, withdrawals,
// freezes and pool distributions. All mutation paths go through the
// repository's row-locked transactions; the service adds token resolution,
// cooldown gating and event publishing.
type LedgerService struct {
	balances  BalanceRepository
	tokens    TokenRepository
	cooldowns CooldownRepository
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger
}

func NewLedgerService(
	balances BalanceRepository,
	tokens TokenRepository,
	cooldowns CooldownRepository,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *LedgerService {
	return &LedgerService{
		balances:  balances,
		tokens:    tokens,
		cooldowns: cooldowns,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
	}
}

type MoveInput struct {
	OwnerKind string
	OwnerID   uuid.UUID
	TokenID   uuid.UUID
	Amount    decimal.Decimal

	// Audit metadata. Addresses are the claimed external endpoints; internal
	// legs get an owner reference instead.
	Hash        *string
	FromAddress string
	ToAddress   string
	ActorUserID *uuid.UUID
}

func (s *LedgerService) Deposit(ctx context.Context, in MoveInput) (*models.Balance, error) {
	token, err := s.resolveToken(ctx, in.TokenID)
	if err != nil {
		return nil, err
	}

	b, err := s.balances.GetOrCreate(ctx, in.OwnerKind, in.OwnerID, in.TokenID)
	if err != nil {
		return nil, err
	}

	to := in.ToAddress
	if to == "" {
		to = ownerRef(in.OwnerKind, in.OwnerID)
	}
	audit := &models.Transaction{
		Hash:        in.Hash,
		ChainID:     token.ChainID,
		FromAddress: in.FromAddress,
		ToAddress:   to,
		TokenID:     in.TokenID,
		Amount:      in.Amount,
		Type:        models.TxTypeDeposit,
		Status:      models.TxStatusConfirmed,
		UserID:      in.ActorUserID,
	}

	b, err = s.balances.Mutate(ctx, b.ID, func(a *ledger.Account) error {
		return a.Deposit(in.Amount)
	}, audit)
	if err != nil {
		return nil, mapLedgerError(err)
	}

	s.publishBalanceChanged(ctx, b)
	return b, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, in MoveInput) (*models.Balance, error) {
	token, err := s.resolveToken(ctx, in.TokenID)
	if err != nil {
		return nil, err
	}

	b, err := s.balances.GetOrCreate(ctx, in.OwnerKind, in.OwnerID, in.TokenID)
	if err != nil {
		return nil, err
	}

	from := in.FromAddress
	if from == "" {
		from = ownerRef(in.OwnerKind, in.OwnerID)
	}
	audit := &models.Transaction{
		Hash:        in.Hash,
		ChainID:     token.ChainID,
		FromAddress: from,
		ToAddress:   in.ToAddress,
		TokenID:     in.TokenID,
		Amount:      in.Amount,
		Type:        models.TxTypeWithdrawal,
		Status:      models.TxStatusConfirmed,
		UserID:      in.ActorUserID,
	}

	b, err = s.balances.Mutate(ctx, b.ID, func(a *ledger.Account) error {
		return a.Withdraw(in.Amount)
	}, audit)
	if err != nil {
		return nil, mapLedgerError(err)
	}

	s.publishBalanceChanged(ctx, b)
	return b, nil
}

// Freeze moves part of the available amount into the frozen portion.
// No audit row: the total does not change.
func (s *LedgerService) Freeze(ctx context.Context, ownerKind string, ownerID, tokenID uuid.UUID, amount decimal.Decimal) (*models.Balance, error) {
	return s.mutateNoAudit(ctx, ownerKind, ownerID, tokenID, func(a *ledger.Account) error {
		return a.Freeze(amount)
	})
}

func (s *LedgerService) Unfreeze(ctx context.Context, ownerKind string, ownerID, tokenID uuid.UUID, amount decimal.Decimal) (*models.Balance, error) {
	return s.mutateNoAudit(ctx, ownerKind, ownerID, tokenID, func(a *ledger.Account) error {
		return a.Unfreeze(amount)
	})
}

func (s *LedgerService) mutateNoAudit(ctx context.Context, ownerKind string, ownerID, tokenID uuid.UUID, fn func(*ledger.Account) error) (*models.Balance, error) {
	// Freeze/unfreeze take the owner kind from the request body; anything
	// outside the known kinds is a caller mistake, not a database error.
	if !models.IsBalanceOwnerKind(ownerKind) {
		return nil, apperrors.NewValidationError("owner_kind", "unknown owner kind")
	}
	b, err := s.balances.GetOrCreate(ctx, ownerKind, ownerID, tokenID)
	if err != nil {
		return nil, err
	}
	b, err = s.balances.Mutate(ctx, b.ID, fn, nil)
	if err != nil {
		return nil, mapLedgerError(err)
	}
	s.publishBalanceChanged(ctx, b)
	return b, nil
}

// SetRewardPolicy configures distribution gating on a pool balance.
func (s *LedgerService) SetRewardPolicy(ctx context.Context, ownerKind string, ownerID, tokenID uuid.UUID, p ledger.RewardPolicy) (*models.Balance, error) {
	if p.Min.IsNegative() || p.Max.IsNegative() {
		return nil, apperrors.NewValidationError("reward_policy", "min and max must be non-negative")
	}
	if p.Max.IsPositive() && p.Min.GreaterThan(p.Max) {
		return nil, apperrors.NewValidationError("reward_policy", "min must not exceed max")
	}
	b, err := s.balances.GetOrCreate(ctx, ownerKind, ownerID, tokenID)
	if err != nil {
		return nil, err
	}
	return s.balances.SetRewardPolicy(ctx, b.ID, p)
}

func (s *LedgerService) ListBalances(ctx context.Context, ownerKind string, ownerID uuid.UUID) ([]models.Balance, error) {
	return s.balances.ListByOwner(ctx, ownerKind, ownerID)
}

type DistributeInput struct {
	Kind string // models.RewardKindChat or models.RewardKindDrop

	PoolOwnerKind string
	PoolOwnerID   uuid.UUID

	RecipientOwnerKind string
	RecipientOwnerID   uuid.UUID

	TokenID uuid.UUID
	Amount  decimal.Decimal

	// Acting user: cooldown subject and audit from_user.
	ActorUserID     uuid.UUID
	RecipientUserID uuid.UUID
	Reason          *string

	CooldownAction string
}

// Distribute pays from a pool balance to a recipient balance as one database
// transaction. The actor is gated by a per-user cooldown; an ineligible
// amount (disabled pool, outside min/max, more than available) fails without
// touching either side.
func (s *LedgerService) Distribute(ctx context.Context, in DistributeInput) (*models.Reward, error) {
	if in.CooldownAction != "" {
		blocked, err := s.cooldowns.IsOnCooldown(ctx, in.ActorUserID, in.CooldownAction)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, apperrors.NewConflictError("reward", "sender is on cooldown")
		}
	}

	token, err := s.resolveToken(ctx, in.TokenID)
	if err != nil {
		return nil, err
	}

	pool, err := s.balances.GetOrCreate(ctx, in.PoolOwnerKind, in.PoolOwnerID, in.TokenID)
	if err != nil {
		return nil, err
	}

	reward, err := s.balances.Distribute(ctx, repositories.DistributeParams{
		PoolBalanceID:      pool.ID,
		RecipientOwnerKind: in.RecipientOwnerKind,
		RecipientOwnerID:   in.RecipientOwnerID,
		TokenID:            in.TokenID,
		Amount:             in.Amount,
		Reward: models.Reward{
			Kind:       in.Kind,
			FromUserID: &in.ActorUserID,
			ToUserID:   in.RecipientUserID,
			Reason:     in.Reason,
		},
		Tx: models.Transaction{
			ChainID:     token.ChainID,
			FromAddress: ownerRef(in.PoolOwnerKind, in.PoolOwnerID),
			ToAddress:   ownerRef(in.RecipientOwnerKind, in.RecipientOwnerID),
			Type:        txTypeForKind(in.Kind),
			UserID:      &in.ActorUserID,
		},
	})
	if err != nil {
		return nil, mapLedgerError(err)
	}

	if in.CooldownAction != "" {
		if err := s.cooldowns.Set(ctx, in.ActorUserID, in.CooldownAction, s.cfg.RewardCooldown); err != nil {
			s.log.Warn("failed to set reward cooldown", zap.Error(err))
		}
	}

	_ = s.publisher.Publish(ctx, events.StreamLedger, events.Event{
		Type: eventForKind(in.Kind),
		Payload: map[string]any{
			"reward_id":  reward.ID.String(),
			"kind":       reward.Kind,
			"to_user_id": reward.ToUserID.String(),
			"token_id":   reward.TokenID.String(),
			"amount":     reward.Amount.String(),
		},
	})

	s.log.Info("distribution completed",
		zap.String("kind", in.Kind),
		zap.String("pool_owner", ownerRef(in.PoolOwnerKind, in.PoolOwnerID)),
		zap.String("amount", in.Amount.String()),
	)
	return reward, nil
}

func (s *LedgerService) resolveToken(ctx context.Context, tokenID uuid.UUID) (*models.Token, error) {
	token, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("token", tokenID.String())
		}
		return nil, err
	}
	if !token.IsActive {
		return nil, apperrors.NewValidationError("token_id", "token is not active")
	}
	return token, nil
}

func (s *LedgerService) publishBalanceChanged(ctx context.Context, b *models.Balance) {
	_ = s.publisher.Publish(ctx, events.StreamLedger, events.Event{
		Type: events.EventBalanceChanged,
		Payload: map[string]any{
			"balance_id": b.ID.String(),
			"owner_kind": b.OwnerKind,
			"owner_id":   b.OwnerID.String(),
			"token_id":   b.TokenID.String(),
			"balance":    b.Balance.String(),
			"frozen":     b.Frozen.String(),
		},
	})
}

// ownerRef labels an internal ledger endpoint in audit rows.
func ownerRef(kind string, id uuid.UUID) string {
	return kind + ":" + id.String()
}

func txTypeForKind(kind string) string {
	if kind == models.RewardKindDrop {
		return models.TxTypeDrop
	}
	return models.TxTypeReward
}

func eventForKind(kind string) string {
	if kind == models.RewardKindDrop {
		return events.EventDropDistributed
	}
	return events.EventRewardDistributed
}

// mapLedgerError translates ledger and repository failures into the API
// error taxonomy.
func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return apperrors.NewValidationError("amount", "must be positive")
	case errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrInsufficientAvailable),
		errors.Is(err, ledger.ErrInsufficientFrozen):
		return apperrors.NewValidationError("amount", err.Error())
	case errors.Is(err, repositories.ErrNotEligible):
		return apperrors.NewConflictError("distribution", "amount is not eligible for distribution")
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFoundError("balance", "")
	default:
		return err
	}
}
