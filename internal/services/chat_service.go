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

// ChatService manages Telegram group chats and their reward pools.
type ChatService struct {
	chats   ChatRepository
	users   UserRepository
	ledger  *LedgerService
	wallets *WalletService
	log     *zap.Logger
}

func NewChatService(
	chats ChatRepository,
	users UserRepository,
	ledger *LedgerService,
	wallets *WalletService,
	log *zap.Logger,
) *ChatService {
	return &ChatService{chats: chats, users: users, ledger: ledger, wallets: wallets, log: log}
}

type UpsertChatInput struct {
	TelegramChatID int64
	Title          string
	Username       *string
	IsPublic       bool
}

func (s *ChatService) UpsertChat(ctx context.Context, in UpsertChatInput) (*models.Chat, error) {
	if in.TelegramChatID == 0 {
		return nil, apperrors.RequiredError("telegram_chat_id")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.RequiredError("title")
	}

	chat := &models.Chat{
		TelegramChatID: in.TelegramChatID,
		Title:          in.Title,
		Username:       in.Username,
		IsPublic:       in.IsPublic,
	}
	if err := s.chats.Upsert(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *ChatService) GetChat(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	chat, err := s.chats.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("chat", id.String())
		}
		return nil, err
	}
	return chat, nil
}

func (s *ChatService) RegisterAddress(ctx context.Context, chatID uuid.UUID, chainName, address string) (*models.Wallet, error) {
	if _, err := s.GetChat(ctx, chatID); err != nil {
		return nil, err
	}
	return s.wallets.RegisterAddress(ctx, models.OwnerChat, chatID, chainName, address)
}

func (s *ChatService) Balances(ctx context.Context, chatID uuid.UUID) ([]models.Balance, error) {
	if _, err := s.GetChat(ctx, chatID); err != nil {
		return nil, err
	}
	return s.ledger.ListBalances(ctx, models.BalanceOwnerChatWallet, chatID)
}

// PoolDeposit credits a chat or squad pool balance. Hash and FromAddress are
// the claimed on-chain origin, recorded on the audit row as-is.
type PoolDeposit struct {
	TokenID     uuid.UUID
	Amount      decimal.Decimal
	FromAddress string
	Hash        *string
	ActorUserID *uuid.UUID
}

func (s *ChatService) Deposit(ctx context.Context, chatID uuid.UUID, in PoolDeposit) (*models.Balance, error) {
	if _, err := s.GetChat(ctx, chatID); err != nil {
		return nil, err
	}
	return s.ledger.Deposit(ctx, MoveInput{
		OwnerKind:   models.BalanceOwnerChatWallet,
		OwnerID:     chatID,
		TokenID:     in.TokenID,
		Amount:      in.Amount,
		Hash:        in.Hash,
		FromAddress: in.FromAddress,
		ActorUserID: in.ActorUserID,
	})
}

func (s *ChatService) SetRewardPolicy(ctx context.Context, chatID, tokenID uuid.UUID, p ledger.RewardPolicy) (*models.Balance, error) {
	if _, err := s.GetChat(ctx, chatID); err != nil {
		return nil, err
	}
	return s.ledger.SetRewardPolicy(ctx, models.BalanceOwnerChatWallet, chatID, tokenID, p)
}

type RewardInput struct {
	ChatID              uuid.UUID
	ActorUserID         uuid.UUID
	RecipientTelegramID int64
	TokenID             uuid.UUID
	Amount              decimal.Decimal
	Reason              *string
}

// Reward pays from the chat pool to the recipient's user wallet balance.
// The recipient is addressed by telegram id because rewards come from the
// group bot. Gated by the actor's chat_reward cooldown.
func (s *ChatService) Reward(ctx context.Context, in RewardInput) (*models.Reward, error) {
	if _, err := s.GetChat(ctx, in.ChatID); err != nil {
		return nil, err
	}

	recipient, err := s.users.GetByTelegramID(ctx, in.RecipientTelegramID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("recipient", "")
		}
		return nil, err
	}

	return s.ledger.Distribute(ctx, DistributeInput{
		Kind:               models.RewardKindChat,
		PoolOwnerKind:      models.BalanceOwnerChatWallet,
		PoolOwnerID:        in.ChatID,
		RecipientOwnerKind: models.BalanceOwnerUserWallet,
		RecipientOwnerID:   recipient.ID,
		TokenID:            in.TokenID,
		Amount:             in.Amount,
		ActorUserID:        in.ActorUserID,
		RecipientUserID:    recipient.ID,
		Reason:             in.Reason,
		CooldownAction:     CooldownChatReward,
	})
}
