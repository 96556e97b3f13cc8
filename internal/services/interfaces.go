package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tokendrop/wallet-backend/internal/cache"
	"github.com/tokendrop/wallet-backend/internal/ledger"
	"github.com/tokendrop/wallet-backend/internal/models"
	"github.com/tokendrop/wallet-backend/internal/repositories"
)

// Repository interfaces consumed by the services. The pgx repos satisfy
// them; tests substitute mocks.

type UserRepository interface {
	GetOrCreate(ctx context.Context, p repositories.GetOrCreateParams) (*models.User, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
}

type BalanceRepository interface {
	GetOrCreate(ctx context.Context, ownerKind string, ownerID, tokenID uuid.UUID) (*models.Balance, error)
	ListByOwner(ctx context.Context, ownerKind string, ownerID uuid.UUID) ([]models.Balance, error)
	Mutate(ctx context.Context, id uuid.UUID, fn func(*ledger.Account) error, audit *models.Transaction) (*models.Balance, error)
	SetRewardPolicy(ctx context.Context, id uuid.UUID, p ledger.RewardPolicy) (*models.Balance, error)
	Distribute(ctx context.Context, p repositories.DistributeParams) (*models.Reward, error)
}

type WalletRepository interface {
	Upsert(ctx context.Context, w *models.Wallet) error
	InsertStrict(ctx context.Context, w *models.Wallet) (bool, error)
	GetByChainAndAddress(ctx context.Context, chainID uuid.UUID, address string) (*models.Wallet, error)
	ListByOwner(ctx context.Context, ownerKind string, ownerID uuid.UUID) ([]models.Wallet, error)
}

type ChainRepository interface {
	GetActiveByName(ctx context.Context, name string) (*models.EVMChain, error)
}

type TokenRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Token, error)
}

type ChatRepository interface {
	Upsert(ctx context.Context, c *models.Chat) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Chat, error)
}

type SquadRepository interface {
	Create(ctx context.Context, s *models.Squad) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Squad, error)
	AddMember(ctx context.Context, squadID, userID uuid.UUID) (*models.SquadMember, bool, error)
	RemoveMember(ctx context.Context, squadID, userID uuid.UUID) error
	GetMember(ctx context.Context, squadID, userID uuid.UUID) (*models.SquadMember, error)
	ListMembers(ctx context.Context, squadID uuid.UUID) ([]models.SquadMember, error)
	MemberCount(ctx context.Context, squadID uuid.UUID) (int, error)
}

type CooldownRepository interface {
	IsOnCooldown(ctx context.Context, userID uuid.UUID, action string) (bool, error)
	Set(ctx context.Context, userID uuid.UUID, action string, d time.Duration) error
}

type NewUserPusher interface {
	Push(ctx context.Context, entry cache.NewUserEntry) error
}
