package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/tokendrop/wallet-backend/internal/cache"
	"github.com/tokendrop/wallet-backend/internal/events"
	"github.com/tokendrop/wallet-backend/internal/ledger"
	"github.com/tokendrop/wallet-backend/internal/models"
	"github.com/tokendrop/wallet-backend/internal/repositories"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetOrCreate(ctx context.Context, p repositories.GetOrCreateParams) (*models.User, bool, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockBalanceRepository is a mock implementation of BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) GetOrCreate(ctx context.Context, ownerKind string, ownerID, tokenID uuid.UUID) (*models.Balance, error) {
	args := m.Called(ctx, ownerKind, ownerID, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Balance), args.Error(1)
}

func (m *MockBalanceRepository) ListByOwner(ctx context.Context, ownerKind string, ownerID uuid.UUID) ([]models.Balance, error) {
	args := m.Called(ctx, ownerKind, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Balance), args.Error(1)
}

func (m *MockBalanceRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(*ledger.Account) error, audit *models.Transaction) (*models.Balance, error) {
	args := m.Called(ctx, id, fn, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Balance), args.Error(1)
}

func (m *MockBalanceRepository) SetRewardPolicy(ctx context.Context, id uuid.UUID, p ledger.RewardPolicy) (*models.Balance, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Balance), args.Error(1)
}

func (m *MockBalanceRepository) Distribute(ctx context.Context, p repositories.DistributeParams) (*models.Reward, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reward), args.Error(1)
}

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Upsert(ctx context.Context, w *models.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWalletRepository) InsertStrict(ctx context.Context, w *models.Wallet) (bool, error) {
	args := m.Called(ctx, w)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletRepository) GetByChainAndAddress(ctx context.Context, chainID uuid.UUID, address string) (*models.Wallet, error) {
	args := m.Called(ctx, chainID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) ListByOwner(ctx context.Context, ownerKind string, ownerID uuid.UUID) ([]models.Wallet, error) {
	args := m.Called(ctx, ownerKind, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Wallet), args.Error(1)
}

// MockChainRepository is a mock implementation of ChainRepository
type MockChainRepository struct {
	mock.Mock
}

func (m *MockChainRepository) GetActiveByName(ctx context.Context, name string) (*models.EVMChain, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EVMChain), args.Error(1)
}

// MockTokenRepository is a mock implementation of TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Token, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Token), args.Error(1)
}

// MockChatRepository is a mock implementation of ChatRepository
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Upsert(ctx context.Context, c *models.Chat) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockChatRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

// MockSquadRepository is a mock implementation of SquadRepository
type MockSquadRepository struct {
	mock.Mock
}

func (m *MockSquadRepository) Create(ctx context.Context, s *models.Squad) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSquadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Squad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Squad), args.Error(1)
}

func (m *MockSquadRepository) AddMember(ctx context.Context, squadID, userID uuid.UUID) (*models.SquadMember, bool, error) {
	args := m.Called(ctx, squadID, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.SquadMember), args.Bool(1), args.Error(2)
}

func (m *MockSquadRepository) RemoveMember(ctx context.Context, squadID, userID uuid.UUID) error {
	args := m.Called(ctx, squadID, userID)
	return args.Error(0)
}

func (m *MockSquadRepository) GetMember(ctx context.Context, squadID, userID uuid.UUID) (*models.SquadMember, error) {
	args := m.Called(ctx, squadID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SquadMember), args.Error(1)
}

func (m *MockSquadRepository) ListMembers(ctx context.Context, squadID uuid.UUID) ([]models.SquadMember, error) {
	args := m.Called(ctx, squadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SquadMember), args.Error(1)
}

func (m *MockSquadRepository) MemberCount(ctx context.Context, squadID uuid.UUID) (int, error) {
	args := m.Called(ctx, squadID)
	return args.Int(0), args.Error(1)
}

// MockCooldownRepository is a mock implementation of CooldownRepository
type MockCooldownRepository struct {
	mock.Mock
}

func (m *MockCooldownRepository) IsOnCooldown(ctx context.Context, userID uuid.UUID, action string) (bool, error) {
	args := m.Called(ctx, userID, action)
	return args.Bool(0), args.Error(1)
}

func (m *MockCooldownRepository) Set(ctx context.Context, userID uuid.UUID, action string, d time.Duration) error {
	args := m.Called(ctx, userID, action, d)
	return args.Error(0)
}

// MockNewUserPusher is a mock implementation of NewUserPusher
type MockNewUserPusher struct {
	mock.Mock
}

func (m *MockNewUserPusher) Push(ctx context.Context, entry cache.NewUserEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockPublisher is a mock implementation of events.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, stream string, event events.Event) error {
	args := m.Called(ctx, stream, event)
	return args.Error(0)
}
