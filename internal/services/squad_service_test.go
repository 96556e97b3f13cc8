package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tokendrop/wallet-backend/internal/apperrors"
	"github.com/tokendrop/wallet-backend/internal/config"
	"github.com/tokendrop/wallet-backend/internal/models"
	"github.com/tokendrop/wallet-backend/internal/repositories"
	"go.uber.org/zap"
)

type squadMocks struct {
	squads *MockSquadRepository
	ledgerMocks
}

func newTestSquads() (*SquadService, *squadMocks) {
	m := &squadMocks{
		squads: new(MockSquadRepository),
		ledgerMocks: ledgerMocks{
			balances:  new(MockBalanceRepository),
			tokens:    new(MockTokenRepository),
			cooldowns: new(MockCooldownRepository),
			publisher: new(MockPublisher),
		},
	}
	cfg := &config.Config{RewardCooldown: time.Minute}
	ledgerSvc := NewLedgerService(m.balances, m.tokens, m.cooldowns, m.publisher, cfg, zap.NewNop())
	walletSvc := NewWalletService(new(MockWalletRepository), new(MockChainRepository), zap.NewNop())
	svc := NewSquadService(m.squads, ledgerSvc, walletSvc, zap.NewNop())
	return svc, m
}

func TestCreateSquadRequiresName(t *testing.T) {
	svc, _ := newTestSquads()

	_, err := svc.CreateSquad(context.Background(), uuid.New(), "   ", false)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestLeaveOwnSquadRejected(t *testing.T) {
	svc, m := newTestSquads()

	owner := uuid.New()
	squad := &models.Squad{ID: uuid.New(), OwnerUserID: owner}
	m.squads.On("GetByID", mock.Anything, squad.ID).Return(squad, nil)

	err := svc.Leave(context.Background(), squad.ID, owner)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	m.squads.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinIsIdempotent(t *testing.T) {
	svc, m := newTestSquads()

	squad := &models.Squad{ID: uuid.New(), OwnerUserID: uuid.New()}
	userID := uuid.New()
	m.squads.On("GetByID", mock.Anything, squad.ID).Return(squad, nil)
	m.squads.On("AddMember", mock.Anything, squad.ID, userID).Return(nil, false, nil)

	member, joined, err := svc.Join(context.Background(), squad.ID, userID)
	require.NoError(t, err)
	assert.False(t, joined)
	assert.Nil(t, member)
}

func TestDropOnlyOwner(t *testing.T) {
	svc, m := newTestSquads()

	squad := &models.Squad{ID: uuid.New(), OwnerUserID: uuid.New()}
	m.squads.On("GetByID", mock.Anything, squad.ID).Return(squad, nil)

	_, err := svc.Drop(context.Background(), DropInput{
		SquadID:      squad.ID,
		ActorUserID:  uuid.New(), // не владелец
		MemberUserID: uuid.New(),
		Amount:       decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthorization(err))
}

func TestDropToNonMember(t *testing.T) {
	svc, m := newTestSquads()

	owner := uuid.New()
	squad := &models.Squad{ID: uuid.New(), OwnerUserID: owner}
	stranger := uuid.New()
	m.squads.On("GetByID", mock.Anything, squad.ID).Return(squad, nil)
	m.squads.On("GetMember", mock.Anything, squad.ID, stranger).Return(nil, pgx.ErrNoRows)

	_, err := svc.Drop(context.Background(), DropInput{
		SquadID:      squad.ID,
		ActorUserID:  owner,
		MemberUserID: stranger,
		Amount:       decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDropCreditsMemberBalance(t *testing.T) {
	svc, m := newTestSquads()

	owner := uuid.New()
	memberUser := uuid.New()
	squad := &models.Squad{ID: uuid.New(), OwnerUserID: owner}
	member := &models.SquadMember{ID: uuid.New(), SquadID: squad.ID, UserID: memberUser}
	token := activeToken()
	pool := &models.Balance{ID: uuid.New()}
	reward := &models.Reward{ID: uuid.New(), Kind: models.RewardKindDrop, ToUserID: memberUser, TokenID: token.ID, Amount: decimal.NewFromInt(3)}

	m.squads.On("GetByID", mock.Anything, squad.ID).Return(squad, nil)
	m.squads.On("GetMember", mock.Anything, squad.ID, memberUser).Return(member, nil)
	m.cooldowns.On("IsOnCooldown", mock.Anything, owner, CooldownSquadDrop).Return(false, nil)
	m.tokens.On("GetByID", mock.Anything, token.ID).Return(token, nil)
	m.balances.On("GetOrCreate", mock.Anything, models.BalanceOwnerSquadWallet, squad.ID, token.ID).Return(pool, nil)
	m.balances.On("Distribute", mock.Anything, mock.MatchedBy(func(p repositories.DistributeParams) bool {
		return p.RecipientOwnerKind == models.BalanceOwnerSquadMember &&
			p.RecipientOwnerID == member.ID &&
			p.Tx.Type == models.TxTypeDrop &&
			p.Reward.Kind == models.RewardKindDrop
	})).Return(reward, nil)
	m.cooldowns.On("Set", mock.Anything, owner, CooldownSquadDrop, time.Minute).Return(nil)
	m.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	got, err := svc.Drop(context.Background(), DropInput{
		SquadID:      squad.ID,
		ActorUserID:  owner,
		MemberUserID: memberUser,
		TokenID:      token.ID,
		Amount:       decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	assert.Equal(t, reward.ID, got.ID)
	m.balances.AssertExpectations(t)
}
