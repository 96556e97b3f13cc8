package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tokendrop/wallet-backend/internal/apperrors"
	"github.com/tokendrop/wallet-backend/internal/models"
	"go.uber.org/zap"
)

const testAddress = "0x52908400098527886E0F7030069857D2E4169EE7"

func newTestWallets() (*WalletService, *MockWalletRepository, *MockChainRepository) {
	wallets := new(MockWalletRepository)
	chains := new(MockChainRepository)
	svc := NewWalletService(wallets, chains, zap.NewNop())
	return svc, wallets, chains
}

func ethereumChain() *models.EVMChain {
	return &models.EVMChain{ID: uuid.New(), Name: "ethereum", ChainID: 1, IsActive: true}
}

func TestRegisterAddressMissingChain(t *testing.T) {
	svc, _, chains := newTestWallets()

	_, err := svc.RegisterAddress(context.Background(), models.OwnerUser, uuid.New(), "  ", testAddress)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	chains.AssertNotCalled(t, "GetActiveByName", mock.Anything, mock.Anything)
}

func TestRegisterAddressUnsupportedChain(t *testing.T) {
	svc, _, chains := newTestWallets()

	chains.On("GetActiveByName", mock.Anything, "dogecoin").Return(nil, pgx.ErrNoRows)

	_, err := svc.RegisterAddress(context.Background(), models.OwnerUser, uuid.New(), "dogecoin", testAddress)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRegisterAddressBadFormat(t *testing.T) {
	svc, wallets, chains := newTestWallets()

	chains.On("GetActiveByName", mock.Anything, "ethereum").Return(ethereumChain(), nil)

	for _, addr := range []string{
		"52908400098527886E0F7030069857D2E4169EE7", // без префикса
		"0x5290840009852788",                         // короткий
		"0x52908400098527886E0F7030069857D2E4169EZZ", // не hex
	} {
		_, err := svc.RegisterAddress(context.Background(), models.OwnerUser, uuid.New(), "ethereum", addr)
		require.Error(t, err, addr)
		assert.True(t, apperrors.IsValidation(err), addr)
	}
	wallets.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestRegisterAddressTaken(t *testing.T) {
	svc, wallets, chains := newTestWallets()

	chain := ethereumChain()
	chains.On("GetActiveByName", mock.Anything, "ethereum").Return(chain, nil)
	wallets.On("GetByChainAndAddress", mock.Anything, chain.ID, testAddress).Return(&models.Wallet{
		OwnerKind: models.OwnerUser,
		OwnerID:   uuid.New(), // другой владелец
		ChainID:   chain.ID,
		Address:   testAddress,
	}, nil)

	_, err := svc.RegisterAddress(context.Background(), models.OwnerUser, uuid.New(), "ethereum", testAddress)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	wallets.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestRegisterAddressRebindSameOwner(t *testing.T) {
	svc, wallets, chains := newTestWallets()

	chain := ethereumChain()
	ownerID := uuid.New()
	chains.On("GetActiveByName", mock.Anything, "ethereum").Return(chain, nil)
	wallets.On("GetByChainAndAddress", mock.Anything, chain.ID, testAddress).Return(&models.Wallet{
		OwnerKind: models.OwnerUser,
		OwnerID:   ownerID,
		ChainID:   chain.ID,
		Address:   testAddress,
	}, nil)
	wallets.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	w, err := svc.RegisterAddress(context.Background(), models.OwnerUser, ownerID, "ethereum", testAddress)
	require.NoError(t, err)
	assert.Equal(t, testAddress, w.Address)
}

func TestRegisterAddressHappyPath(t *testing.T) {
	svc, wallets, chains := newTestWallets()

	chain := ethereumChain()
	ownerID := uuid.New()
	chains.On("GetActiveByName", mock.Anything, "ethereum").Return(chain, nil)
	wallets.On("GetByChainAndAddress", mock.Anything, chain.ID, testAddress).Return(nil, pgx.ErrNoRows)
	wallets.On("Upsert", mock.Anything, mock.MatchedBy(func(w *models.Wallet) bool {
		return w.OwnerKind == models.OwnerUser && w.OwnerID == ownerID && w.ChainID == chain.ID
	})).Return(nil)

	w, err := svc.RegisterAddress(context.Background(), models.OwnerUser, ownerID, "ethereum", testAddress)
	require.NoError(t, err)
	assert.Equal(t, chain.ID, w.ChainID)
	wallets.AssertExpectations(t)
}

func TestAddUserChainAddressSilentNoop(t *testing.T) {
	svc, wallets, chains := newTestWallets()

	chain := ethereumChain()
	userID := uuid.New()
	chains.On("GetActiveByName", mock.Anything, "ethereum").Return(chain, nil)
	wallets.On("GetByChainAndAddress", mock.Anything, chain.ID, testAddress).Return(nil, pgx.ErrNoRows)
	wallets.On("InsertStrict", mock.Anything, mock.Anything).Return(false, nil)

	w, added, err := svc.AddUserChainAddress(context.Background(), userID, "ethereum", testAddress)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Nil(t, w)
}

func TestAddUserChainAddressAdded(t *testing.T) {
	svc, wallets, chains := newTestWallets()

	chain := ethereumChain()
	userID := uuid.New()
	chains.On("GetActiveByName", mock.Anything, "ethereum").Return(chain, nil)
	wallets.On("GetByChainAndAddress", mock.Anything, chain.ID, testAddress).Return(nil, pgx.ErrNoRows)
	wallets.On("InsertStrict", mock.Anything, mock.Anything).Return(true, nil)

	w, added, err := svc.AddUserChainAddress(context.Background(), userID, "ethereum", testAddress)
	require.NoError(t, err)
	assert.True(t, added)
	require.NotNil(t, w)
	assert.Equal(t, userID, w.OwnerID)
}
