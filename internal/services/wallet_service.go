package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tokendrop/wallet-backend/internal/apperrors"
	"github.com/tokendrop/wallet-backend/internal/models"
	"go.uber.org/zap"
)

// Адрес EVM: 0x + 40 hex-символов, чексумму не проверяем.
var evmAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// WalletService binds EVM addresses to owners (users, chats, squads).
// Binding is a claim, not an ownership proof: no signature is verified.
type WalletService struct {
	wallets WalletRepository
	chains  ChainRepository
	log     *zap.Logger
}

func NewWalletService(wallets WalletRepository, chains ChainRepository, log *zap.Logger) *WalletService {
	return &WalletService{wallets: wallets, chains: chains, log: log}
}

// RegisterAddress is the canonical create-or-update path: a repeat call for
// the same (owner, chain) replaces the previous address. Validation order:
// missing fields, unsupported chain, address format, address held elsewhere.
func (s *WalletService) RegisterAddress(ctx context.Context, ownerKind string, ownerID uuid.UUID, chainName, address string) (*models.Wallet, error) {
	chain, err := s.validateBinding(ctx, ownerKind, ownerID, chainName, address)
	if err != nil {
		return nil, err
	}

	holder, err := s.wallets.GetByChainAndAddress(ctx, chain.ID, address)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if holder != nil && (holder.OwnerKind != ownerKind || holder.OwnerID != ownerID) {
		return nil, apperrors.NewConflictError("address", "already bound to another owner on this chain")
	}

	w := &models.Wallet{
		OwnerKind: ownerKind,
		OwnerID:   ownerID,
		ChainID:   chain.ID,
		Address:   address,
	}
	if err := s.wallets.Upsert(ctx, w); err != nil {
		return nil, err
	}

	s.log.Info("address bound",
		zap.String("owner_kind", ownerKind),
		zap.String("owner_id", ownerID.String()),
		zap.String("chain", chain.Name),
	)
	return w, nil
}

// AddUserChainAddress is the strict add-only path used at registration:
// if the user already has an address on the chain the call is a silent
// no-op and returns false.
func (s *WalletService) AddUserChainAddress(ctx context.Context, userID uuid.UUID, chainName, address string) (*models.Wallet, bool, error) {
	chain, err := s.validateBinding(ctx, models.OwnerUser, userID, chainName, address)
	if err != nil {
		return nil, false, err
	}

	holder, err := s.wallets.GetByChainAndAddress(ctx, chain.ID, address)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}
	if holder != nil && (holder.OwnerKind != models.OwnerUser || holder.OwnerID != userID) {
		return nil, false, apperrors.NewConflictError("address", "already bound to another owner on this chain")
	}

	w := &models.Wallet{
		OwnerKind: models.OwnerUser,
		OwnerID:   userID,
		ChainID:   chain.ID,
		Address:   address,
	}
	added, err := s.wallets.InsertStrict(ctx, w)
	if err != nil {
		return nil, false, err
	}
	if !added {
		return nil, false, nil
	}
	return w, true, nil
}

func (s *WalletService) ListAddresses(ctx context.Context, ownerKind string, ownerID uuid.UUID) ([]models.Wallet, error) {
	return s.wallets.ListByOwner(ctx, ownerKind, ownerID)
}

func (s *WalletService) validateBinding(ctx context.Context, ownerKind string, ownerID uuid.UUID, chainName, address string) (*models.EVMChain, error) {
	if ownerKind == "" || ownerID == uuid.Nil {
		return nil, apperrors.RequiredError("owner")
	}
	if strings.TrimSpace(chainName) == "" {
		return nil, apperrors.RequiredError("chain")
	}
	if strings.TrimSpace(address) == "" {
		return nil, apperrors.RequiredError("address")
	}

	chain, err := s.chains.GetActiveByName(ctx, chainName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("chain", "unsupported chain")
		}
		return nil, err
	}

	if !evmAddressRe.MatchString(address) {
		return nil, apperrors.NewValidationError("address", "invalid EVM address format")
	}
	return chain, nil
}
