package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tokendrop/wallet-backend/internal/http/dto"
	"github.com/tokendrop/wallet-backend/internal/middleware"
	"github.com/tokendrop/wallet-backend/internal/models"
	"github.com/tokendrop/wallet-backend/internal/repositories"
	"github.com/tokendrop/wallet-backend/internal/services"
	"go.uber.org/zap"
)

type UserHandler struct {
	users        *repositories.UserRepo
	cooldowns    *repositories.CooldownRepo
	transactions *repositories.TransactionRepo
	rewards      *repositories.RewardRepo
	wallets      *services.WalletService
	ledger       *services.LedgerService
	log          *zap.Logger
}

func NewUserHandler(
	users *repositories.UserRepo,
	cooldowns *repositories.CooldownRepo,
	transactions *repositories.TransactionRepo,
	rewards *repositories.RewardRepo,
	wallets *services.WalletService,
	ledger *services.LedgerService,
	log *zap.Logger,
) *UserHandler {
	return &UserHandler{
		users:        users,
		cooldowns:    cooldowns,
		transactions: transactions,
		rewards:      rewards,
		wallets:      wallets,
		ledger:       ledger,
		log:          log,
	}
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	user, err := h.users.GetByID(c.Context(), userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	addresses, err := h.wallets.ListAddresses(c.Context(), models.OwnerUser, userID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(dto.Success(dto.ProfileResponse{User: user, Addresses: addresses}))
}

func (h *UserHandler) MyCooldowns(c *fiber.Ctx) error {
	cds, err := h.cooldowns.ListByUser(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(cds))
}

func (h *UserHandler) MyTransactions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	txs, err := h.transactions.ListByUser(c.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(txs))
}

func (h *UserHandler) MyRewards(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rewards, err := h.rewards.ListByRecipient(c.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(rewards))
}

// AddAddress binds an EVM address to the current user. Add-only: a user who
// already has an address on the chain gets added=false, not a replacement.
func (h *UserHandler) AddAddress(c *fiber.Ctx) error {
	var req dto.RegisterAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}

	wallet, added, err := h.wallets.AddUserChainAddress(c.Context(), middleware.GetUserID(c), req.Chain, req.Address)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if !added {
		return c.JSON(dto.Success(dto.AddressAddedResponse{Added: false}))
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(dto.AddressAddedResponse{Added: true, Wallet: wallet}))
}

// Withdraw debits the caller's available balance. The destination address is
// recorded as claimed; settlement is out of band.
func (h *UserHandler) Withdraw(c *fiber.Ctx) error {
	var req dto.WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}
	tokenID, err := parseUUIDField(req.TokenID, "token_id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return respondError(c, h.log, err)
	}

	userID := middleware.GetUserID(c)
	balance, err := h.ledger.Withdraw(c.Context(), services.MoveInput{
		OwnerKind:   models.BalanceOwnerUserWallet,
		OwnerID:     userID,
		TokenID:     tokenID,
		Amount:      amount,
		ToAddress:   req.ToAddress,
		ActorUserID: &userID,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(balance))
}

func (h *UserHandler) MyBalances(c *fiber.Ctx) error {
	balances, err := h.ledger.ListBalances(c.Context(), models.BalanceOwnerUserWallet, middleware.GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(balances))
}
