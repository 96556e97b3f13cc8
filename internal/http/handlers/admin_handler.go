package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tokendrop/wallet-backend/internal/cache"
	"github.com/tokendrop/wallet-backend/internal/http/dto"
	"github.com/tokendrop/wallet-backend/internal/models"
	"github.com/tokendrop/wallet-backend/internal/repositories"
	"github.com/tokendrop/wallet-backend/internal/services"
	"go.uber.org/zap"
)

// AdminHandler: staff-only monitoring and escrow endpoints.
type AdminHandler struct {
	users  *repositories.UserRepo
	buffer *cache.NewUserBuffer
	ledger *services.LedgerService
	log    *zap.Logger
}

func NewAdminHandler(users *repositories.UserRepo, buffer *cache.NewUserBuffer, ledger *services.LedgerService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, buffer: buffer, ledger: ledger, log: log}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	users, err := h.users.List(c.Context(), limit, offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(users))
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	user, err := h.users.GetByID(c.Context(), userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(user))
}

// FreezeBalance moves part of a balance's available amount into escrow.
func (h *AdminHandler) FreezeBalance(c *fiber.Ctx) error {
	return h.applyFreeze(c, h.ledger.Freeze)
}

func (h *AdminHandler) UnfreezeBalance(c *fiber.Ctx) error {
	return h.applyFreeze(c, h.ledger.Unfreeze)
}

func (h *AdminHandler) applyFreeze(
	c *fiber.Ctx,
	op func(ctx context.Context, ownerKind string, ownerID, tokenID uuid.UUID, amount decimal.Decimal) (*models.Balance, error),
) error {
	var req dto.FreezeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}
	ownerID, err := parseUUIDField(req.OwnerID, "owner_id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	tokenID, err := parseUUIDField(req.TokenID, "token_id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return respondError(c, h.log, err)
	}

	balance, err := op(c.Context(), req.OwnerKind, ownerID, tokenID, amount)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(balance))
}

// DrainNewUsers returns the buffered first-time registrations and clears
// the buffer. Concurrent pollers race on the clear; each entry is delivered
// at most once.
func (h *AdminHandler) DrainNewUsers(c *fiber.Ctx) error {
	entries, err := h.buffer.Drain(c.Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(entries))
}
