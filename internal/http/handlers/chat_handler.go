package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tokendrop/wallet-backend/internal/http/dto"
	"github.com/tokendrop/wallet-backend/internal/ledger"
	"github.com/tokendrop/wallet-backend/internal/middleware"
	"github.com/tokendrop/wallet-backend/internal/services"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chats *services.ChatService
	log   *zap.Logger
}

func NewChatHandler(chats *services.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{chats: chats, log: log}
}

func (h *ChatHandler) UpsertChat(c *fiber.Ctx) error {
	var req dto.UpsertChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}

	chat, err := h.chats.UpsertChat(c.Context(), services.UpsertChatInput{
		TelegramChatID: req.TelegramChatID,
		Title:          req.Title,
		Username:       req.Username,
		IsPublic:       req.IsPublic,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(chat))
}

func (h *ChatHandler) GetChat(c *fiber.Ctx) error {
	chatID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	chat, err := h.chats.GetChat(c.Context(), chatID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(chat))
}

func (h *ChatHandler) RegisterAddress(c *fiber.Ctx) error {
	chatID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req dto.RegisterAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}

	wallet, err := h.chats.RegisterAddress(c.Context(), chatID, req.Chain, req.Address)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(wallet))
}

func (h *ChatHandler) Balances(c *fiber.Ctx) error {
	chatID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	balances, err := h.chats.Balances(c.Context(), chatID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(balances))
}

func (h *ChatHandler) Deposit(c *fiber.Ctx) error {
	chatID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req dto.DepositRequest
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

	actorID := middleware.GetUserID(c)
	balance, err := h.chats.Deposit(c.Context(), chatID, services.PoolDeposit{
		TokenID:     tokenID,
		Amount:      amount,
		FromAddress: req.FromAddress,
		Hash:        req.Hash,
		ActorUserID: &actorID,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(balance))
}

func (h *ChatHandler) SetRewardPolicy(c *fiber.Ctx) error {
	chatID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req dto.RewardPolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}
	tokenID, err := parseUUIDField(req.TokenID, "token_id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	policy, err := parseRewardPolicy(req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	balance, err := h.chats.SetRewardPolicy(c.Context(), chatID, tokenID, policy)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(balance))
}

func (h *ChatHandler) Reward(c *fiber.Ctx) error {
	chatID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req dto.RewardRequest
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

	reward, err := h.chats.Reward(c.Context(), services.RewardInput{
		ChatID:              chatID,
		ActorUserID:         middleware.GetUserID(c),
		RecipientTelegramID: req.RecipientTelegramID,
		TokenID:             tokenID,
		Amount:              amount,
		Reason:              req.Reason,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(reward))
}

func parseRewardPolicy(req dto.RewardPolicyRequest) (ledger.RewardPolicy, error) {
	min, err := parseAmount(req.Min)
	if err != nil {
		return ledger.RewardPolicy{}, err
	}
	max, err := parseAmount(req.Max)
	if err != nil {
		return ledger.RewardPolicy{}, err
	}
	return ledger.RewardPolicy{Enabled: req.Enabled, Min: min, Max: max}, nil
}
