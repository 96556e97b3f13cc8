package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tokendrop/wallet-backend/internal/http/dto"
	"github.com/tokendrop/wallet-backend/internal/middleware"
	"github.com/tokendrop/wallet-backend/internal/services"
	"go.uber.org/zap"
)

type SquadHandler struct {
	squads *services.SquadService
	log    *zap.Logger
}

func NewSquadHandler(squads *services.SquadService, log *zap.Logger) *SquadHandler {
	return &SquadHandler{squads: squads, log: log}
}

func (h *SquadHandler) CreateSquad(c *fiber.Ctx) error {
	var req dto.CreateSquadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}

	squad, err := h.squads.CreateSquad(c.Context(), middleware.GetUserID(c), req.Name, req.IsPublic)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(squad))
}

func (h *SquadHandler) GetSquad(c *fiber.Ctx) error {
	squadID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	squad, err := h.squads.GetSquad(c.Context(), squadID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(squad))
}

func (h *SquadHandler) Members(c *fiber.Ctx) error {
	squadID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	members, count, err := h.squads.Members(c.Context(), squadID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(dto.MembersResponse{Members: members, Count: count}))
}

func (h *SquadHandler) Join(c *fiber.Ctx) error {
	squadID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	member, joined, err := h.squads.Join(c.Context(), squadID, middleware.GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(dto.JoinResponse{Joined: joined, Member: member}))
}

func (h *SquadHandler) Leave(c *fiber.Ctx) error {
	squadID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.squads.Leave(c.Context(), squadID, middleware.GetUserID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(nil))
}

func (h *SquadHandler) RegisterAddress(c *fiber.Ctx) error {
	squadID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req dto.RegisterAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}

	wallet, err := h.squads.RegisterAddress(c.Context(), squadID, req.Chain, req.Address)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(wallet))
}

func (h *SquadHandler) Balances(c *fiber.Ctx) error {
	squadID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	balances, err := h.squads.Balances(c.Context(), squadID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(balances))
}

// MyBalances lists the caller's member balances inside the squad.
func (h *SquadHandler) MyBalances(c *fiber.Ctx) error {
	squadID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	balances, err := h.squads.MemberBalances(c.Context(), squadID, middleware.GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(balances))
}

func (h *SquadHandler) Deposit(c *fiber.Ctx) error {
	squadID, err := parseUUIDParam(c, "id")
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
	balance, err := h.squads.Deposit(c.Context(), squadID, services.PoolDeposit{
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

func (h *SquadHandler) SetRewardPolicy(c *fiber.Ctx) error {
	squadID, err := parseUUIDParam(c, "id")
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

	balance, err := h.squads.SetRewardPolicy(c.Context(), squadID, tokenID, policy)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(balance))
}

func (h *SquadHandler) Drop(c *fiber.Ctx) error {
	squadID, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req dto.DropRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}
	memberID, err := parseUUIDField(req.MemberUserID, "member_user_id")
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

	reward, err := h.squads.Drop(c.Context(), services.DropInput{
		SquadID:      squadID,
		ActorUserID:  middleware.GetUserID(c),
		MemberUserID: memberID,
		TokenID:      tokenID,
		Amount:       amount,
		Reason:       req.Reason,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(reward))
}
