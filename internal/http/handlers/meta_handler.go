package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/tokendrop/wallet-backend/internal/apperrors"
	"github.com/tokendrop/wallet-backend/internal/http/dto"
	"github.com/tokendrop/wallet-backend/internal/repositories"
	"go.uber.org/zap"
)

// MetaHandler serves the chain/token reference data seeded by migrations.
type MetaHandler struct {
	chains *repositories.ChainRepo
	tokens *repositories.TokenRepo
	log    *zap.Logger
}

func NewMetaHandler(chains *repositories.ChainRepo, tokens *repositories.TokenRepo, log *zap.Logger) *MetaHandler {
	return &MetaHandler{chains: chains, tokens: tokens, log: log}
}

func (h *MetaHandler) ListChains(c *fiber.Ctx) error {
	chains, err := h.chains.ListActive(c.Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(chains))
}

func (h *MetaHandler) ListChainTokens(c *fiber.Ctx) error {
	name := c.Params("name")
	chain, err := h.chains.GetActiveByName(c.Context(), name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return respondError(c, h.log, apperrors.NewNotFoundError("chain", name))
		}
		return respondError(c, h.log, err)
	}

	tokens, err := h.tokens.ListByChain(c.Context(), chain.ID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(tokens))
}
