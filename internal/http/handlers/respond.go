package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tokendrop/wallet-backend/internal/apperrors"
	"github.com/tokendrop/wallet-backend/internal/http/dto"
	"go.uber.org/zap"
)

// respondError maps an error to the envelope. Unexpected errors are logged
// and surfaced as a generic 500, never with internals.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("not found"))
	}
	status := apperrors.StatusCode(err)
	if status == fiber.StatusInternalServerError {
		log.Error("unhandled error", zap.Error(err), zap.String("path", c.Path()))
		return c.Status(status).JSON(dto.Error("internal server error"))
	}
	return c.Status(status).JSON(dto.Error(err.Error()))
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError(name, "must be a valid uuid")
	}
	return id, nil
}

func parseUUIDField(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError(field, "must be a valid uuid")
	}
	return id, nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, apperrors.RequiredError("amount")
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError("amount", "must be a decimal number")
	}
	return amount, nil
}
