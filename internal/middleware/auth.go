package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tokendrop/wallet-backend/internal/auth"
	"github.com/tokendrop/wallet-backend/internal/config"
	"github.com/tokendrop/wallet-backend/internal/models"
	"go.uber.org/zap"
)

const (
	CtxUserID         = "user_id"
	CtxTelegramUserID = "telegram_user_id"

	// Cookie, который ставит логин через виджет.
	AuthCookieName = "jwt_token"
)

// UserResolver loads the tier flags for the authenticated user.
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// AuthMiddleware resolves the access token: Authorization header first,
// then the jwt_token cookie. Missing and invalid tokens are distinct 401s.
func AuthMiddleware(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := ""
		if authHeader := c.Get("Authorization"); authHeader != "" {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenStr == authHeader {
				return errorJSON(c, fiber.StatusUnauthorized, "invalid authorization format")
			}
		} else {
			tokenStr = c.Cookies(AuthCookieName)
		}
		if tokenStr == "" {
			return errorJSON(c, fiber.StatusUnauthorized, "authentication credentials were not provided")
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return errorJSON(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(CtxUserID, claims.UserID)
		c.Locals(CtxTelegramUserID, claims.TelegramUserID)

		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(CtxUserID).(uuid.UUID)
	return id
}

func GetTelegramUserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(CtxTelegramUserID).(int64)
	return id
}

// RequireStaff gates the admin group on is_staff.
func RequireStaff(users UserResolver, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveActiveUser(c, users)
		if err != nil {
			return err
		}
		if !user.IsStaff {
			return errorJSON(c, fiber.StatusForbidden, "staff access required")
		}
		return c.Next()
	}
}

// RequireFullPermissions gates distribution endpoints (chat rewards, drops).
func RequireFullPermissions(users UserResolver, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveActiveUser(c, users)
		if err != nil {
			return err
		}
		if !user.FullPermissionsAPI {
			return errorJSON(c, fiber.StatusForbidden, "full API permissions required")
		}
		return c.Next()
	}
}

// RequireBeta updates last_login on every pass and enforces the beta flag
// only when the config switch is on.
func RequireBeta(users UserResolver, cfg *config.Config, log *zap.Logger) fiber.Handler {
	return tierMiddleware(users, log, func(u *models.User) bool {
		return !cfg.EnforceBetaTier || u.HasBetaAccess
	}, "beta access required")
}

func RequireAlpha(users UserResolver, cfg *config.Config, log *zap.Logger) fiber.Handler {
	return tierMiddleware(users, log, func(u *models.User) bool {
		return !cfg.EnforceAlphaTier || u.HasAlphaAccess
	}, "alpha access required")
}

func tierMiddleware(users UserResolver, log *zap.Logger, allowed func(*models.User) bool, denial string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveActiveUser(c, users)
		if err != nil {
			return err
		}

		// last_login фиксируем независимо от исхода проверки.
		if err := users.UpdateLastLogin(c.Context(), user.ID); err != nil {
			log.Warn("failed to update last_login", zap.Error(err))
		}

		if !allowed(user) {
			return errorJSON(c, fiber.StatusForbidden, denial)
		}
		return c.Next()
	}
}

func resolveActiveUser(c *fiber.Ctx, users UserResolver) (*models.User, error) {
	userID := GetUserID(c)
	if userID == uuid.Nil {
		return nil, errorJSON(c, fiber.StatusUnauthorized, "authentication credentials were not provided")
	}
	user, err := users.GetByID(c.Context(), userID)
	if err != nil {
		return nil, errorJSON(c, fiber.StatusUnauthorized, "user not found")
	}
	if !user.IsActive {
		return nil, errorJSON(c, fiber.StatusForbidden, "user is deactivated")
	}
	return user, nil
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"result":        "error",
		"error_message": msg,
	})
}
