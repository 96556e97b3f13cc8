package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tokendrop/wallet-backend/internal/auth"
	"github.com/tokendrop/wallet-backend/internal/config"
	"github.com/tokendrop/wallet-backend/internal/http/dto"
	"github.com/tokendrop/wallet-backend/internal/middleware"
	"github.com/tokendrop/wallet-backend/internal/services"
	"go.uber.org/zap"
)

type AuthHandler struct {
	registry *services.RegistryService
	cfg      *config.Config
	log      *zap.Logger
}

func NewAuthHandler(registry *services.RegistryService, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{registry: registry, cfg: cfg, log: log}
}

// Поля Login Widget, участвующие в подписи.
var widgetFields = []string{"id", "first_name", "last_name", "username", "photo_url", "auth_date", "hash"}

// WidgetLogin handles the Telegram Login Widget redirect flow: the widget
// calls back with signed query parameters; on success the access token is
// set as an HTTP-only cookie and the browser is redirected.
func (h *AuthHandler) WidgetLogin(c *fiber.Ctx) error {
	fields := make(map[string]string, len(widgetFields))
	for _, key := range widgetFields {
		if v := c.Query(key); v != "" {
			fields[key] = v
		}
	}

	if err := auth.ValidateTelegramWidgetData(fields, h.cfg.BotToken, h.cfg.WidgetAuthMaxAge); err != nil {
		h.log.Debug("widget login rejected", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}

	telegramID, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil || telegramID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("id is not a valid telegram id"))
	}

	res, err := h.registry.Register(c.Context(), services.RegisterInput{
		TelegramID: telegramID,
		UsernameTG: optional(fields["username"]),
		FirstName:  optional(fields["first_name"]),
		LastName:   optional(fields["last_name"]),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}

	pair, err := auth.GenerateTokenPair(h.cfg.JWTSecret, res.User.ID, res.User.TelegramUserID, h.cfg.JWTExpiration)
	if err != nil {
		return respondError(c, h.log, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    pair.Access,
		MaxAge:   int(h.cfg.AuthCookieMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Redirect(h.cfg.LoginRedirectURL, fiber.StatusFound)
}

// WebAppLogin validates Mini App initData and logs the user in. A ref_<id>
// start_param links the referrer on first registration.
func (h *AuthHandler) WebAppLogin(c *fiber.Ctx) error {
	var req dto.WebAppAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}
	if req.InitData == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("init_data is required"))
	}

	vals, err := auth.ValidateTelegramWebAppData(req.InitData, h.cfg.BotToken, h.cfg.InitDataMaxAge)
	if err != nil {
		h.log.Debug("webapp login rejected", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error(err.Error()))
	}

	userJSON := vals.Get("user")
	if userJSON == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("user data missing from init_data"))
	}

	var tgUser struct {
		ID        int64  `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.Unmarshal([]byte(userJSON), &tgUser); err != nil || tgUser.ID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid user data"))
	}

	in := services.RegisterInput{
		TelegramID: tgUser.ID,
		UsernameTG: optional(tgUser.Username),
		FirstName:  optional(tgUser.FirstName),
		LastName:   optional(tgUser.LastName),
	}
	if refID, ok := auth.ParseStartParamReferrer(vals.Get("start_param")); ok {
		in.ReferredByTelegramID = &refID
	}

	res, err := h.registry.Register(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}

	pair, err := auth.GenerateTokenPair(h.cfg.JWTSecret, res.User.ID, res.User.TelegramUserID, h.cfg.JWTExpiration)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(dto.Success(dto.AuthResponse{
		Token:   pair.Access,
		Refresh: pair.Refresh,
		User:    res.User,
	}))
}

// Register is the bot-facing registration endpoint: no Telegram signature,
// the caller is trusted (it sits behind the full-permissions tier).
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}

	in := services.RegisterInput{
		TelegramID: req.TelegramID,
		UsernameTG: req.UsernameTG,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	}
	if req.ReferredByID != nil {
		refID, err := uuid.Parse(*req.ReferredByID)
		if err == nil {
			// Неразборчивый id — как будто реферера нет.
			in.ReferredByInternalID = &refID
		}
	}

	res, err := h.registry.Register(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, res.User.ID, res.User.TelegramUserID, h.cfg.JWTExpiration)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(dto.Success(dto.RegisterResponse{
		Created:              res.Created,
		Token:                token,
		Beta:                 res.User.HasBetaAccess,
		Alpha:                res.User.HasAlphaAccess,
		ReferredByTelegramID: res.ReferrerTelegramID,
	}))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
