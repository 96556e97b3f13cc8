package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/tokendrop/wallet-backend/internal/config"
	"github.com/tokendrop/wallet-backend/internal/http/handlers"
	"github.com/tokendrop/wallet-backend/internal/middleware"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	users middleware.UserResolver,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	chatHandler *handlers.ChatHandler,
	squadHandler *handlers.SquadHandler,
	metaHandler *handlers.MetaHandler,
	adminHandler *handlers.AdminHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public). Widget принимает и GET (redirect от Telegram), и POST.
	api.Get("/auth/telegram/widget", authHandler.WidgetLogin)
	api.Post("/auth/telegram/widget", authHandler.WidgetLogin)
	api.Post("/auth/telegram/webapp", authHandler.WebAppLogin)

	// Rate-limited from here on
	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Meta (public reference data)
	api.Get("/chains", metaHandler.ListChains)
	api.Get("/chains/:name/tokens", metaHandler.ListChainTokens)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// Bot registration sits behind full API permissions.
	full := protected.Group("", middleware.RequireFullPermissions(users, log))
	full.Post("/auth/register", authHandler.Register)

	// Profile (beta tier)
	beta := protected.Group("", middleware.RequireBeta(users, cfg, log))
	beta.Get("/me", userHandler.GetMe)
	beta.Get("/me/cooldowns", userHandler.MyCooldowns)
	beta.Get("/me/transactions", userHandler.MyTransactions)
	beta.Get("/me/rewards", userHandler.MyRewards)
	beta.Post("/me/addresses", userHandler.AddAddress)
	beta.Get("/me/balances", userHandler.MyBalances)
	beta.Post("/me/withdraw", userHandler.Withdraw)

	// Chats: управление и пополнение — только бот с полными правами.
	full.Post("/chats", chatHandler.UpsertChat)
	protected.Get("/chats/:id", chatHandler.GetChat)
	protected.Get("/chats/:id/balances", chatHandler.Balances)
	full.Post("/chats/:id/addresses", chatHandler.RegisterAddress)
	full.Post("/chats/:id/deposit", chatHandler.Deposit)
	full.Post("/chats/:id/reward-policy", chatHandler.SetRewardPolicy)
	full.Post("/chats/:id/reward", chatHandler.Reward)

	// Squads (alpha tier)
	alpha := protected.Group("", middleware.RequireAlpha(users, cfg, log))
	alpha.Post("/squads", squadHandler.CreateSquad)
	alpha.Get("/squads/:id", squadHandler.GetSquad)
	alpha.Get("/squads/:id/members", squadHandler.Members)
	alpha.Post("/squads/:id/join", squadHandler.Join)
	alpha.Post("/squads/:id/leave", squadHandler.Leave)
	alpha.Post("/squads/:id/addresses", squadHandler.RegisterAddress)
	alpha.Get("/squads/:id/balances", squadHandler.Balances)
	alpha.Get("/squads/:id/balances/my", squadHandler.MyBalances)
	alpha.Post("/squads/:id/deposit", squadHandler.Deposit)
	alpha.Post("/squads/:id/reward-policy", squadHandler.SetRewardPolicy)
	alpha.Post("/squads/:id/drop", squadHandler.Drop)

	// Admin (staff only)
	admin := protected.Group("/admin", middleware.RequireStaff(users, log))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id", adminHandler.GetUser)
	admin.Get("/new-users", adminHandler.DrainNewUsers)
	admin.Post("/balances/freeze", adminHandler.FreezeBalance)
	admin.Post("/balances/unfreeze", adminHandler.UnfreezeBalance)

	// WebSocket event feed
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
