package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/tokendrop/wallet-backend/internal/cache"
	"github.com/tokendrop/wallet-backend/internal/config"
	"github.com/tokendrop/wallet-backend/internal/db"
	"github.com/tokendrop/wallet-backend/internal/events"
	apphttp "github.com/tokendrop/wallet-backend/internal/http"
	"github.com/tokendrop/wallet-backend/internal/http/handlers"
	"github.com/tokendrop/wallet-backend/internal/repositories"
	"github.com/tokendrop/wallet-backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	balanceRepo := repositories.NewBalanceRepo(pool)
	walletRepo := repositories.NewWalletRepo(pool)
	chainRepo := repositories.NewChainRepo(pool)
	tokenRepo := repositories.NewTokenRepo(pool)
	chatRepo := repositories.NewChatRepo(pool)
	squadRepo := repositories.NewSquadRepo(pool)
	transactionRepo := repositories.NewTransactionRepo(pool)
	rewardRepo := repositories.NewRewardRepo(pool)
	cooldownRepo := repositories.NewCooldownRepo(pool)

	// Events + cache
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)
	newUserBuffer := cache.NewNewUserBuffer(rdb, cfg.NewUserBufferTTL, log)

	// Services
	registryService := services.NewRegistryService(userRepo, newUserBuffer, publisher, cfg, log)
	ledgerService := services.NewLedgerService(balanceRepo, tokenRepo, cooldownRepo, publisher, cfg, log)
	walletService := services.NewWalletService(walletRepo, chainRepo, log)
	chatService := services.NewChatService(chatRepo, userRepo, ledgerService, walletService, log)
	squadService := services.NewSquadService(squadRepo, ledgerService, walletService, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(registryService, cfg, log)
	userHandler := handlers.NewUserHandler(userRepo, cooldownRepo, transactionRepo, rewardRepo, walletService, ledgerService, log)
	chatHandler := handlers.NewChatHandler(chatService, log)
	squadHandler := handlers.NewSquadHandler(squadService, log)
	metaHandler := handlers.NewMetaHandler(chainRepo, tokenRepo, log)
	adminHandler := handlers.NewAdminHandler(userRepo, newUserBuffer, ledgerService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	wsHub.Start(ctx)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"result":        "error",
				"error_message": err.Error(),
			})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, userRepo,
		authHandler, userHandler, chatHandler, squadHandler, metaHandler, adminHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
