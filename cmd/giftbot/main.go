package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"giftbot/internal/api"
	"giftbot/internal/config"
	"giftbot/internal/handlers"
	"giftbot/internal/repository/postgres"
	"giftbot/internal/service"
	"giftbot/internal/telegram"
	"giftbot/pkg/logger"
)

func main() {
	// Local development convenience; the file is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting giftbot...")

	// Database
	db, err := config.NewDatabase(cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(cfg.MigrationsPath); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	giftRepo := postgres.NewGiftRepository(db.DB)
	contributionRepo := postgres.NewContributionRepository(db.DB)
	participantRepo := postgres.NewParticipantRepository(db.DB)
	banRepo := postgres.NewBanRepository(db.DB)
	adminRepo := postgres.NewAdminRepository(db.DB)
	factRepo := postgres.NewFactRepository(db.DB)
	statsRepo := postgres.NewStatsRepository(db.DB)

	// Service layer
	svc := service.New(l,
		giftRepo, contributionRepo, participantRepo,
		banRepo, adminRepo, factRepo, statsRepo,
	)

	// Telegram bot
	bot, err := telegram.NewBot(cfg.TelegramToken, l)
	if err != nil {
		l.Fatalf("Failed to create Telegram bot: %v", err)
	}

	conversations := telegram.NewConversations(cfg.ConversationTTL)

	// Commands
	bot.RegisterCommand("start", handlers.NewStartHandler(svc, conversations, l))
	bot.RegisterCommand("menu", handlers.NewStartHandler(svc, conversations, l))
	bot.RegisterCommand("help", handlers.NewHelpHandler(l))
	bot.RegisterCommand("cancel", handlers.NewCancelHandler(conversations, l))

	// Navigation
	bot.RegisterCallback("menu", handlers.NewMenuHandler(svc, conversations, l))

	// Gift browsing and lifecycle
	bot.RegisterCallback("gifts", handlers.NewGiftListHandler(svc, l))
	bot.RegisterCallback("gift", handlers.NewGiftDetailHandler(svc, l))
	bot.RegisterCallback("my_gifts", handlers.NewMyGiftsHandler(svc, l))
	bot.RegisterCallback("claim", handlers.NewClaimHandler(svc, conversations, l))
	bot.RegisterCallback("join", handlers.NewJoinHandler(svc, conversations, l))
	bot.RegisterCallback("pledge", handlers.NewPledgeHandler(svc, conversations, l))
	bot.RegisterCallback("skip_pledge", handlers.NewSkipPledgeHandler(svc, conversations, l))
	bot.RegisterCallback("withdraw", handlers.NewWithdrawHandler(svc, l))
	bot.RegisterCallback("bought", handlers.NewBoughtHandler(svc, l))
	bot.RegisterCallback("already_has", handlers.NewAlreadyHasHandler(svc, l))
	bot.RegisterCallback("delete", handlers.NewDeleteGiftHandler(svc, l))

	// Gift creation flow
	bot.RegisterCallback("add_gift", handlers.NewAddGiftHandler(svc, conversations, l))
	bot.RegisterCallback("skip_price", handlers.NewSkipPriceHandler(conversations, l))
	bot.RegisterCallback("category", handlers.NewCategoryHandler(svc, conversations, l))

	// Facts and statistics
	bot.RegisterCallback("facts", handlers.NewFactsHandler(svc, l))
	bot.RegisterCallback("add_fact", handlers.NewAddFactHandler(svc, conversations, l))
	bot.RegisterCallback("stats", handlers.NewStatsHandler(svc, l))

	// Admin panel
	bot.RegisterCallback("admin", handlers.NewAdminPanelHandler(svc, conversations, l))
	bot.RegisterCallback("admin_ban", handlers.NewAdminBanHandler(svc, conversations, l))
	bot.RegisterCallback("ban", handlers.NewBanUserHandler(svc, conversations, l))
	bot.RegisterCallback("admin_unban", handlers.NewAdminUnbanHandler(svc, l))
	bot.RegisterCallback("unban", handlers.NewUnbanUserHandler(svc, l))
	bot.RegisterCallback("admin_banned", handlers.NewBannedListHandler(svc, l))
	bot.RegisterCallback("admin_promote", handlers.NewAdminPromoteHandler(svc, conversations, l))
	bot.RegisterCallback("admin_broadcast", handlers.NewAdminBroadcastHandler(svc, conversations, l))

	// Free text advances whatever flow the sender is on
	bot.RegisterFallback(handlers.NewFlowHandler(svc, conversations, l))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	// Discard abandoned conversation state
	go conversations.StartSweeper(ctx, 5*time.Minute)

	// HTTP API, snapshot endpoints and Prometheus metrics
	apiServer := api.NewServer(svc, l)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: apiServer.Handler(),
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	// Start Telegram bot polling
	go func() {
		if err := bot.Start(ctx); err != nil {
			l.Errorf("Bot error: %v", err)
		}
	}()

	l.Info("giftbot started successfully")

	<-ctx.Done()

	l.Info("Shutting down HTTP server...")
	httpServer.Close()

	l.Info("giftbot stopped")
}
