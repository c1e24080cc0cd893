package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Kerhoff/couplebot/internal/api"
	"github.com/Kerhoff/couplebot/internal/config"
	"github.com/Kerhoff/couplebot/internal/handlers"
	"github.com/Kerhoff/couplebot/internal/repository"
	"github.com/Kerhoff/couplebot/internal/repository/memory"
	"github.com/Kerhoff/couplebot/internal/repository/postgres"
	"github.com/Kerhoff/couplebot/internal/service"
	"github.com/Kerhoff/couplebot/internal/session"
	"github.com/Kerhoff/couplebot/internal/telegram"
	"github.com/Kerhoff/couplebot/pkg/logger"
)

func main() {
	// .env is optional, real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting couplebot...")

	// Repositories: Postgres when configured, in-memory otherwise.
	var (
		userRepo  repository.UserRepository
		taskRepo  repository.TaskRepository
		wishRepo  repository.WishRepository
		movieRepo repository.MovieRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := config.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			l.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := config.RunMigrations(db, "migrations"); err != nil {
			l.Fatalf("Failed to run migrations: %v", err)
		}

		userRepo = postgres.NewUserRepository(db)
		taskRepo = postgres.NewTaskRepository(db)
		wishRepo = postgres.NewWishRepository(db)
		movieRepo = postgres.NewMovieRepository(db)
		l.Info("Using Postgres storage")
	} else {
		userRepo = memory.NewUserRepository()
		taskRepo = memory.NewTaskRepository()
		wishRepo = memory.NewWishRepository()
		movieRepo = memory.NewMovieRepository()
		l.Warn("DATABASE_URL not set, using in-memory storage")
	}

	// Telegram bot with the allow-list gate.
	allowed := make(map[int64]bool, len(cfg.AllowedUserIDs))
	for _, id := range cfg.AllowedUserIDs {
		allowed[id] = true
	}
	bot, err := telegram.NewBot(cfg.TelegramToken, l, func(userID int64) bool {
		return allowed[userID]
	})
	if err != nil {
		l.Fatalf("Failed to create Telegram bot: %v", err)
	}

	// Service layer with the async partner notifier.
	notifier := service.NewNotifier(bot.SendMessage, l)
	svc := service.New(l, cfg.AllowedUserIDs, notifier,
		userRepo, taskRepo, wishRepo, movieRepo)

	sessions := session.NewStore()

	// Command and menu handlers.
	bot.RegisterCommand("start", handlers.NewStartHandler(svc, sessions, l))
	bot.RegisterCommand("help", handlers.NewHelpHandler(l))

	cancelHandler := handlers.NewCancelHandler(sessions, l)
	bot.RegisterCommand("cancel", cancelHandler)
	bot.RegisterCallback("cancel", telegram.CallbackFunc(cancelHandler.HandleCallback))
	bot.RegisterCallback("main_menu", &handlers.MainMenuHandler{})

	taskHandler := handlers.NewTaskHandler(svc, sessions, l)
	taskHandler.Register(bot)
	wishHandler := handlers.NewWishHandler(svc, sessions, l)
	wishHandler.Register(bot)
	movieHandler := handlers.NewMovieHandler(svc, sessions, l)
	movieHandler.Register(bot)

	bot.RegisterFlowInput(handlers.NewFlowInputHandler(sessions, taskHandler, wishHandler, movieHandler, l))

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

	go notifier.Start(ctx)

	// HTTP server for the read API, health and metrics.
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

	go func() {
		if err := bot.Start(ctx); err != nil {
			l.Errorf("Bot error: %v", err)
		}
	}()

	l.Info("couplebot started successfully")

	<-ctx.Done()

	l.Info("Shutting down HTTP server...")
	httpServer.Close()

	l.Info("couplebot stopped")
}
