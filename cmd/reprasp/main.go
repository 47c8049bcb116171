package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"reprasp/internal/api"
	"reprasp/internal/bot"
	"reprasp/internal/config"
	"reprasp/internal/crash"
	"reprasp/internal/handler"
	"reprasp/internal/logger"
	"reprasp/internal/models"
	"reprasp/internal/service"
	"reprasp/internal/storage"
)

func main() {
	defer crash.RecoverWithStackAndExit("main")

	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	defer logger.Sync()

	// only the log level is applied live; everything else needs a restart
	config.Watch(func(c *config.Config) {
		if err := logger.SetLevel(c.Logger.Level); err != nil {
			logger.Warningf("Ignoring log level from reloaded config: %v", err)
		}
	}, func(err error) {
		logger.Warningf("Config reload failed: %v", err)
	})

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatalf("Invalid timezone: %v", err)
	}

	db, err := storage.Initialize(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := storage.Close(db); err != nil {
			logger.Warningf("Error closing database: %v", err)
		}
	}()

	repos := storage.NewRepositories(db)
	if err := repos.MigrateTables(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info("Database connection established and repositories initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workflow := service.NewWorkflow(repos, loc)
	if cfg.Admin.PrimaryID != 0 {
		if _, err := workflow.Bootstrap(ctx, cfg.Admin.PrimaryID); err != nil {
			logger.Fatalf("Failed to set primary admin: %v", err)
		}
	} else {
		logger.Warning("admin.primary_id is not set; requests cannot be approved until an admin exists")
	}

	cleaner := service.NewCleaner(workflow, cfg.Schedule.CleanupInterval)
	cleaner.Start(ctx)
	defer cleaner.Stop()

	apiHandler := api.NewHandler(workflow, service.NewExporter(workflow))
	mux := http.NewServeMux()
	mux.Handle("/", api.NewRouter(cfg.Server, apiHandler, logger.L()))

	var botService *bot.BotService
	if cfg.Bot.Enabled {
		botService, err = bot.Initialize(ctx, cfg, mux)
		if err != nil {
			logger.Fatalf("Failed to initialize bot: %v", err)
		}

		inputs := models.NewPendingInputManager(cfg.Schedule.InputTTL)
		inputs.StartCleanup(cfg.Schedule.InputTTL)
		defer inputs.Stop()

		botHandler := handler.New(workflow, botService.Bot, inputs, cfg.Bot)
		botHandler.SetupMessageHandlers(botService.Handler)
		workflow.SetNotifier(botHandler)

		crash.SafeGoroutine("bot-handler", botService.Start)
	} else {
		logger.Info("Telegram bot is disabled, serving the HTTP API only")
	}

	server := api.NewServer(cfg.Server.ListenAddr, mux, cfg.Server.CertFile, cfg.Server.KeyFile)
	serverErr := make(chan error, 1)
	crash.SafeGoroutine("http-server", func() {
		serverErr <- server.Start()
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v, shutting down...", sig)
	case err := <-serverErr:
		if err != nil {
			logger.Errorf("HTTP server error: %v", err)
		}
	}

	if botService != nil {
		botService.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warningf("HTTP server shutdown error: %v", err)
	}

	cancel()
	logger.Info("Server gracefully stopped")
}
