package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/tinnitus-helper/internal/api"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/handlers"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/state"
	"github.com/vladimiradmaev/tinnitus-helper/internal/config"
	"github.com/vladimiradmaev/tinnitus-helper/internal/database"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
	"github.com/vladimiradmaev/tinnitus-helper/internal/repository"
	"github.com/vladimiradmaev/tinnitus-helper/internal/services"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := logger.Init(); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err.Error())
	}
	if err := godotenv.Load(); err != nil {
		logger.Info(".env file not found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err.Error())
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.LogLevel(),
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err.Error())
	}
	logger.Info("Starting Tinnitus Helper")

	db, err := database.Open(cfg.DB, logger.ForComponent("database"))
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err.Error())
	}
	defer database.Close(db)
	logger.Info("Database connection established and migrations completed")

	loc, err := cfg.Report.Location()
	if err != nil {
		logger.Fatal("Invalid report timezone", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(db)
	checkInRepo := repository.NewCheckInRepository(db)

	userService := services.NewUserService(userRepo, cfg.AdminTelegramIDs)
	checkInService := services.NewCheckInService(checkInRepo, loc, time.Now)
	reportService, err := services.NewReportService(userRepo, checkInRepo, cfg.Report, time.Now)
	if err != nil {
		logger.Fatal("Failed to create report service", "error", err.Error())
	}

	var generator services.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("Gemini unavailable, summaries will use the plain format", "error", err.Error())
		} else {
			defer gemini.Close()
			generator = gemini
		}
	}
	narrativeService := services.NewNarrativeService(generator)
	logger.Info("Services initialized successfully")

	g, gctx := errgroup.WithContext(ctx)

	if cfg.TelegramToken != "" {
		stateManager := newStateManager(cfg.Redis)
		if closer, ok := stateManager.(io.Closer); ok {
			defer closer.Close()
		}
		telegramBot, err := bot.NewBot(cfg.TelegramToken, handlers.Dependencies{
			UserService:  userService,
			CheckInSvc:   checkInService,
			ReportSvc:    reportService,
			NarrativeSvc: narrativeService,
		}, stateManager)
		if err != nil {
			logger.Fatal("Failed to create bot", "error", err.Error())
		}

		g.Go(func() error {
			if err := telegramBot.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("bot stopped: %w", err)
			}
			return nil
		})
	}

	if cfg.HTTP.Addr != "" {
		router := api.NewRouter(api.RouterConfig{
			Reports:     reportService,
			APIToken:    cfg.HTTP.APIToken,
			CORSOrigins: cfg.HTTP.CORSOrigins,
			Ping:        func(ctx context.Context) error { return database.Ping(ctx, db) },
			Logger:      logger.ForComponent("http"),
		})
		server := api.NewServer(cfg.HTTP.Addr, router, logger.ForComponent("http"))

		g.Go(func() error {
			if err := server.Run(gctx); err != nil {
				return fmt.Errorf("HTTP server stopped: %w", err)
			}
			return nil
		})
	}

	logger.Info("Tinnitus Helper is running. Press Ctrl+C to stop.")
	if err := g.Wait(); err != nil {
		logger.Error("Shutting down after failure", "error", err.Error())
	}
	logger.Info("Shutdown complete")
}

// newStateManager prefers Redis so wizard progress survives restarts, and
// falls back to memory when Redis is not configured or unreachable
func newStateManager(cfg config.RedisConfig) state.StateManager {
	if cfg.Host == "" {
		return state.NewManager()
	}
	m, err := state.NewRedisManager(cfg)
	if err != nil {
		logger.Warnf("Redis at %s:%s unavailable, keeping conversation state in memory: %v", cfg.Host, cfg.Port, err)
		return state.NewManager()
	}
	logger.Info("Conversation state stored in Redis", "host", cfg.Host)
	return m
}
