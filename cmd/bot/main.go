package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tempobot "github.com/teamtempo/tempobot"
	"github.com/teamtempo/tempobot/internal/config"
	"github.com/teamtempo/tempobot/internal/content"
	"github.com/teamtempo/tempobot/internal/handler"
	"github.com/teamtempo/tempobot/internal/middleware"
	"github.com/teamtempo/tempobot/internal/repository"
	"github.com/teamtempo/tempobot/internal/service"
	"github.com/teamtempo/tempobot/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(tempobot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store := repository.NewStore(pool)

	// Load quote/question lists
	var contentFS fs.FS
	if cfg.ContentDir != "" {
		contentFS = os.DirFS(cfg.ContentDir)
	} else {
		contentFS, err = fs.Sub(tempobot.ContentFS, "content")
		if err != nil {
			slog.Error("failed to load embedded content", "error", err)
			os.Exit(1)
		}
	}
	library, err := content.Load(contentFS)
	if err != nil {
		slog.Error("failed to load content lists", "error", err)
		os.Exit(1)
	}

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.UserTracker(store),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			// Callback payloads outside the known tags end up here
			if update.CallbackQuery != nil {
				h.HandleUnknownCallback(ctx, b, update)
			}
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	// Initialize services
	transport := telegram.NewBotTransport(b)
	activityService := service.NewActivityService(transport, store, store, cfg.ChannelID)
	reminderService := service.NewReminderService(transport, store, library, cfg.ReminderInterval)

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:      b,
		Cfg:      cfg,
		Activity: activityService,
	})

	// Register all handlers
	h.Register()

	// Register default text handler: any non-command private text declares
	// a new activity
	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		// Skip commands
		if len(update.Message.Text) > 0 && update.Message.Text[0] == '/' {
			return
		}
		h.HandleTextPrivate(ctx, b, update)
	})

	// Start reminder loop
	go reminderService.Run(ctx)

	// Start bot
	slog.Info("starting bot",
		"username", me.Username,
		"id", me.ID,
		"channel", cfg.ChannelID,
		"reminder_interval", cfg.ReminderInterval,
	)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
