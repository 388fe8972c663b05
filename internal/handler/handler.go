package handler

import (
	"github.com/go-telegram/bot"
	"github.com/teamtempo/tempobot/internal/config"
	"github.com/teamtempo/tempobot/internal/service"
)

// Handler wires Telegram updates to the activity service.
type Handler struct {
	bot      *bot.Bot
	cfg      *config.Config
	activity *service.ActivityService
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot      *bot.Bot
	Cfg      *config.Config
	Activity *service.ActivityService
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:      deps.Bot,
		cfg:      deps.Cfg,
		activity: deps.Activity,
	}
}

// Register registers all command and callback handlers on the bot instance.
// The catch-all text handler is registered in main so it runs after these.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "g:", bot.MatchTypePrefix, h.handleGratitude)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "f:", bot.MatchTypePrefix, h.handleFinish)
}
