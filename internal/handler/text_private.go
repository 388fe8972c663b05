package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/teamtempo/tempobot/internal/middleware"
)

// HandleTextPrivate starts a new activity from a free-form intention typed
// into the private chat.
func (h *Handler) HandleTextPrivate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	msg := update.Message
	if strings.HasPrefix(msg.Text, "/") || strings.TrimSpace(msg.Text) == "" {
		return
	}

	user := middleware.User(ctx)
	if user == nil {
		return
	}

	if err := h.activity.Start(ctx, user, msg.Text, int64(msg.Date)); err != nil {
		slog.Error("start activity", "error", err, "user_id", user.ID)
	}
}
