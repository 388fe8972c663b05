package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/teamtempo/tempobot/internal/domain"
	"github.com/teamtempo/tempobot/internal/service"
)

type ctxKey string

const userKey ctxKey = "user"

// User extracts the tracked user from ctx. Nil when the update did not come
// from a private chat.
func User(ctx context.Context) *domain.User {
	u, ok := ctx.Value(userKey).(*domain.User)
	if !ok {
		return nil
	}
	return u
}

// UserTracker returns middleware that upserts a user record for every
// private-chat update, so the reminder loop always has a fresh chat id and
// display name for each user. The record is stored in ctx either way; a
// failed upsert is logged and must not block message handling.
func UserTracker(store service.UserStore) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			var chatID int64

			if update.Message != nil && update.Message.Chat.Type == "private" {
				from = update.Message.From
				chatID = update.Message.Chat.ID
			} else if update.CallbackQuery != nil {
				if msg := update.CallbackQuery.Message.Message; msg != nil && msg.Chat.Type == "private" {
					from = &update.CallbackQuery.From
					chatID = msg.Chat.ID
				}
			}

			if from == nil || chatID == 0 {
				next(ctx, b, update)
				return
			}

			u := &domain.User{
				ID:       from.ID,
				ChatID:   chatID,
				UserName: from.Username,
			}
			if err := store.AddUser(ctx, u); err != nil {
				slog.Error("track user", "error", err, "user_id", from.ID)
			}
			ctx = context.WithValue(ctx, userKey, u)

			next(ctx, b, update)
		}
	}
}
