package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	username := ""
	if update.Message.From != nil {
		username = update.Message.From.Username
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   welcomeMessage(username),
	})
}

func welcomeMessage(username string) string {
	return fmt.Sprintf("Hey %s! When starting working activity - just type your intention here and it will be broadcasted to team channel for coordination", username)
}
