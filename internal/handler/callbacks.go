package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/teamtempo/tempobot/internal/domain"
	"github.com/teamtempo/tempobot/internal/service"
)

func (h *Handler) handleGratitude(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	msg := cb.Message.Message
	if msg == nil {
		// Message too old for the API to include; nothing left to edit.
		h.ack(ctx, b, cb.ID)
		return
	}

	err := h.activity.Gratitude(ctx, service.GratitudeClick{
		CallbackID:   cb.ID,
		Data:         cb.Data,
		MessageID:    msg.ID,
		MessageText:  msg.Text,
		Entities:     msg.Entities,
		FromUserName: cb.From.Username,
	})
	if err != nil {
		h.reportCallbackError(ctx, b, cb, err)
	}
}

func (h *Handler) handleFinish(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	msg := cb.Message.Message
	if msg == nil {
		h.ack(ctx, b, cb.ID)
		return
	}

	// The finish button lives on the private copy only; a finish payload
	// arriving from anywhere else was forged or forwarded.
	if msg.Chat.Type != "private" {
		h.reportCallbackError(ctx, b, cb,
			fmt.Errorf("finish callback from %s chat: %w", msg.Chat.Type, domain.ErrMalformedCallback))
		return
	}

	err := h.activity.Finish(ctx, service.FinishClick{
		CallbackID:   cb.ID,
		Data:         cb.Data,
		ChatID:       msg.Chat.ID,
		MessageID:    msg.ID,
		MessageText:  msg.Text,
		FromUserName: cb.From.Username,
	})
	if err != nil {
		h.reportCallbackError(ctx, b, cb, err)
	}
}

// HandleUnknownCallback drops callback payloads that match no known intent
// tag. Wired as the default handler in main.
func (h *Handler) HandleUnknownCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	slog.Warn("dropping callback with unknown tag", "data", cb.Data)
	h.ack(ctx, b, cb.ID)
}

// reportCallbackError logs the failure and answers the callback so the
// client spinner clears. Nothing here is fatal to the process.
func (h *Handler) reportCallbackError(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery, err error) {
	switch {
	case errors.Is(err, domain.ErrActivityFinished):
		slog.Warn("callback on finished activity", "error", err, "user_id", cb.From.ID)
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: cb.ID,
			Text:            "This activity is already finished",
		})
	case errors.Is(err, domain.ErrMalformedCallback), errors.Is(err, domain.ErrUnsupportedIntent):
		slog.Warn("dropping malformed callback", "error", err, "data", cb.Data)
		h.ack(ctx, b, cb.ID)
	default:
		slog.Error("callback handling failed", "error", err, "data", cb.Data)
		h.ack(ctx, b, cb.ID)
	}
}

func (h *Handler) ack(ctx context.Context, b *bot.Bot, callbackID string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: callbackID})
}
