// Package telegram adapts the bot API client to the narrow transport
// surface the services depend on, so they can be exercised against a fake.
package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Transport is the set of chat operations the services need. chatID follows
// the bot API convention: an int64 chat id or an "@channelname" string.
type Transport interface {
	SendMessage(ctx context.Context, chatID any, text string, markup models.ReplyMarkup) (int, error)
	EditMessageText(ctx context.Context, chatID any, messageID int, text string, markup models.ReplyMarkup) error
	EditMessageReplyMarkup(ctx context.Context, chatID any, messageID int, markup models.ReplyMarkup) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// BotTransport implements Transport on a live bot client.
type BotTransport struct {
	bot *bot.Bot
}

var _ Transport = (*BotTransport)(nil)

func NewBotTransport(b *bot.Bot) *BotTransport {
	return &BotTransport{bot: b}
}

func (t *BotTransport) SendMessage(ctx context.Context, chatID any, text string, markup models.ReplyMarkup) (int, error) {
	msg, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return msg.ID, nil
}

func (t *BotTransport) EditMessageText(ctx context.Context, chatID any, messageID int, text string, markup models.ReplyMarkup) error {
	_, err := t.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		return fmt.Errorf("edit message text: %w", err)
	}
	return nil
}

func (t *BotTransport) EditMessageReplyMarkup(ctx context.Context, chatID any, messageID int, markup models.ReplyMarkup) error {
	_, err := t.bot.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: markup,
	})
	if err != nil {
		return fmt.Errorf("edit reply markup: %w", err)
	}
	return nil
}

func (t *BotTransport) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := t.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}
