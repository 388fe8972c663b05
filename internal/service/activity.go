package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/teamtempo/tempobot/internal/activity"
	"github.com/teamtempo/tempobot/internal/callback"
	"github.com/teamtempo/tempobot/internal/domain"
	"github.com/teamtempo/tempobot/internal/telegram"
)

const (
	gratitudeLabel = "Thank you!"
	finishLabel    = "Finish Activity"
)

// ActivityService drives the lifecycle of an activity message: declared in
// a private chat, broadcast to the team channel, collecting gratitude, and
// finally rewritten in place with the elapsed time.
type ActivityService struct {
	transport  telegram.Transport
	users      UserStore
	activities ActivityStore
	channelID  string

	// Now returns the current time; replaceable in tests.
	Now func() time.Time
}

func NewActivityService(transport telegram.Transport, users UserStore, activities ActivityStore, channelID string) *ActivityService {
	return &ActivityService{
		transport:  transport,
		users:      users,
		activities: activities,
		channelID:  channelID,
		Now:        time.Now,
	}
}

// Start broadcasts a new activity to the team channel with a gratitude
// button, mirrors it to the author's private chat with a finish button, and
// records the activity. messageDate is the unix timestamp of the declaring
// message; elapsed time on finish is measured from it.
//
// A failed record write is logged, not fatal: the chat copies are already
// out and their callbacks fall back to reading state from the message text.
func (s *ActivityService) Start(ctx context.Context, user *domain.User, status string, messageDate int64) error {
	status = strings.TrimSpace(status)

	gratitudeData, err := callback.Encode(callback.Gratitude{CurrentScore: 0})
	if err != nil {
		return err
	}
	channelMsgID, err := s.transport.SendMessage(ctx, s.channelID,
		activity.ChannelText(user.UserName, status), gratitudeKeyboard(gratitudeData))
	if err != nil {
		return fmt.Errorf("broadcast activity: %w", err)
	}

	finishData, err := callback.Encode(callback.Finish{
		MessageDate:      messageDate,
		ChannelMessageID: channelMsgID,
	})
	if err != nil {
		return err
	}
	privateMsgID, err := s.transport.SendMessage(ctx, user.ChatID,
		activity.PrivateText(status), finishKeyboard(finishData))
	if err != nil {
		return fmt.Errorf("send private copy: %w", err)
	}

	rec := &domain.Activity{
		ID:               uuid.New(),
		UserID:           user.ID,
		UserName:         user.UserName,
		Status:           status,
		Phase:            domain.PhaseInProgress,
		ChannelMessageID: channelMsgID,
		PrivateChatID:    user.ChatID,
		PrivateMessageID: privateMsgID,
		StartedAt:        messageDate,
	}
	if err := s.activities.Create(ctx, rec); err != nil {
		slog.Error("create activity record", "error", err, "user_id", user.ID)
	}
	if err := s.users.UpdateResponseTime(ctx, user.ID, s.Now().Unix()); err != nil {
		slog.Error("update response time", "error", err, "user_id", user.ID)
	}
	return nil
}

// GratitudeClick carries the fields of a gratitude callback the service
// needs from the transport event.
type GratitudeClick struct {
	CallbackID   string
	Data         string
	MessageID    int
	MessageText  string
	Entities     []models.MessageEntity
	FromUserName string
}

// Gratitude records a "Thank you!" click on a channel message. The giver
// list deduplicates by handle while the score counts every click, so
// repeated clicks by one user raise the score without growing the list.
func (s *ActivityService) Gratitude(ctx context.Context, click GratitudeClick) error {
	in, err := callback.Decode(click.Data)
	if err != nil {
		return err
	}
	g, ok := in.(callback.Gratitude)
	if !ok {
		return fmt.Errorf("gratitude handler got %T: %w", in, domain.ErrMalformedCallback)
	}

	giver := "@" + click.FromUserName

	rec, err := s.activities.GetByChannelMessageID(ctx, click.MessageID)
	switch {
	case err == nil:
		if rec.Phase == domain.PhaseFinished {
			return fmt.Errorf("channel message %d: %w", click.MessageID, domain.ErrActivityFinished)
		}
		rec.AddGiver(giver)
		rec.Score++
		if err := s.activities.Update(ctx, rec); err != nil {
			return fmt.Errorf("update activity: %w", err)
		}
		data, err := callback.Encode(callback.Gratitude{CurrentScore: rec.Score})
		if err != nil {
			return err
		}
		if err := s.transport.EditMessageText(ctx, s.channelID, click.MessageID,
			activity.Render(rec), gratitudeKeyboard(data)); err != nil {
			return fmt.Errorf("edit channel message: %w", err)
		}

	case errors.Is(err, domain.ErrActivityNotFound):
		// Message predates the record store: merge the giver into the text
		// itself and thread the score through the button payload.
		merged := activity.Merge(click.MessageText, click.Entities, giver)
		if err := s.transport.EditMessageText(ctx, s.channelID, click.MessageID, merged, nil); err != nil {
			return fmt.Errorf("edit channel message: %w", err)
		}
		data, err := callback.Encode(callback.Gratitude{CurrentScore: g.CurrentScore + 1})
		if err != nil {
			return err
		}
		if err := s.transport.EditMessageReplyMarkup(ctx, s.channelID, click.MessageID,
			gratitudeKeyboard(data)); err != nil {
			return fmt.Errorf("edit channel markup: %w", err)
		}

	default:
		return fmt.Errorf("load activity: %w", err)
	}

	return s.transport.AnswerCallback(ctx, click.CallbackID, "")
}

// FinishClick carries the fields of a finish callback the service needs.
// The click arrives on the private copy of the activity message.
type FinishClick struct {
	CallbackID   string
	Data         string
	ChatID       int64
	MessageID    int
	MessageText  string
	FromUserName string
}

// Finish closes an activity: both the private and channel copies are
// rewritten to "@handle status (spent elapsed)" and the record is marked
// finished. A second click on an already finished activity fails with
// domain.ErrActivityFinished and changes nothing.
func (s *ActivityService) Finish(ctx context.Context, click FinishClick) error {
	in, err := callback.Decode(click.Data)
	if err != nil {
		return err
	}
	f, ok := in.(callback.Finish)
	if !ok {
		return fmt.Errorf("finish handler got %T: %w", in, domain.ErrMalformedCallback)
	}

	now := s.Now()

	rec, err := s.activities.GetByPrivateMessageID(ctx, click.MessageID)
	switch {
	case err == nil:
		if rec.Phase == domain.PhaseFinished {
			return fmt.Errorf("private message %d: %w", click.MessageID, domain.ErrActivityFinished)
		}
		spent := now.Sub(time.Unix(rec.StartedAt, 0))
		final := activity.FinishedText(click.FromUserName, rec.Status, spent)
		if err := s.answerFinish(ctx, click.CallbackID, click.FromUserName, spent); err != nil {
			slog.Warn("answer finish callback", "error", err)
		}
		if err := s.transport.EditMessageText(ctx, click.ChatID, click.MessageID, final, nil); err != nil {
			return fmt.Errorf("edit private message: %w", err)
		}
		if err := s.transport.EditMessageText(ctx, s.channelID, rec.ChannelMessageID, final, nil); err != nil {
			return fmt.Errorf("edit channel message: %w", err)
		}
		rec.Phase = domain.PhaseFinished
		if err := s.activities.Update(ctx, rec); err != nil {
			return fmt.Errorf("update activity: %w", err)
		}

	case errors.Is(err, domain.ErrActivityNotFound):
		status, ok := activity.StripStatus(click.MessageText)
		if !ok {
			// Already rewritten to its final form, nothing left to finish.
			return fmt.Errorf("private message %d has no in-progress marker: %w",
				click.MessageID, domain.ErrMalformedCallback)
		}
		spent := now.Sub(time.Unix(f.MessageDate, 0))
		final := activity.FinishedText(click.FromUserName, status, spent)
		if err := s.answerFinish(ctx, click.CallbackID, click.FromUserName, spent); err != nil {
			slog.Warn("answer finish callback", "error", err)
		}
		if err := s.transport.EditMessageText(ctx, click.ChatID, click.MessageID, final, nil); err != nil {
			return fmt.Errorf("edit private message: %w", err)
		}
		if err := s.transport.EditMessageText(ctx, s.channelID, f.ChannelMessageID, final, nil); err != nil {
			return fmt.Errorf("edit channel message: %w", err)
		}

	default:
		return fmt.Errorf("load activity: %w", err)
	}

	return nil
}

func (s *ActivityService) answerFinish(ctx context.Context, callbackID, userName string, spent time.Duration) error {
	toast := fmt.Sprintf("Well done, %s! Your activity took %s", userName, activity.HumanDuration(spent))
	return s.transport.AnswerCallback(ctx, callbackID, toast)
}

func gratitudeKeyboard(data string) *models.InlineKeyboardMarkup {
	return telegram.InlineKeyboard(telegram.ButtonRow(telegram.InlineButton(gratitudeLabel, data)))
}

func finishKeyboard(data string) *models.InlineKeyboardMarkup {
	return telegram.InlineKeyboard(telegram.ButtonRow(telegram.InlineButton(finishLabel, data)))
}
