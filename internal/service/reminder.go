package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/teamtempo/tempobot/internal/content"
	"github.com/teamtempo/tempobot/internal/telegram"
)

// ReminderDue reports whether a user is owed a nudge. All arguments are
// unix seconds.
//
// A user who responded after the last reminder is considered caught up and
// re-armed, so the next cycle may fire. Otherwise the quiet gap between the
// last response and the last reminder sets the bar: the system waits at
// least that long again before nudging, a self-scaling backoff. A brand-new
// record (both timestamps zero) is due immediately.
func ReminderDue(lastReminderTime, lastResponseTime, now int64) bool {
	noResponseWindow := lastReminderTime - lastResponseTime
	if noResponseWindow < 0 {
		return true
	}
	return now-lastReminderTime >= noResponseWindow
}

// ReminderService periodically nudges quiet users with a question and a
// quote in their private chat.
type ReminderService struct {
	transport telegram.Transport
	users     UserStore
	library   *content.Library
	interval  time.Duration

	// Now returns the current time; replaceable in tests.
	Now func() time.Time
}

func NewReminderService(transport telegram.Transport, users UserStore, library *content.Library, interval time.Duration) *ReminderService {
	return &ReminderService{
		transport: transport,
		users:     users,
		library:   library,
		interval:  interval,
		Now:       time.Now,
	}
}

// Run evaluates all users every interval until ctx is cancelled. Ticks do
// not overlap-guard: a tick slower than the interval simply delays the next
// one on the shared ticker.
func (s *ReminderService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick evaluates every known user once. A store failure skips the whole
// tick; per-user failures skip that user.
func (s *ReminderService) Tick(ctx context.Context) {
	users, err := s.users.GetUsers(ctx)
	if err != nil {
		slog.Error("list users for reminder tick", "error", err)
		return
	}

	now := s.Now().Unix()
	for _, u := range users {
		if !ReminderDue(u.ReminderTime, u.ResponseTime, now) {
			continue
		}
		// Mark before sending: a failed send costs one cycle, never a
		// double nudge.
		if err := s.users.UpdateReminderTime(ctx, u.ID, now); err != nil {
			slog.Error("update reminder time", "error", err, "user_id", u.ID)
			continue
		}
		if _, err := s.transport.SendMessage(ctx, u.ChatID, s.composeReminder(), nil); err != nil {
			slog.Error("send reminder", "error", err, "user_id", u.ID)
		}
	}
}

func (s *ReminderService) composeReminder() string {
	question := s.library.RandomQuestion()
	quote := s.library.RandomQuote()

	text := question.Text + "\n\n“" + quote.Text + "”"
	if quote.Author != "" {
		text += "\n— " + quote.Author
	}
	return text
}
