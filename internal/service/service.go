// Package service holds the activity lifecycle orchestrator and the
// reminder scheduler. Both talk to the outside world only through the
// Transport and store interfaces handed to their constructors.
package service

import (
	"context"

	"github.com/teamtempo/tempobot/internal/domain"
)

// UserStore persists the per-user attributes the reminder loop works from.
type UserStore interface {
	// AddUser upserts id, chat id and display name, leaving the response
	// and reminder timestamps of an existing record untouched.
	AddUser(ctx context.Context, u *domain.User) error
	GetUsers(ctx context.Context) ([]*domain.User, error)
	UpdateResponseTime(ctx context.Context, id int64, t int64) error
	UpdateReminderTime(ctx context.Context, id int64, t int64) error
}

// ActivityStore persists the authoritative activity records.
type ActivityStore interface {
	Create(ctx context.Context, a *domain.Activity) error
	// Lookups fail with domain.ErrActivityNotFound for unknown messages.
	GetByChannelMessageID(ctx context.Context, messageID int) (*domain.Activity, error)
	GetByPrivateMessageID(ctx context.Context, messageID int) (*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
}
