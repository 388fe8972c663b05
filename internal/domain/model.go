package domain

import (
	"time"

	"github.com/google/uuid"
)

// Phase is the lifecycle state of an activity.
type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseFinished   Phase = "finished"
)

// User is a per-user record the reminder loop works from. ResponseTime and
// ReminderTime are unix seconds and only ever move forward.
type User struct {
	ID           int64
	ChatID       int64
	UserName     string
	ResponseTime int64
	ReminderTime int64
}

// Activity is the authoritative record behind one declared work item. The
// rendered chat messages (one in the team channel, one in the author's
// private chat) are projections of this record.
type Activity struct {
	ID               uuid.UUID
	UserID           int64
	UserName         string
	Status           string
	Phase            Phase
	Score            int
	Givers           []string
	ChannelMessageID int
	PrivateChatID    int64
	PrivateMessageID int
	StartedAt        int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AddGiver appends handle to the giver list unless it is already there.
// The list keeps first-seen order. Reports whether the list grew.
func (a *Activity) AddGiver(handle string) bool {
	for _, g := range a.Givers {
		if g == handle {
			return false
		}
	}
	a.Givers = append(a.Givers, handle)
	return true
}
