package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/teamtempo/tempobot/internal/domain"
	"github.com/teamtempo/tempobot/internal/service"
)

// MemoryStore keeps users and activities in process memory. It backs the
// service test suites with the same contract as the Postgres store.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[int64]*domain.User
	activities map[uuid.UUID]*domain.Activity
}

var (
	_ service.UserStore     = (*MemoryStore)(nil)
	_ service.ActivityStore = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]*domain.User),
		activities: make(map[uuid.UUID]*domain.Activity),
	}
}

func (m *MemoryStore) AddUser(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.users[u.ID]; ok {
		existing.ChatID = u.ChatID
		existing.UserName = u.UserName
		return nil
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryStore) GetUsers(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		users = append(users, &cp)
	}
	return users, nil
}

func (m *MemoryStore) UpdateResponseTime(ctx context.Context, id int64, t int64) error {
	return m.updateUserTime(id, t, func(u *domain.User, t int64) {
		if t > u.ResponseTime {
			u.ResponseTime = t
		}
	})
}

func (m *MemoryStore) UpdateReminderTime(ctx context.Context, id int64, t int64) error {
	return m.updateUserTime(id, t, func(u *domain.User, t int64) {
		if t > u.ReminderTime {
			u.ReminderTime = t
		}
	})
}

func (m *MemoryStore) updateUserTime(id int64, t int64, apply func(*domain.User, int64)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrUserNotFound)
	}
	apply(u, t)
	return nil
}

func (m *MemoryStore) Create(ctx context.Context, a *domain.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *a
	cp.Givers = append([]string(nil), a.Givers...)
	m.activities[a.ID] = &cp
	return nil
}

func (m *MemoryStore) GetByChannelMessageID(ctx context.Context, messageID int) (*domain.Activity, error) {
	return m.find(func(a *domain.Activity) bool { return a.ChannelMessageID == messageID })
}

func (m *MemoryStore) GetByPrivateMessageID(ctx context.Context, messageID int) (*domain.Activity, error) {
	return m.find(func(a *domain.Activity) bool { return a.PrivateMessageID == messageID })
}

func (m *MemoryStore) find(match func(*domain.Activity) bool) (*domain.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.activities {
		if match(a) {
			cp := *a
			cp.Givers = append([]string(nil), a.Givers...)
			return &cp, nil
		}
	}
	return nil, domain.ErrActivityNotFound
}

func (m *MemoryStore) Update(ctx context.Context, a *domain.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.activities[a.ID]; !ok {
		return fmt.Errorf("activity %s: %w", a.ID, domain.ErrActivityNotFound)
	}
	cp := *a
	cp.Givers = append([]string(nil), a.Givers...)
	m.activities[a.ID] = &cp
	return nil
}
