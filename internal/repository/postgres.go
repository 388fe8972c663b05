package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teamtempo/tempobot/internal/domain"
	"github.com/teamtempo/tempobot/internal/service"
)

// Store implements the service store interfaces on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

var (
	_ service.UserStore     = (*Store)(nil)
	_ service.ActivityStore = (*Store)(nil)
)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) AddUser(ctx context.Context, u *domain.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, chat_id, user_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET chat_id = EXCLUDED.chat_id, user_name = EXCLUDED.user_name`,
		u.ID, u.ChatID, u.UserName)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", u.ID, err)
	}
	return nil
}

func (s *Store) GetUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, chat_id, user_name, response_time, reminder_time
		FROM users
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.ChatID, &u.UserName, &u.ResponseTime, &u.ReminderTime); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateResponseTime(ctx context.Context, id int64, t int64) error {
	return s.updateUserTime(ctx, "response_time", id, t)
}

func (s *Store) UpdateReminderTime(ctx context.Context, id int64, t int64) error {
	return s.updateUserTime(ctx, "reminder_time", id, t)
}

func (s *Store) updateUserTime(ctx context.Context, column string, id int64, t int64) error {
	// GREATEST keeps the timestamps monotonic even under event reordering.
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE users SET %s = GREATEST(%s, $2) WHERE id = $1`, column, column),
		id, t)
	if err != nil {
		return fmt.Errorf("update %s for user %d: %w", column, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrUserNotFound)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, a *domain.Activity) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO activities (
			id, user_id, user_name, status, phase, score, givers,
			channel_message_id, private_chat_id, private_message_id, started_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.UserID, a.UserName, a.Status, a.Phase, a.Score, a.Givers,
		a.ChannelMessageID, a.PrivateChatID, a.PrivateMessageID, a.StartedAt)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (s *Store) GetByChannelMessageID(ctx context.Context, messageID int) (*domain.Activity, error) {
	return s.getActivity(ctx, "channel_message_id", messageID)
}

func (s *Store) GetByPrivateMessageID(ctx context.Context, messageID int) (*domain.Activity, error) {
	return s.getActivity(ctx, "private_message_id", messageID)
}

func (s *Store) getActivity(ctx context.Context, column string, messageID int) (*domain.Activity, error) {
	a := &domain.Activity{}
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT id, user_id, user_name, status, phase, score, givers,
		       channel_message_id, private_chat_id, private_message_id,
		       started_at, created_at, updated_at
		FROM activities
		WHERE %s = $1
		ORDER BY created_at DESC
		LIMIT 1`, column),
		messageID,
	).Scan(
		&a.ID, &a.UserID, &a.UserName, &a.Status, &a.Phase, &a.Score, &a.Givers,
		&a.ChannelMessageID, &a.PrivateChatID, &a.PrivateMessageID,
		&a.StartedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s %d: %w", column, messageID, domain.ErrActivityNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get activity by %s: %w", column, err)
	}
	return a, nil
}

func (s *Store) Update(ctx context.Context, a *domain.Activity) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE activities
		SET phase = $2, score = $3, givers = $4, updated_at = now()
		WHERE id = $1`,
		a.ID, a.Phase, a.Score, a.Givers)
	if err != nil {
		return fmt.Errorf("update activity %s: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("activity %s: %w", a.ID, domain.ErrActivityNotFound)
	}
	return nil
}
