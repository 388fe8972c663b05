package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// ChannelID is the shared team channel activities are broadcast to.
	// Either a numeric chat id or an @channelname reference.
	ChannelID string `env:"CHANNEL_ID,required"`

	// Reminder loop
	ReminderInterval time.Duration `env:"REMINDER_INTERVAL" envDefault:"1h"`

	// ContentDir overrides the embedded quote/question lists when set.
	ContentDir string `env:"CONTENT_DIR"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
