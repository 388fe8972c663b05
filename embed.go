// Package tempobot holds the static assets compiled into the bot binary.
package tempobot

import "embed"

// MigrationsFS contains the database schema migrations.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// ContentFS contains the default quote and question lists used by the
// reminder loop. A CONTENT_DIR config value overrides them at runtime.
//
//go:embed content/*.yaml
var ContentFS embed.FS
