package database

import (
	"context"
	"fmt"

	"github.com/bianca-8/reload-rage/internal/config"
	"github.com/bianca-8/reload-rage/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

func Connect(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// schema is applied at startup. Statements are idempotent so restarts are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hashed TEXT NOT NULL,
		view_count BIGINT NOT NULL DEFAULT 0 CHECK (view_count >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS global_stats (
		id INT PRIMARY KEY CHECK (id = 1),
		anonymous_views BIGINT NOT NULL DEFAULT 0 CHECK (anonymous_views >= 0)
	)`,
	fmt.Sprintf(`INSERT INTO global_stats (id, anonymous_views) VALUES (%d, 0)
		ON CONFLICT (id) DO NOTHING`, model.GlobalStatsID),
}

// Bootstrap creates the two tables and guarantees the singleton global_stats
// row exists before the server starts taking requests.
func Bootstrap(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to bootstrap schema: %w", err)
		}
	}
	return nil
}
