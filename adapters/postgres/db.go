package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens and pings a PostgreSQL connection.
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables the engine reads and writes. The KPI table
// is normally populated by the upstream sync job; creating it here keeps
// fresh environments bootable.
func EnsureSchema(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS daily_campaign_metrics (
			campaign_id   TEXT        NOT NULL,
			campaign_name TEXT        NOT NULL DEFAULT '',
			day           DATE        NOT NULL,
			impressions   DOUBLE PRECISION NOT NULL DEFAULT 0,
			clicks        DOUBLE PRECISION NOT NULL DEFAULT 0,
			conversions   DOUBLE PRECISION NOT NULL DEFAULT 0,
			spend         DOUBLE PRECISION NOT NULL DEFAULT 0,
			revenue       DOUBLE PRECISION NOT NULL DEFAULT 0,
			PRIMARY KEY (campaign_id, day)
		)`,
		`CREATE TABLE IF NOT EXISTS alert_history (
			id          BIGSERIAL PRIMARY KEY,
			campaign_id TEXT        NOT NULL,
			metric      TEXT        NOT NULL,
			sent_at     TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_history_key
			ON alert_history (campaign_id, metric, sent_at DESC)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
