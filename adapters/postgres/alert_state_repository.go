package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"adpulse/domain"
)

// AlertStateRepository implements ports.AlertStateStore on the alert_history
// table. Unlike the in-memory store it survives restarts and is shared across
// instances, which closes the under-deduplication gap of horizontally scaled
// deployments.
type AlertStateRepository struct {
	db *sqlx.DB
}

// NewAlertStateRepository creates a repository over an open connection.
func NewAlertStateRepository(db *sqlx.DB) *AlertStateRepository {
	return &AlertStateRepository{db: db}
}

// LastAlertedAt returns the most recent delivery for (campaign, metric).
func (r *AlertStateRepository) LastAlertedAt(ctx context.Context, campaignID string, metric domain.Metric) (time.Time, bool, error) {
	query := `
		SELECT sent_at FROM alert_history
		WHERE campaign_id = $1 AND metric = $2
		ORDER BY sent_at DESC LIMIT 1`

	var sentAt time.Time
	err := r.db.GetContext(ctx, &sentAt, query, campaignID, string(metric))
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("load last alert: %w", err)
	}
	return sentAt, true, nil
}

// SentCount counts deliveries for the campaign on the given calendar day.
func (r *AlertStateRepository) SentCount(ctx context.Context, campaignID string, day time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM alert_history
		WHERE campaign_id = $1 AND sent_at >= $2 AND sent_at < $3`

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	var count int
	if err := r.db.GetContext(ctx, &count, query, campaignID, start, start.AddDate(0, 0, 1)); err != nil {
		return 0, fmt.Errorf("count alerts: %w", err)
	}
	return count, nil
}

// RecordSent appends one delivery.
func (r *AlertStateRepository) RecordSent(ctx context.Context, campaignID string, metric domain.Metric, at time.Time) error {
	query := `INSERT INTO alert_history (campaign_id, metric, sent_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, campaignID, string(metric), at); err != nil {
		return fmt.Errorf("record alert: %w", err)
	}
	return nil
}

// Clear wipes all history.
func (r *AlertStateRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM alert_history`); err != nil {
		return fmt.Errorf("clear alert history: %w", err)
	}
	return nil
}
