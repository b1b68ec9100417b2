package ports

import (
	"context"
	"time"

	"adpulse/domain"
)

// AlertStateStore holds the rolling delivery history behind deduplication and
// per-campaign daily rate limiting. The in-memory implementation is correct
// for single-instance deployments; horizontally scaled deployments should
// plug in a shared store (see the Postgres adapter) or accept
// under-deduplication across instances.
type AlertStateStore interface {
	// LastAlertedAt returns when an alert for (campaignID, metric) was last
	// sent, if ever.
	LastAlertedAt(ctx context.Context, campaignID string, metric domain.Metric) (time.Time, bool, error)

	// SentCount returns how many alerts were already sent for the campaign on
	// the given calendar day.
	SentCount(ctx context.Context, campaignID string, day time.Time) (int, error)

	// RecordSent appends one successful delivery to the history.
	RecordSent(ctx context.Context, campaignID string, metric domain.Metric, at time.Time) error

	// Clear wipes all history. Exposed for test harnesses and operator resets.
	Clear(ctx context.Context) error
}
