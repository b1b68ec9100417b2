package app

import (
	"context"
	"log"
	"sync"
	"time"

	"adpulse/domain"
	"adpulse/ports"
)

// AlertConfig tunes the routing state machine. Zero values for MinimumSeverity,
// MaxAlertsPerCampaignPerDay and DedupWindow fall back to the defaults;
// EnableEmailAlerts is always explicit because false is a meaningful setting
// (the global kill-switch).
type AlertConfig struct {
	EnableEmailAlerts          bool
	MinimumSeverity            domain.AlertSeverity
	MaxAlertsPerCampaignPerDay int
	DedupWindow                time.Duration
}

// DefaultAlertConfig sends critical and warning events, at most 3 alerts per
// campaign per day, deduplicated over 24 hours.
func DefaultAlertConfig() AlertConfig {
	return AlertConfig{
		EnableEmailAlerts:          true,
		MinimumSeverity:            domain.SeverityWarning,
		MaxAlertsPerCampaignPerDay: 3,
		DedupWindow:                24 * time.Hour,
	}
}

func (c AlertConfig) withDefaults() AlertConfig {
	if c.MinimumSeverity == "" {
		c.MinimumSeverity = domain.SeverityWarning
	}
	if c.MaxAlertsPerCampaignPerDay <= 0 {
		c.MaxAlertsPerCampaignPerDay = 3
	}
	if c.DedupWindow <= 0 {
		c.DedupWindow = 24 * time.Hour
	}
	return c
}

// AlertRouter decides, per anomaly event, whether to notify a user. It owns
// the only mutable state in the engine: the dedup/rate-limit history behind
// the injected store. The mutex spans the whole check-send-record sequence so
// two concurrent Route calls cannot both pass deduplication for the same
// (campaign, metric) key.
type AlertRouter struct {
	store    ports.AlertStateStore
	notifier ports.Notifier

	mu  sync.Mutex
	now func() time.Time
}

// NewAlertRouter wires a router onto a state store and a notifier.
func NewAlertRouter(store ports.AlertStateStore, notifier ports.Notifier) *AlertRouter {
	return &AlertRouter{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// Route processes the batch in input order. One event's failure never aborts
// the rest; every event lands in exactly one of sent or skipped, and failed
// deliveries additionally carry an entry in errors. Retrying is the caller's
// responsibility on a later run.
func (r *AlertRouter) Route(ctx context.Context, userID, email string, anomalies []domain.AnomalyEvent, cfg AlertConfig) domain.RouteReport {
	cfg = cfg.withDefaults()

	report := domain.RouteReport{
		Sent:    []string{},
		Skipped: []domain.SkippedAlert{},
		Errors:  []domain.DeliveryError{},
	}

	for _, event := range anomalies {
		if !event.Severity.AtLeast(cfg.MinimumSeverity) {
			report.Skipped = append(report.Skipped, skipped(event, domain.SkipBelowSeverity))
			continue
		}
		if !cfg.EnableEmailAlerts {
			report.Skipped = append(report.Skipped, skipped(event, domain.SkipAlertsDisabled))
			continue
		}

		r.routeOne(ctx, email, event, cfg, &report)
	}

	log.Printf("[router] user=%s processed=%d sent=%d skipped=%d errors=%d",
		userID, len(anomalies), len(report.Sent), len(report.Skipped), len(report.Errors))
	return report
}

// routeOne runs dedup, rate limit and delivery for one event under the lock.
func (r *AlertRouter) routeOne(ctx context.Context, email string, event domain.AnomalyEvent, cfg AlertConfig, report *domain.RouteReport) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	last, ok, err := r.store.LastAlertedAt(ctx, event.CampaignID, event.Metric)
	if err != nil {
		report.Errors = append(report.Errors, domain.DeliveryError{EventID: event.ID, Message: err.Error()})
		report.Skipped = append(report.Skipped, skipped(event, domain.SkipStateError))
		return
	}
	if ok && now.Sub(last) < cfg.DedupWindow {
		report.Skipped = append(report.Skipped, skipped(event, domain.SkipDuplicate))
		return
	}

	count, err := r.store.SentCount(ctx, event.CampaignID, now)
	if err != nil {
		report.Errors = append(report.Errors, domain.DeliveryError{EventID: event.ID, Message: err.Error()})
		report.Skipped = append(report.Skipped, skipped(event, domain.SkipStateError))
		return
	}
	if count >= cfg.MaxAlertsPerCampaignPerDay {
		report.Skipped = append(report.Skipped, skipped(event, domain.SkipQuotaReached))
		return
	}

	payload := FormatAlert(email, event)
	if err := r.notifier.Send(ctx, payload); err != nil {
		log.Printf("[router] delivery failed event=%s campaign=%s: %v", event.ID, event.CampaignID, err)
		report.Errors = append(report.Errors, domain.DeliveryError{EventID: event.ID, Message: err.Error()})
		report.Skipped = append(report.Skipped, skipped(event, domain.SkipDeliveryFailed))
		return
	}

	if err := r.store.RecordSent(ctx, event.CampaignID, event.Metric, now); err != nil {
		// The alert went out; a failed record only weakens future dedup.
		log.Printf("[router] failed to record sent alert event=%s: %v", event.ID, err)
	}
	report.Sent = append(report.Sent, event.ID)
}

// ClearHistory wipes dedup and rate-limit state. For test harnesses and
// operator resets only.
func (r *AlertRouter) ClearHistory(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Clear(ctx)
}

func skipped(event domain.AnomalyEvent, reason domain.SkipReason) domain.SkippedAlert {
	return domain.SkippedAlert{
		EventID:    event.ID,
		CampaignID: event.CampaignID,
		Metric:     event.Metric,
		Reason:     reason,
	}
}
