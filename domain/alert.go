package domain

import (
	"strings"
	"time"
)

// AlertSeverity ranks anomaly events. The order matters for the minimum
// severity filter: critical > warning > info.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
)

// Rank maps severity to a comparable weight; unknown severities rank lowest.
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is at least as severe as min.
func (s AlertSeverity) AtLeast(min AlertSeverity) bool {
	return s.Rank() >= min.Rank()
}

// Marker is the uppercase tag used in notification subjects.
func (s AlertSeverity) Marker() string {
	return strings.ToUpper(string(s))
}

// AnomalyEvent is a pre-scored anomaly produced by the external detector.
// The router never mutates it; it only decides whether to notify.
type AnomalyEvent struct {
	ID            string        `json:"id"`
	CampaignID    string        `json:"campaign_id"`
	CampaignName  string        `json:"campaign_name"`
	Metric        Metric        `json:"metric"`
	Severity      AlertSeverity `json:"severity"`
	CurrentValue  float64       `json:"current_value"`
	PreviousValue float64       `json:"previous_value"`
	ChangePercent float64       `json:"change_percent"`
	DetectedAt    time.Time     `json:"detected_at"`
	MarketContext []string      `json:"market_context,omitempty"`
}

// SkipReason explains why the router did not deliver an event.
type SkipReason string

const (
	SkipBelowSeverity  SkipReason = "below_minimum_severity"
	SkipAlertsDisabled SkipReason = "alerts_disabled"
	SkipDuplicate      SkipReason = "duplicate_within_window"
	SkipQuotaReached   SkipReason = "daily_quota_reached"
	SkipDeliveryFailed SkipReason = "delivery_failed"
	SkipStateError     SkipReason = "state_store_error"
)

// SkippedAlert records one undelivered event and why.
type SkippedAlert struct {
	EventID    string     `json:"event_id"`
	CampaignID string     `json:"campaign_id"`
	Metric     Metric     `json:"metric"`
	Reason     SkipReason `json:"reason"`
}

// DeliveryError records a failed send with the notifier's error message so the
// caller can decide whether to retry the run later.
type DeliveryError struct {
	EventID string `json:"event_id"`
	Message string `json:"message"`
}

// RouteReport is the outcome of one routing batch. Events appear in input
// order within each list; a single event may appear in both Skipped and
// Errors when delivery failed.
type RouteReport struct {
	Sent    []string        `json:"sent"`
	Skipped []SkippedAlert  `json:"skipped"`
	Errors  []DeliveryError `json:"errors"`
}
