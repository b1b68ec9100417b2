// Package feed ingests anomaly payloads from external detectors. Detector
// versions disagree on envelope shape and field casing, so parsing goes
// through gjson lookups with fallbacks instead of a rigid struct.
package feed

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"adpulse/domain"
)

// ParseEvents extracts anomaly events from a detector payload. Accepted
// shapes: a bare JSON array, or an object with an "anomalies" or "events"
// array. Events missing an id get one assigned so routing reports can always
// reference them.
func ParseEvents(payload []byte) ([]domain.AnomalyEvent, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("invalid detector payload: not JSON")
	}

	root := gjson.ParseBytes(payload)
	list := root
	if !root.IsArray() {
		list = root.Get("anomalies")
		if !list.Exists() {
			list = root.Get("events")
		}
		if !list.Exists() || !list.IsArray() {
			return nil, fmt.Errorf("invalid detector payload: no anomalies array")
		}
	}

	var events []domain.AnomalyEvent
	var parseErr error
	list.ForEach(func(_, item gjson.Result) bool {
		event, err := parseEvent(item)
		if err != nil {
			parseErr = err
			return false
		}
		events = append(events, event)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return events, nil
}

func parseEvent(item gjson.Result) (domain.AnomalyEvent, error) {
	campaignID := pick(item, "campaign_id", "campaignId").String()
	if campaignID == "" {
		return domain.AnomalyEvent{}, fmt.Errorf("anomaly event missing campaign id: %s", item.Raw)
	}

	metric, err := domain.ParseMetric(pick(item, "metric", "metric_name").String())
	if err != nil {
		return domain.AnomalyEvent{}, err
	}

	severity := domain.AlertSeverity(pick(item, "severity", "level").String())
	if severity.Rank() == 0 {
		return domain.AnomalyEvent{}, fmt.Errorf("anomaly event has unknown severity %q", severity)
	}

	id := item.Get("id").String()
	if id == "" {
		id = uuid.New().String()
	}

	var detectedAt time.Time
	if raw := pick(item, "detected_at", "detectedAt", "timestamp").String(); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			detectedAt = t
		}
	}

	var context []string
	pick(item, "market_context", "marketContext").ForEach(func(_, note gjson.Result) bool {
		context = append(context, note.String())
		return true
	})

	return domain.AnomalyEvent{
		ID:            id,
		CampaignID:    campaignID,
		CampaignName:  pick(item, "campaign_name", "campaignName").String(),
		Metric:        metric,
		Severity:      severity,
		CurrentValue:  pick(item, "current_value", "currentValue").Float(),
		PreviousValue: pick(item, "previous_value", "previousValue").Float(),
		ChangePercent: pick(item, "change_percent", "changePercent").Float(),
		DetectedAt:    detectedAt,
		MarketContext: context,
	}, nil
}

// pick returns the first existing field among the given paths.
func pick(item gjson.Result, paths ...string) gjson.Result {
	for _, path := range paths {
		if v := item.Get(path); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}
