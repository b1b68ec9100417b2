package feed

import (
	"testing"
	"time"

	"adpulse/domain"
)

func TestParseEvents_BareArray(t *testing.T) {
	payload := []byte(`[
		{
			"id": "e1",
			"campaign_id": "c1",
			"campaign_name": "Summer Sale",
			"metric": "roas",
			"severity": "critical",
			"current_value": 1.2,
			"previous_value": 2.4,
			"change_percent": -50,
			"detected_at": "2025-06-15T09:30:00Z",
			"market_context": ["competitor promotion running"]
		}
	]`)

	events, err := ParseEvents(payload)
	if err != nil {
		t.Fatalf("ParseEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	e := events[0]
	if e.ID != "e1" || e.CampaignID != "c1" || e.CampaignName != "Summer Sale" {
		t.Errorf("identity fields wrong: %+v", e)
	}
	if e.Metric != domain.MetricROAS || e.Severity != domain.SeverityCritical {
		t.Errorf("metric/severity wrong: %+v", e)
	}
	if e.CurrentValue != 1.2 || e.PreviousValue != 2.4 || e.ChangePercent != -50 {
		t.Errorf("values wrong: %+v", e)
	}
	want := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	if !e.DetectedAt.Equal(want) {
		t.Errorf("detected at %v, want %v", e.DetectedAt, want)
	}
	if len(e.MarketContext) != 1 || e.MarketContext[0] != "competitor promotion running" {
		t.Errorf("market context wrong: %v", e.MarketContext)
	}
}

func TestParseEvents_EnvelopesAndCasing(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"anomalies envelope", `{"anomalies": [{"campaign_id": "c1", "metric": "ctr", "severity": "warning"}]}`},
		{"events envelope", `{"events": [{"campaign_id": "c1", "metric": "ctr", "severity": "warning"}]}`},
		{"camel case fields", `[{"campaignId": "c1", "metric": "ctr", "level": "warning", "currentValue": 0.8}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events, err := ParseEvents([]byte(tc.payload))
			if err != nil {
				t.Fatalf("ParseEvents: %v", err)
			}
			if len(events) != 1 || events[0].CampaignID != "c1" || events[0].Metric != domain.MetricCTR {
				t.Errorf("events = %+v", events)
			}
		})
	}
}

func TestParseEvents_AssignsMissingID(t *testing.T) {
	events, err := ParseEvents([]byte(`[{"campaign_id": "c1", "metric": "cvr", "severity": "info"}]`))
	if err != nil {
		t.Fatalf("ParseEvents: %v", err)
	}
	if events[0].ID == "" {
		t.Error("missing id should be assigned, not left empty")
	}
}

func TestParseEvents_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"not json", `{{{`},
		{"no anomalies array", `{"status": "ok"}`},
		{"missing campaign id", `[{"metric": "roas", "severity": "critical"}]`},
		{"unknown metric", `[{"campaign_id": "c1", "metric": "bounce_rate", "severity": "critical"}]`},
		{"unknown severity", `[{"campaign_id": "c1", "metric": "roas", "severity": "catastrophic"}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseEvents([]byte(tc.payload)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestParseEvents_EmptyArray(t *testing.T) {
	events, err := ParseEvents([]byte(`[]`))
	if err != nil {
		t.Fatalf("ParseEvents: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}
