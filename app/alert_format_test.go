package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"adpulse/domain"
)

func TestFormatAlert_Subject(t *testing.T) {
	payload := FormatAlert("user@example.com", domain.AnomalyEvent{
		ID:           "e1",
		CampaignID:   "c1",
		CampaignName: "Summer Sale",
		Metric:       domain.MetricROAS,
		Severity:     domain.SeverityCritical,
	})

	assert.Equal(t, "user@example.com", payload.To)
	assert.Contains(t, payload.Subject, domain.SeverityCritical.Marker())
	assert.Contains(t, payload.Subject, "Summer Sale")
	assert.Contains(t, payload.Subject, domain.MetricROAS.Label())
}

func TestFormatAlert_BodyUsesMetricUnits(t *testing.T) {
	detected := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		metric   domain.Metric
		current  float64
		previous float64
		wantCur  string
		wantPrev string
	}{
		{"spend is currency", domain.MetricSpend, 1250.5, 800, "$1250.50", "$800.00"},
		{"roas is a multiplier", domain.MetricROAS, 1.25, 2.5, "1.25x", "2.50x"},
		{"ctr is a percentage", domain.MetricCTR, 0.85, 1.7, "0.85%", "1.70%"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := FormatAlert("user@example.com", domain.AnomalyEvent{
				CampaignName:  "Summer Sale",
				Metric:        tc.metric,
				Severity:      domain.SeverityWarning,
				CurrentValue:  tc.current,
				PreviousValue: tc.previous,
				ChangePercent: -50,
				DetectedAt:    detected,
			})

			assert.Contains(t, payload.HTML, tc.wantCur)
			assert.Contains(t, payload.HTML, tc.wantPrev)
			assert.Contains(t, payload.HTML, "-50.0%")
			assert.Contains(t, payload.HTML, "2025-06-15")
		})
	}
}

func TestFormatAlert_MarketContext(t *testing.T) {
	withContext := FormatAlert("user@example.com", domain.AnomalyEvent{
		CampaignName:  "Summer Sale",
		Metric:        domain.MetricCVR,
		Severity:      domain.SeverityWarning,
		MarketContext: []string{"competitor launched a promotion", "seasonal dip expected"},
	})
	assert.Contains(t, withContext.HTML, "Market context")
	assert.Contains(t, withContext.HTML, "competitor launched a promotion")
	assert.Contains(t, withContext.HTML, "seasonal dip expected")

	without := FormatAlert("user@example.com", domain.AnomalyEvent{
		CampaignName: "Summer Sale",
		Metric:       domain.MetricCVR,
		Severity:     domain.SeverityWarning,
	})
	assert.NotContains(t, without.HTML, "Market context")
}

func TestFormatAlert_RendersHTML(t *testing.T) {
	payload := FormatAlert("user@example.com", domain.AnomalyEvent{
		CampaignName:  "Summer Sale",
		Metric:        domain.MetricROAS,
		Severity:      domain.SeverityCritical,
		ChangePercent: 12.3,
	})

	assert.Contains(t, payload.HTML, "<h2")
	assert.Contains(t, payload.HTML, "<strong>")
}
