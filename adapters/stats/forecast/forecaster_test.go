package forecast

import (
	"math"
	"testing"
	"time"

	"adpulse/domain"
)

var day0 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func series(t *testing.T, metric domain.Metric, values ...float64) domain.MetricSeries {
	t.Helper()
	points := make([]domain.SeriesPoint, len(values))
	for i, v := range values {
		points[i] = domain.SeriesPoint{Date: day0.AddDate(0, 0, i), Value: v}
	}
	s, err := domain.NewMetricSeries("camp-1", metric, points)
	if err != nil {
		t.Fatalf("NewMetricSeries: %v", err)
	}
	return s
}

func TestForecast_EmptySeries(t *testing.T) {
	f := NewForecaster()

	empty, err := domain.NewMetricSeries("camp-1", domain.MetricROAS, nil)
	if err != nil {
		t.Fatalf("NewMetricSeries: %v", err)
	}

	result, err := f.Forecast(empty, 7)
	if err != nil {
		t.Fatalf("empty series must not error: %v", err)
	}
	if len(result.Predictions) != 0 {
		t.Errorf("predictions should be empty, got %d", len(result.Predictions))
	}
	if result.Confidence != domain.ConfidenceLow {
		t.Errorf("confidence = %s, want low", result.Confidence)
	}
	if result.Trend != domain.TrendStable {
		t.Errorf("trend = %s, want stable", result.Trend)
	}
	if result.Methodology != domain.MethodInsufficientData {
		t.Errorf("methodology = %s, want insufficient_data", result.Methodology)
	}
}

func TestForecast_RejectsUnsupportedHorizon(t *testing.T) {
	f := NewForecaster()
	s := series(t, domain.MetricSpend, 100, 100, 100, 100, 100, 100, 100)

	for _, horizon := range []int{0, 1, 10, 60, -7} {
		if _, err := f.Forecast(s, horizon); err == nil {
			t.Errorf("horizon %d should be rejected", horizon)
		}
	}
}

func TestForecast_MethodSelection(t *testing.T) {
	f := NewForecaster()
	week := series(t, domain.MetricSpend, 100, 110, 105, 95, 100, 102, 98)
	short := series(t, domain.MetricSpend, 100, 110, 105)

	cases := []struct {
		name    string
		input   domain.MetricSeries
		horizon int
		want    domain.Methodology
	}{
		{"7-day horizon with a week of data", week, 7, domain.MethodMovingAverage},
		{"14-day horizon with a week of data", week, 14, domain.MethodExponentialSmoothing},
		{"30-day horizon with a week of data", week, 30, domain.MethodExponentialSmoothing},
		{"thin history falls back to regression", short, 7, domain.MethodLinearRegression},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := f.Forecast(tc.input, tc.horizon)
			if err != nil {
				t.Fatalf("Forecast: %v", err)
			}
			if result.Methodology != tc.want {
				t.Errorf("methodology = %s, want %s", result.Methodology, tc.want)
			}
			if len(result.Predictions) != tc.horizon {
				t.Errorf("got %d predictions, want %d", len(result.Predictions), tc.horizon)
			}
		})
	}
}

// TestForecast_FlatSpendIsStable covers the constant-series scenario: a week
// of identical spend forecasts flat with a stable trend and collapsed bands.
func TestForecast_FlatSpendIsStable(t *testing.T) {
	f := NewForecaster()
	s := series(t, domain.MetricSpend, 100, 100, 100, 100, 100, 100, 100)

	result, err := f.Forecast(s, 7)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	if result.Trend != domain.TrendStable {
		t.Errorf("trend = %s, want stable", result.Trend)
	}
	if result.Confidence != domain.ConfidenceHigh {
		t.Errorf("confidence = %s, want high for a clean series on a short horizon", result.Confidence)
	}
	for _, p := range result.Predictions {
		if p.Predicted != 100 || p.LowerBound != 100 || p.UpperBound != 100 {
			t.Fatalf("flat series should forecast flat, got %+v", p)
		}
	}
}

// TestForecast_BandInvariants checks lower <= predicted <= upper, all
// non-negative, and widths non-decreasing with the step, across methods.
func TestForecast_BandInvariants(t *testing.T) {
	f := NewForecaster()

	inputs := []domain.MetricSeries{
		series(t, domain.MetricRevenue, 320, 305, 340, 290, 360, 310, 335, 355, 300, 345),
		series(t, domain.MetricCTR, 1.2, 1.5, 0.9, 2.0, 1.1, 1.7, 1.4),
		series(t, domain.MetricSpend, 100, 80, 60, 40, 20), // regression heading below zero
	}

	for _, s := range inputs {
		for _, horizon := range []int{7, 14, 30} {
			result, err := f.Forecast(s, horizon)
			if err != nil {
				t.Fatalf("Forecast: %v", err)
			}

			prevWidth := -1.0
			for i, p := range result.Predictions {
				if p.LowerBound < 0 || p.Predicted < 0 || p.UpperBound < 0 {
					t.Fatalf("step %d: negative output %+v", i+1, p)
				}
				if p.LowerBound > p.Predicted || p.Predicted > p.UpperBound {
					t.Fatalf("step %d: bounds out of order %+v", i+1, p)
				}
				width := p.UpperBound - p.LowerBound
				if width < prevWidth-1e-9 {
					t.Fatalf("step %d: band width %f narrower than previous %f", i+1, width, prevWidth)
				}
				prevWidth = width
			}
		}
	}
}

func TestForecast_DatesAreConsecutiveCalendarDays(t *testing.T) {
	f := NewForecaster()
	s := series(t, domain.MetricSpend, 100, 110, 105, 95, 100, 102, 98)

	result, err := f.Forecast(s, 7)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	last, _ := s.LastDate()
	for i, p := range result.Predictions {
		want := last.AddDate(0, 0, i+1)
		if !p.Date.Equal(want) {
			t.Errorf("prediction %d date = %s, want %s", i, p.Date, want)
		}
	}
}

func TestForecast_TrendFollowsMetricPolarity(t *testing.T) {
	f := NewForecaster()

	rising := []float64{1.0, 1.2, 1.4, 1.6, 1.8, 2.0, 2.2}
	falling := []float64{2.2, 2.0, 1.8, 1.6, 1.4, 1.2, 1.0}

	cases := []struct {
		name   string
		metric domain.Metric
		values []float64
		want   domain.Trend
	}{
		{"rising ROAS improves", domain.MetricROAS, rising, domain.TrendImproving},
		{"falling ROAS declines", domain.MetricROAS, falling, domain.TrendDeclining},
		{"rising CPA declines", domain.MetricCPA, rising, domain.TrendDeclining},
		{"falling CPA improves", domain.MetricCPA, falling, domain.TrendImproving},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := f.Forecast(series(t, tc.metric, tc.values...), 7)
			if err != nil {
				t.Fatalf("Forecast: %v", err)
			}
			if result.Trend != tc.want {
				t.Errorf("trend = %s, want %s", result.Trend, tc.want)
			}
		})
	}
}

func TestForecast_ConfidenceTiers(t *testing.T) {
	f := NewForecaster()

	clean := series(t, domain.MetricSpend, 100, 101, 99, 100, 102, 98, 100, 101, 99, 100)
	volatile := series(t, domain.MetricSpend, 10, 100, 15, 90, 12, 95, 11, 105)
	thin := series(t, domain.MetricSpend, 100, 101, 99)

	cases := []struct {
		name    string
		input   domain.MetricSeries
		horizon int
		want    domain.ConfidenceTier
	}{
		{"clean short horizon", clean, 7, domain.ConfidenceHigh},
		{"clean medium horizon", clean, 14, domain.ConfidenceMedium},
		{"clean long horizon", clean, 30, domain.ConfidenceLow},
		{"volatile short horizon", volatile, 7, domain.ConfidenceMedium},
		{"volatile long horizon", volatile, 14, domain.ConfidenceLow},
		{"thin history", thin, 7, domain.ConfidenceLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := f.Forecast(tc.input, tc.horizon)
			if err != nil {
				t.Fatalf("Forecast: %v", err)
			}
			if result.Confidence != tc.want {
				t.Errorf("confidence = %s, want %s", result.Confidence, tc.want)
			}
		})
	}
}

func TestForecast_CurrentValueIsLastObservation(t *testing.T) {
	f := NewForecaster()
	s := series(t, domain.MetricROAS, 2.0, 2.5, 3.0, 2.8, 2.9, 3.1, 3.3)

	result, err := f.Forecast(s, 7)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if math.Abs(result.CurrentValue-3.3) > 1e-12 {
		t.Errorf("current value = %f, want 3.3", result.CurrentValue)
	}
}
