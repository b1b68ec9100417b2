package domain

import (
	"math"
	"testing"
)

func TestDailyKPI_DerivedMetrics(t *testing.T) {
	k := DailyKPI{
		Impressions: 10000,
		Clicks:      150,
		Conversions: 6,
		Spend:       120,
		Revenue:     300,
	}

	cases := []struct {
		metric Metric
		want   float64
	}{
		{MetricROAS, 2.5},
		{MetricCTR, 1.5},
		{MetricCVR, 4},
		{MetricCPA, 20},
		{MetricCPC, 0.8},
		{MetricSpend, 120},
		{MetricRevenue, 300},
		{MetricClicks, 150},
		{MetricConversions, 6},
		{MetricImpressions, 10000},
	}

	for _, tc := range cases {
		if got := k.Value(tc.metric); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s = %f, want %f", tc.metric, got, tc.want)
		}
	}
}

// TestDailyKPI_ZeroDenominators: rates over a zero denominator are zero by
// definition, never NaN or Inf.
func TestDailyKPI_ZeroDenominators(t *testing.T) {
	empty := DailyKPI{Revenue: 50, Spend: 0}

	for _, m := range []Metric{MetricROAS, MetricCTR, MetricCVR, MetricCPC} {
		if got := empty.Value(m); got != 0 {
			t.Errorf("%s with zero denominator = %f, want 0", m, got)
		}
	}

	if got := (DailyKPI{Spend: 100}).Value(MetricCPA); got != 0 {
		t.Errorf("CPA with zero conversions = %f, want 0", got)
	}
}

func TestBuildSeries_SortsAndFillsGaps(t *testing.T) {
	rows := []DailyKPI{
		{Date: day(2025, 6, 3), Spend: 30},
		{Date: day(2025, 6, 1), Spend: 10},
		// June 2 missing from the feed.
	}

	s, err := BuildSeries("c1", MetricSpend, rows)
	if err != nil {
		t.Fatalf("BuildSeries: %v", err)
	}

	want := []float64{10, 0, 30}
	got := s.Values()
	if len(got) != len(want) {
		t.Fatalf("values = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("values = %v, want %v", got, want)
		}
	}

	points := s.Points()
	for i := 1; i < len(points); i++ {
		if !points[i].Date.Equal(points[i-1].Date.AddDate(0, 0, 1)) {
			t.Fatalf("dates not contiguous: %v", points)
		}
	}
}

func TestBuildSeries_EmptyInput(t *testing.T) {
	s, err := BuildSeries("c1", MetricROAS, nil)
	if err != nil {
		t.Fatalf("BuildSeries: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}
