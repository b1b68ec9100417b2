package domain

import (
	"sort"
	"time"
)

// DailyKPI is one day of aggregated raw counters for a campaign, as delivered
// by the upstream sync job. Derived rates are computed from it on demand.
type DailyKPI struct {
	Date        time.Time `json:"date"`
	Impressions float64   `json:"impressions"`
	Clicks      float64   `json:"clicks"`
	Conversions float64   `json:"conversions"`
	Spend       float64   `json:"spend"`
	Revenue     float64   `json:"revenue"`
}

// Value derives the given metric from the day's counters. Zero denominators
// yield zero by definition (zero spend means ROAS 0, zero clicks means CVR and
// CPC 0), never a crash.
func (k DailyKPI) Value(m Metric) float64 {
	switch m {
	case MetricROAS:
		return safeDiv(k.Revenue, k.Spend)
	case MetricCTR:
		return safeDiv(k.Clicks, k.Impressions) * 100
	case MetricCVR:
		return safeDiv(k.Conversions, k.Clicks) * 100
	case MetricCPA:
		return safeDiv(k.Spend, k.Conversions)
	case MetricCPC:
		return safeDiv(k.Spend, k.Clicks)
	case MetricSpend:
		return k.Spend
	case MetricRevenue:
		return k.Revenue
	case MetricClicks:
		return k.Clicks
	case MetricConversions:
		return k.Conversions
	case MetricImpressions:
		return k.Impressions
	default:
		return 0
	}
}

// BuildSeries turns raw daily rows into a contiguous MetricSeries for one
// metric. Rows are sorted by date and days missing from the input are filled
// with zero-count rows, so gaps in the upstream feed never break the
// contiguity invariant.
func BuildSeries(campaignID string, metric Metric, rows []DailyKPI) (MetricSeries, error) {
	if len(rows) == 0 {
		return NewMetricSeries(campaignID, metric, nil)
	}

	sorted := make([]DailyKPI, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	byDay := make(map[string]DailyKPI, len(sorted))
	for _, r := range sorted {
		byDay[truncateToDay(r.Date).Format("2006-01-02")] = r
	}

	first := truncateToDay(sorted[0].Date)
	last := truncateToDay(sorted[len(sorted)-1].Date)

	var points []SeriesPoint
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		row := byDay[day.Format("2006-01-02")] // zero row when the day is missing
		points = append(points, SeriesPoint{Date: day, Value: row.Value(metric)})
	}
	return NewMetricSeries(campaignID, metric, points)
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
