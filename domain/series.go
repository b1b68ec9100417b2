package domain

import (
	"fmt"
	"time"

	"adpulse/domain/core"
)

// SeriesPoint is one observed (date, value) pair. Dates carry day precision
// only; the time-of-day component is ignored by the engine.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// MetricSeries is an ordered daily series for one metric of one campaign.
// Construction copies the input, so a series handed to the engine cannot be
// mutated behind its back.
type MetricSeries struct {
	campaignID string
	metric     Metric
	points     []SeriesPoint
}

// NewMetricSeries validates and builds a series. Points must be ordered by
// date, cover contiguous calendar days, and hold non-negative values. An empty
// series is valid: absence of data is a normal condition for new campaigns.
func NewMetricSeries(campaignID string, metric Metric, points []SeriesPoint) (MetricSeries, error) {
	copied := make([]SeriesPoint, len(points))
	for i, p := range points {
		if p.Value < 0 {
			return MetricSeries{}, fmt.Errorf("%w: %s at %s is %f",
				core.ErrNegativeValue, metric, p.Date.Format("2006-01-02"), p.Value)
		}
		day := truncateToDay(p.Date)
		if i > 0 {
			prev := copied[i-1].Date
			if !day.Equal(prev.AddDate(0, 0, 1)) {
				return MetricSeries{}, fmt.Errorf("%w: %s follows %s",
					core.ErrNonContiguous, day.Format("2006-01-02"), prev.Format("2006-01-02"))
			}
		}
		copied[i] = SeriesPoint{Date: day, Value: p.Value}
	}
	return MetricSeries{campaignID: campaignID, metric: metric, points: copied}, nil
}

// CampaignID returns the owning campaign identifier.
func (s MetricSeries) CampaignID() string { return s.campaignID }

// Metric returns the metric this series tracks.
func (s MetricSeries) Metric() Metric { return s.metric }

// Len returns the number of observations.
func (s MetricSeries) Len() int { return len(s.points) }

// Points returns a copy of the observations.
func (s MetricSeries) Points() []SeriesPoint {
	out := make([]SeriesPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Values returns the observation values in date order.
func (s MetricSeries) Values() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

// LastDate returns the date of the most recent observation.
func (s MetricSeries) LastDate() (time.Time, bool) {
	if len(s.points) == 0 {
		return time.Time{}, false
	}
	return s.points[len(s.points)-1].Date, true
}

// LastValue returns the most recent observed value, or 0 for an empty series.
func (s MetricSeries) LastValue() float64 {
	if len(s.points) == 0 {
		return 0
	}
	return s.points[len(s.points)-1].Value
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
