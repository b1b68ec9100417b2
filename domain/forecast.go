package domain

import "time"

// ConfidenceTier grades how much weight a forecast deserves.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// Trend summarizes the direction of a metric, already adjusted for polarity:
// a falling CPA reports as improving.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Methodology tags which forecasting method produced a result.
type Methodology string

const (
	MethodMovingAverage        Methodology = "moving_average"
	MethodExponentialSmoothing Methodology = "exponential_smoothing"
	MethodLinearRegression     Methodology = "linear_regression"
	MethodInsufficientData     Methodology = "insufficient_data"
)

// ForecastPoint is one predicted day with its 95% confidence band.
// Invariant: 0 <= LowerBound <= Predicted <= UpperBound.
type ForecastPoint struct {
	Date       time.Time `json:"date"`
	Predicted  float64   `json:"predicted"`
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
}

// ForecastResult is the full forward-looking view for one metric of one
// campaign. Predictions has exactly the requested horizon length, or is empty
// when there was no input data.
type ForecastResult struct {
	CampaignID   string          `json:"campaign_id,omitempty"`
	Metric       Metric          `json:"metric"`
	CurrentValue float64         `json:"current_value"`
	Predictions  []ForecastPoint `json:"predictions"`
	Confidence   ConfidenceTier  `json:"confidence"`
	Trend        Trend           `json:"trend"`
	Methodology  Methodology     `json:"methodology"`
}
