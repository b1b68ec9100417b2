package forecast

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"adpulse/domain"
	"adpulse/domain/core"
)

// Smoothing factor for exponential smoothing and the z value behind the 95%
// bands.
const (
	alpha = 0.3
	z95   = 1.96
)

// Forecaster produces N-day-ahead predictions with 95% confidence bands,
// choosing a method from the horizon and the amount of history available.
// It is stateless and safe for concurrent use.
type Forecaster struct{}

// NewForecaster creates a forecaster.
func NewForecaster() *Forecaster {
	return &Forecaster{}
}

// Forecast predicts the next `horizon` days of the series. Horizon must be 7,
// 14 or 30. An empty series is not an error: it yields an empty, low
// confidence result tagged insufficient_data.
func (f *Forecaster) Forecast(series domain.MetricSeries, horizon int) (domain.ForecastResult, error) {
	if horizon != 7 && horizon != 14 && horizon != 30 {
		return domain.ForecastResult{}, fmt.Errorf("%w: %d", core.ErrInvalidHorizon, horizon)
	}

	values := series.Values()
	n := len(values)

	result := domain.ForecastResult{
		CampaignID:   series.CampaignID(),
		Metric:       series.Metric(),
		CurrentValue: series.LastValue(),
		Trend:        trend(series),
	}

	if n == 0 {
		result.Predictions = []domain.ForecastPoint{}
		result.Confidence = domain.ConfidenceLow
		result.Methodology = domain.MethodInsufficientData
		return result, nil
	}

	var predict func(step int) float64
	var sigma float64

	switch {
	case horizon <= 7 && n >= 7:
		result.Methodology = domain.MethodMovingAverage
		window := minInt(7, n)
		level, _ := stats.Mean(values[n-window:])
		predict = func(int) float64 { return level }
		sigma = stdDevTail(values, 7)

	case horizon <= 30 && n >= 7:
		result.Methodology = domain.MethodExponentialSmoothing
		level := values[0]
		for _, v := range values[1:] {
			level = alpha*v + (1-alpha)*level
		}
		predict = func(int) float64 { return level }
		sigma = stdDevTail(values, 14)

	default:
		result.Methodology = domain.MethodLinearRegression
		slope, intercept := linearFit(values)
		predict = func(step int) float64 {
			return intercept + slope*float64(n-1+step)
		}
		sigma = stdDevTail(values, n)
	}

	lastDate, _ := series.LastDate()
	result.Predictions = make([]domain.ForecastPoint, 0, horizon)
	for step := 1; step <= horizon; step++ {
		predicted := math.Max(0, predict(step))

		var half float64
		if result.Methodology == domain.MethodLinearRegression {
			nf := float64(n)
			half = z95 * sigma * math.Sqrt(1+1/nf+float64(step*step)/(12*nf*nf))
		} else {
			half = z95 * sigma * math.Sqrt(float64(step)/float64(horizon))
		}

		result.Predictions = append(result.Predictions, domain.ForecastPoint{
			Date:       lastDate.AddDate(0, 0, step),
			Predicted:  predicted,
			LowerBound: math.Max(0, predicted-half),
			UpperBound: predicted + half,
		})
	}

	result.Confidence = confidenceTier(values, horizon)
	return result, nil
}

// trend fits a regression over the whole series and maps the slope through
// the metric's polarity. Flat means |slope| below 1% of the series scale.
func trend(series domain.MetricSeries) domain.Trend {
	values := series.Values()
	if len(values) < 3 {
		return domain.TrendStable
	}

	slope, _ := linearFit(values)
	scale, _ := stats.Mean(values)
	if math.Abs(slope) < 0.01*math.Abs(scale) {
		return domain.TrendStable
	}

	rising := slope > 0
	if rising == series.Metric().HigherIsBetter() {
		return domain.TrendImproving
	}
	return domain.TrendDeclining
}

// confidenceTier grades the forecast: thin history is always low, volatile
// series are capped at medium, and even clean series lose confidence as the
// horizon stretches.
func confidenceTier(values []float64, horizon int) domain.ConfidenceTier {
	if len(values) < 7 {
		return domain.ConfidenceLow
	}

	mean, _ := stats.Mean(values)
	sd, _ := stats.StandardDeviationSample(values)
	cv := 0.0
	if mean != 0 {
		cv = sd / math.Abs(mean)
	}

	if cv >= 0.5 {
		if horizon <= 7 {
			return domain.ConfidenceMedium
		}
		return domain.ConfidenceLow
	}

	switch {
	case horizon <= 7:
		return domain.ConfidenceHigh
	case horizon <= 14:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// stdDevTail is the sample standard deviation of the last `window`
// observations (or the whole series when shorter).
func stdDevTail(values []float64, window int) float64 {
	tail := values
	if len(values) > window {
		tail = values[len(values)-window:]
	}
	if len(tail) < 2 {
		return 0
	}
	sd, _ := stats.StandardDeviationSample(tail)
	return sd
}

// linearFit is an ordinary least squares fit of value against index.
func linearFit(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return 0, values[0]
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / den
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
