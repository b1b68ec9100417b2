package app

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"adpulse/adapters/stats/creative"
	"adpulse/adapters/stats/forecast"
	"adpulse/adapters/stats/significance"
	"adpulse/domain"
	"adpulse/ports"
)

// DefaultMetrics is the set forecast dashboards ask for when the caller does
// not narrow it down.
var DefaultMetrics = []domain.Metric{
	domain.MetricROAS, domain.MetricCTR, domain.MetricCVR,
	domain.MetricCPA, domain.MetricSpend, domain.MetricRevenue,
}

// AnalyticsService fronts the three pure engines and the KPI feed. The
// engines are stateless, so the service is safe for concurrent use; bulk
// forecasting is bounded by a weighted semaphore rather than one goroutine
// per series.
type AnalyticsService struct {
	repo       ports.KPIRepository
	forecaster *forecast.Forecaster
	engine     *significance.Engine
	planner    *creative.Planner
	sem        *semaphore.Weighted
}

// NewAnalyticsService wires the engines together. repo may be nil when the
// deployment runs without a KPI database; series-based operations still work.
func NewAnalyticsService(repo ports.KPIRepository) *AnalyticsService {
	engine := significance.NewEngine()
	return &AnalyticsService{
		repo:       repo,
		forecaster: forecast.NewForecaster(),
		engine:     engine,
		planner:    creative.NewPlanner(engine),
		sem:        semaphore.NewWeighted(4),
	}
}

// Forecast runs the forecaster over a caller-supplied series.
func (s *AnalyticsService) Forecast(series domain.MetricSeries, horizon int) (domain.ForecastResult, error) {
	return s.forecaster.Forecast(series, horizon)
}

// CampaignForecasts loads the last `days` days of each requested metric from
// the KPI feed and forecasts them concurrently. Results keep the order of the
// metrics argument.
func (s *AnalyticsService) CampaignForecasts(ctx context.Context, campaignID string, metrics []domain.Metric, horizon, days int) ([]domain.ForecastResult, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("no KPI repository configured")
	}
	if len(metrics) == 0 {
		metrics = DefaultMetrics
	}

	results := make([]domain.ForecastResult, len(metrics))
	errs := make([]error, len(metrics))

	var wg sync.WaitGroup
	for i, metric := range metrics {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i int, metric domain.Metric) {
			defer wg.Done()
			defer s.sem.Release(1)

			series, err := s.repo.DailySeries(ctx, campaignID, metric, days)
			if err != nil {
				errs[i] = fmt.Errorf("load %s series: %w", metric, err)
				return
			}
			results[i], errs[i] = s.forecaster.Forecast(series, horizon)
		}(i, metric)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// EvaluateABTest runs the two-proportion Z-test.
func (s *AnalyticsService) EvaluateABTest(control, treatment domain.ProportionSample, level domain.ConfidenceLevel) (domain.SignificanceVerdict, error) {
	return s.engine.Evaluate(control, treatment, level)
}

// RequiredSampleSize exposes the power calculation.
func (s *AnalyticsService) RequiredSampleSize(baselineRate, mde, power float64, level domain.ConfidenceLevel) (int, error) {
	return s.engine.RequiredSampleSize(baselineRate, mde, power, level)
}

// PlanCreativeTest designs the next creative A/B test.
func (s *AnalyticsService) PlanCreativeTest(in creative.Inputs) (domain.CreativeTestPlan, error) {
	return s.planner.Plan(in)
}
