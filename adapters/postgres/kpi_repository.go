package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"adpulse/domain"
	"adpulse/ports"
)

// KPIRepository reads aggregated daily rows written by the sync job and
// derives metric series from them. Rate metrics (ROAS, CTR, CVR, CPA, CPC)
// are computed in Go through domain.DailyKPI so the zero-denominator rules
// live in exactly one place.
type KPIRepository struct {
	db *sqlx.DB
}

// NewKPIRepository creates a repository over an open connection.
func NewKPIRepository(db *sqlx.DB) *KPIRepository {
	return &KPIRepository{db: db}
}

type kpiRow struct {
	CampaignID  string    `db:"campaign_id"`
	Day         time.Time `db:"day"`
	Impressions float64   `db:"impressions"`
	Clicks      float64   `db:"clicks"`
	Conversions float64   `db:"conversions"`
	Spend       float64   `db:"spend"`
	Revenue     float64   `db:"revenue"`
}

// ListCampaigns returns every campaign with KPI history, newest first.
func (r *KPIRepository) ListCampaigns(ctx context.Context) ([]ports.CampaignRef, error) {
	query := `
		SELECT campaign_id, MAX(campaign_name) AS campaign_name
		FROM daily_campaign_metrics
		GROUP BY campaign_id
		ORDER BY MAX(day) DESC`

	var rows []struct {
		ID   string `db:"campaign_id"`
		Name string `db:"campaign_name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}

	refs := make([]ports.CampaignRef, len(rows))
	for i, row := range rows {
		refs[i] = ports.CampaignRef{ID: row.ID, Name: row.Name}
	}
	return refs, nil
}

// DailySeries loads up to the last `days` days for one campaign and derives
// the requested metric. Days missing from the table are filled with zero rows
// so the series stays contiguous.
func (r *KPIRepository) DailySeries(ctx context.Context, campaignID string, metric domain.Metric, days int) (domain.MetricSeries, error) {
	if days <= 0 {
		days = 90
	}

	query := `
		SELECT campaign_id, day, impressions, clicks, conversions, spend, revenue
		FROM daily_campaign_metrics
		WHERE campaign_id = $1 AND day >= CURRENT_DATE - $2::int
		ORDER BY day`

	var rows []kpiRow
	if err := r.db.SelectContext(ctx, &rows, query, campaignID, days); err != nil {
		return domain.MetricSeries{}, fmt.Errorf("load daily metrics for %s: %w", campaignID, err)
	}

	kpis := make([]domain.DailyKPI, len(rows))
	for i, row := range rows {
		kpis[i] = domain.DailyKPI{
			Date:        row.Day,
			Impressions: row.Impressions,
			Clicks:      row.Clicks,
			Conversions: row.Conversions,
			Spend:       row.Spend,
			Revenue:     row.Revenue,
		}
	}
	return domain.BuildSeries(campaignID, metric, kpis)
}
