package ports

import (
	"context"

	"adpulse/domain"
)

// CampaignRef identifies a campaign known to the KPI feed.
type CampaignRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// KPIRepository reads already-aggregated daily KPI rows. Ingestion and raw
// event processing belong to the upstream sync job, not this engine.
type KPIRepository interface {
	// ListCampaigns returns all campaigns with KPI history.
	ListCampaigns(ctx context.Context) ([]CampaignRef, error)

	// DailySeries returns up to the last `days` days of one derived metric as
	// a contiguous series. An empty series is a valid answer for a campaign
	// with no history yet.
	DailySeries(ctx context.Context, campaignID string, metric domain.Metric, days int) (domain.MetricSeries, error)
}
