package domain

import "fmt"

// Metric identifies one campaign KPI tracked as a daily series.
type Metric string

const (
	MetricROAS        Metric = "roas"
	MetricCTR         Metric = "ctr"
	MetricCVR         Metric = "cvr"
	MetricCPA         Metric = "cpa"
	MetricCPC         Metric = "cpc"
	MetricSpend       Metric = "spend"
	MetricRevenue     Metric = "revenue"
	MetricClicks      Metric = "clicks"
	MetricConversions Metric = "conversions"
	MetricImpressions Metric = "impressions"
)

// HigherIsBetter reports the polarity of the metric: whether an upward slope
// means the campaign is improving. Cost metrics (spend, CPA, CPC) improve when
// they fall.
func (m Metric) HigherIsBetter() bool {
	switch m {
	case MetricCPA, MetricCPC, MetricSpend:
		return false
	default:
		return true
	}
}

// Label returns the human-facing name used in notifications and reports.
func (m Metric) Label() string {
	switch m {
	case MetricROAS:
		return "ROAS"
	case MetricCTR:
		return "CTR"
	case MetricCVR:
		return "CVR"
	case MetricCPA:
		return "CPA"
	case MetricCPC:
		return "CPC"
	case MetricSpend:
		return "Spend"
	case MetricRevenue:
		return "Revenue"
	case MetricClicks:
		return "Clicks"
	case MetricConversions:
		return "Conversions"
	case MetricImpressions:
		return "Impressions"
	default:
		return string(m)
	}
}

// FormatValue renders a metric value with its natural unit: currency for money
// metrics, a multiplier for ROAS, a percentage for rate metrics, and a plain
// count otherwise.
func (m Metric) FormatValue(v float64) string {
	switch m {
	case MetricSpend, MetricRevenue, MetricCPA, MetricCPC:
		return fmt.Sprintf("$%.2f", v)
	case MetricROAS:
		return fmt.Sprintf("%.2fx", v)
	case MetricCTR, MetricCVR:
		return fmt.Sprintf("%.2f%%", v)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// ParseMetric validates a metric name from external input.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricROAS, MetricCTR, MetricCVR, MetricCPA, MetricCPC,
		MetricSpend, MetricRevenue, MetricClicks, MetricConversions, MetricImpressions:
		return Metric(s), nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}
