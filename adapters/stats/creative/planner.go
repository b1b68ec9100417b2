package creative

import (
	"fmt"
	"math"

	"adpulse/adapters/stats/significance"
	"adpulse/domain"
	"adpulse/domain/core"
)

// Industry benchmarks the weakness heuristic compares against, in percent.
const (
	benchmarkCTR = 1.5
	benchmarkCVR = 2.0
)

// Test design constants: 10% relative minimum detectable effect at 95%
// confidence and 80% power, with a hard floor of 1000 per variant below which
// results are treated as unreliable regardless of what the formula says.
const (
	relativeMDE     = 0.10
	testPower       = 0.80
	minPerVariant   = 1000
	minDurationDays = 7
	maxDurationDays = 30
)

// Inputs describes the campaign's current creative performance. CTR and CVR
// are percentages; AvgDailyImpressions may be zero when traffic is unknown.
type Inputs struct {
	CurrentCTR          float64 `json:"current_ctr"`
	CurrentCVR          float64 `json:"current_cvr"`
	AvgDailyImpressions float64 `json:"avg_daily_impressions"`
}

// Planner designs creative A/B tests: it picks the weakest creative element
// and sizes the experiment with the same power math the significance engine
// uses. Stateless, safe for concurrent use.
type Planner struct {
	engine *significance.Engine
}

// NewPlanner creates a planner on top of a significance engine.
func NewPlanner(engine *significance.Engine) *Planner {
	return &Planner{engine: engine}
}

// Plan recommends which creative element to test next and how big the test
// has to be. There is always a recommendation; the description fallback is
// deliberate for creatives performing at or above benchmark.
func (p *Planner) Plan(in Inputs) (domain.CreativeTestPlan, error) {
	if in.CurrentCTR < 0 || in.CurrentCTR > 100 {
		return domain.CreativeTestPlan{}, fmt.Errorf("%w: CTR %v must be in [0,100]", core.ErrInvalidRate, in.CurrentCTR)
	}
	if in.CurrentCVR < 0 || in.CurrentCVR > 100 {
		return domain.CreativeTestPlan{}, fmt.Errorf("%w: CVR %v must be in [0,100]", core.ErrInvalidRate, in.CurrentCVR)
	}
	if in.AvgDailyImpressions < 0 {
		return domain.CreativeTestPlan{}, core.NewValidationError("avg daily impressions", "must be non-negative")
	}

	element, reason := weakestElement(in.CurrentCTR, in.CurrentCVR)

	// Impression-based test: the baseline is the click-through rate as a
	// proportion, falling back to the benchmark for brand-new creatives.
	baseline := in.CurrentCTR / 100
	if baseline <= 0 {
		baseline = benchmarkCTR / 100
	}

	size, err := p.engine.RequiredSampleSize(baseline, relativeMDE*baseline, testPower, domain.Confidence95)
	if err != nil {
		return domain.CreativeTestPlan{}, err
	}
	if size < minPerVariant {
		size = minPerVariant
	}

	return domain.CreativeTestPlan{
		Element:      element,
		Reason:       reason,
		BaselineRate: baseline,
		Plan: domain.SampleSizePlan{
			RequiredSampleSizePerVariant: size,
			RecommendedDuration:          durationBucket(size, in.AvgDailyImpressions),
		},
	}, nil
}

// weakestElement compares current rates against fixed benchmarks. A CTR well
// below benchmark points at the headline (people are not clicking); a CVR
// well below benchmark points at the body copy (people click but do not
// convert); both merely under benchmark points at the call to action.
func weakestElement(ctr, cvr float64) (domain.CreativeElement, string) {
	ctrRatio := ctr / benchmarkCTR
	cvrRatio := cvr / benchmarkCVR

	switch {
	case ctrRatio < 0.7:
		return domain.ElementHeadline,
			fmt.Sprintf("CTR %.2f%% is %.0f%% of the %.1f%% benchmark", ctr, ctrRatio*100, benchmarkCTR)
	case cvrRatio < 0.7:
		return domain.ElementPrimaryText,
			fmt.Sprintf("CVR %.2f%% is %.0f%% of the %.1f%% benchmark", cvr, cvrRatio*100, benchmarkCVR)
	case ctrRatio < 1.0 && cvrRatio < 1.0:
		return domain.ElementCallToAction,
			"both CTR and CVR sit below benchmark; the call to action is the cheapest lever"
	default:
		return domain.ElementDescription,
			"creative performs at or above benchmark; test the description for incremental gains"
	}
}

// durationBucket converts a per-variant size and daily traffic into a coarse
// display range. Unknown or zero traffic always yields the widest middle
// bucket rather than a division by zero.
func durationBucket(size int, dailyImpressions float64) domain.DurationBucket {
	if dailyImpressions <= 0 {
		return domain.Duration14To21
	}

	days := int(math.Ceil(float64(size) / dailyImpressions))
	if days < minDurationDays {
		days = minDurationDays
	}
	if days > maxDurationDays {
		days = maxDurationDays
	}

	switch {
	case days <= 10:
		return domain.Duration7To10
	case days <= 14:
		return domain.Duration14
	case days <= 21:
		return domain.Duration14To21
	default:
		return domain.Duration21To30
	}
}
