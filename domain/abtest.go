package domain

import (
	"fmt"

	"adpulse/domain/core"
)

// ConfidenceLevel is the confidence used for significance verdicts and sample
// size planning. Only the three conventional levels are supported.
type ConfidenceLevel float64

const (
	Confidence90 ConfidenceLevel = 0.90
	Confidence95 ConfidenceLevel = 0.95
	Confidence99 ConfidenceLevel = 0.99
)

// Validate rejects anything but the supported levels. Accepting arbitrary
// levels would require a general quantile inversion the verdict tables are not
// calibrated for.
func (c ConfidenceLevel) Validate() error {
	switch c {
	case Confidence90, Confidence95, Confidence99:
		return nil
	}
	return fmt.Errorf("%w: %v", core.ErrInvalidLevel, float64(c))
}

// Alpha returns the two-tailed significance threshold for the level.
func (c ConfidenceLevel) Alpha() float64 { return 1 - float64(c) }

// ProportionSample is a count-based sample: conversions over trials.
type ProportionSample struct {
	Conversions int `json:"conversions"`
	Trials      int `json:"trials"`
}

// NewProportionSample validates and builds a sample.
func NewProportionSample(conversions, trials int) (ProportionSample, error) {
	s := ProportionSample{Conversions: conversions, Trials: trials}
	return s, s.Validate()
}

// Validate enforces conversions >= 0, trials > 0, conversions <= trials.
func (s ProportionSample) Validate() error {
	if s.Conversions < 0 {
		return fmt.Errorf("%w: conversions %d is negative", core.ErrInvalidSample, s.Conversions)
	}
	if s.Trials <= 0 {
		return fmt.Errorf("%w: trials %d must be positive", core.ErrInvalidSample, s.Trials)
	}
	if s.Conversions > s.Trials {
		return fmt.Errorf("%w: conversions %d exceed trials %d", core.ErrInvalidSample, s.Conversions, s.Trials)
	}
	return nil
}

// Rate returns the observed conversion rate.
func (s ProportionSample) Rate() float64 {
	return float64(s.Conversions) / float64(s.Trials)
}

// ConfidenceInterval bounds the absolute lift between two rates.
type ConfidenceInterval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// SignificanceVerdict is the immutable outcome of a two-proportion Z-test.
// RelativeUplift is +Inf when the control rate is zero and the treatment rate
// is not; presentation layers must special-case that before serializing.
type SignificanceVerdict struct {
	IsSignificant      bool               `json:"is_significant"`
	PValue             float64            `json:"p_value"`
	ZScore             float64            `json:"z_score"`
	ControlRate        float64            `json:"control_rate"`
	TreatmentRate      float64            `json:"treatment_rate"`
	AbsoluteUplift     float64            `json:"absolute_uplift"`
	RelativeUplift     float64            `json:"relative_uplift"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	ConfidenceLevel    ConfidenceLevel    `json:"confidence_level"`
}

// DurationBucket is the coarse display range for a recommended test duration.
type DurationBucket string

const (
	Duration7To10  DurationBucket = "7-10 days"
	Duration14     DurationBucket = "14 days"
	Duration14To21 DurationBucket = "14-21 days"
	Duration21To30 DurationBucket = "21-30 days"
)

// SampleSizePlan sizes an experiment. The per-variant floor of 1000 is always
// enforced; below it results are considered statistically unreliable no matter
// what the power formula says.
type SampleSizePlan struct {
	RequiredSampleSizePerVariant int            `json:"required_sample_size_per_variant"`
	RecommendedDuration          DurationBucket `json:"recommended_duration"`
}

// CreativeElement names the part of an ad creative to test next.
type CreativeElement string

const (
	ElementHeadline     CreativeElement = "headline"
	ElementPrimaryText  CreativeElement = "primary_text"
	ElementCallToAction CreativeElement = "call_to_action"
	ElementDescription  CreativeElement = "description"
)

// CreativeTestPlan is the full recommendation for a creative A/B test:
// what to test, why, and how big the test has to be.
type CreativeTestPlan struct {
	Element      CreativeElement `json:"element"`
	Reason       string          `json:"reason"`
	BaselineRate float64         `json:"baseline_rate"`
	Plan         SampleSizePlan  `json:"plan"`
}
