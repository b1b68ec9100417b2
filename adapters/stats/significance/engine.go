package significance

import (
	"fmt"
	"math"

	"adpulse/adapters/stats/numeric"
	"adpulse/domain"
	"adpulse/domain/core"
)

// Engine runs two-proportion Z-tests and the matching power calculation.
// It is stateless and safe for concurrent use.
type Engine struct{}

// NewEngine creates a significance engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate compares a control and a treatment sample with a pooled
// two-proportion Z-test at the given confidence level.
//
// The p-value is two-tailed. The confidence interval on the absolute lift
// uses the unpooled standard error, as is standard: pooling is only valid
// under the null hypothesis the interval is not conditioned on.
func (e *Engine) Evaluate(control, treatment domain.ProportionSample, level domain.ConfidenceLevel) (domain.SignificanceVerdict, error) {
	if err := control.Validate(); err != nil {
		return domain.SignificanceVerdict{}, fmt.Errorf("control: %w", err)
	}
	if err := treatment.Validate(); err != nil {
		return domain.SignificanceVerdict{}, fmt.Errorf("treatment: %w", err)
	}
	if err := level.Validate(); err != nil {
		return domain.SignificanceVerdict{}, err
	}

	p1 := control.Rate()
	p2 := treatment.Rate()
	n1 := float64(control.Trials)
	n2 := float64(treatment.Trials)

	pooled := float64(control.Conversions+treatment.Conversions) / (n1 + n2)
	pooledSE := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))

	z := 0.0
	if pooledSE > 0 {
		z = (p2 - p1) / pooledSE
	}
	pValue := 2 * (1 - numeric.NormalCDF(math.Abs(z)))

	zCrit, err := numeric.ZCritical(level)
	if err != nil {
		return domain.SignificanceVerdict{}, err
	}
	unpooledSE := math.Sqrt(p1*(1-p1)/n1 + p2*(1-p2)/n2)
	lift := p2 - p1

	return domain.SignificanceVerdict{
		IsSignificant:  pValue < level.Alpha(),
		PValue:         pValue,
		ZScore:         z,
		ControlRate:    p1,
		TreatmentRate:  p2,
		AbsoluteUplift: lift,
		RelativeUplift: relativeUplift(p1, p2),
		ConfidenceInterval: domain.ConfidenceInterval{
			Low:  lift - zCrit*unpooledSE,
			High: lift + zCrit*unpooledSE,
		},
		ConfidenceLevel: level,
	}, nil
}

// RequiredSampleSize returns the per-variant sample size needed to detect an
// absolute effect of mde over baselineRate at the given power and confidence
// level. The result is rounded up.
func (e *Engine) RequiredSampleSize(baselineRate, mde, power float64, level domain.ConfidenceLevel) (int, error) {
	if baselineRate < 0 || baselineRate > 1 {
		return 0, fmt.Errorf("%w: baseline rate %v must be in [0,1]", core.ErrInvalidRate, baselineRate)
	}
	if mde <= 0 {
		return 0, core.NewValidationError("minimum detectable effect", "must be positive")
	}
	if baselineRate+mde > 1 {
		return 0, fmt.Errorf("%w: baseline %v plus effect %v exceeds 1", core.ErrInvalidRate, baselineRate, mde)
	}
	if power <= 0 || power >= 1 {
		// Power of exactly 1 would demand an unbounded sample.
		return 0, core.NewValidationError("power", "must be in (0,1)")
	}
	if err := level.Validate(); err != nil {
		return 0, err
	}

	zAlpha, err := numeric.ZCritical(level)
	if err != nil {
		return 0, err
	}
	zBeta, err := numeric.NormalQuantile(power)
	if err != nil {
		return 0, err
	}

	p1 := baselineRate
	p2 := baselineRate + mde
	n := math.Pow(zAlpha+zBeta, 2) * (p1*(1-p1) + p2*(1-p2)) / math.Pow(p2-p1, 2)
	return int(math.Ceil(n)), nil
}

// relativeUplift is (p2-p1)/p1, +Inf when the control rate is zero and the
// treatment converted at all, and 0 when neither sample converted.
func relativeUplift(p1, p2 float64) float64 {
	if p1 == 0 {
		if p2 == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return (p2 - p1) / p1
}
