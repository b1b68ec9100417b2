package numeric

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	"adpulse/domain"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// TestErf_MatchesStdlib verifies the Abramowitz-Stegun approximation stays
// within its documented error bound against the stdlib erf.
func TestErf_MatchesStdlib(t *testing.T) {
	for x := -4.0; x <= 4.0; x += 0.01 {
		got := Erf(x)
		want := math.Erf(x)
		if math.Abs(got-want) > 2e-7 {
			t.Fatalf("Erf(%f) = %.10f, want %.10f (diff %.2e)", x, got, want, math.Abs(got-want))
		}
	}
}

func TestErf_Symmetry(t *testing.T) {
	for _, x := range []float64{0.1, 0.5, 1.0, 2.5} {
		if got := Erf(-x) + Erf(x); math.Abs(got) > 1e-12 {
			t.Errorf("Erf(-%f) + Erf(%f) = %e, want 0", x, x, got)
		}
	}
}

// TestNormalCDF_AgainstGonum uses gonum's normal distribution as the oracle.
func TestNormalCDF_AgainstGonum(t *testing.T) {
	for z := -5.0; z <= 5.0; z += 0.05 {
		got := NormalCDF(z)
		want := stdNormal.CDF(z)
		if math.Abs(got-want) > 1e-6 {
			t.Fatalf("NormalCDF(%f) = %.8f, want %.8f", z, got, want)
		}
	}
}

// TestNormalQuantile_AgainstGonum checks the Beasley-Springer-Moro inversion
// across the central region and both tails.
func TestNormalQuantile_AgainstGonum(t *testing.T) {
	for _, p := range []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 0.75, 0.8, 0.9, 0.95, 0.975, 0.99, 0.999} {
		got, err := NormalQuantile(p)
		if err != nil {
			t.Fatalf("NormalQuantile(%f) returned error: %v", p, err)
		}
		want := stdNormal.Quantile(p)
		if math.Abs(got-want) > 1e-4 {
			t.Fatalf("NormalQuantile(%f) = %.6f, want %.6f", p, got, want)
		}
	}
}

func TestNormalQuantile_RoundTrip(t *testing.T) {
	for p := 0.01; p < 1.0; p += 0.01 {
		z, err := NormalQuantile(p)
		if err != nil {
			t.Fatalf("NormalQuantile(%f): %v", p, err)
		}
		if back := NormalCDF(z); math.Abs(back-p) > 1e-4 {
			t.Fatalf("CDF(Quantile(%f)) = %f, want %f", p, back, p)
		}
	}
}

func TestNormalQuantile_RejectsOutOfRange(t *testing.T) {
	for _, p := range []float64{-0.1, 0, 1, 1.5} {
		if _, err := NormalQuantile(p); err == nil {
			t.Errorf("NormalQuantile(%f) should fail", p)
		}
	}
}

func TestZCritical(t *testing.T) {
	cases := map[domain.ConfidenceLevel]float64{
		domain.Confidence90: 1.645,
		domain.Confidence95: 1.96,
		domain.Confidence99: 2.576,
	}
	for level, want := range cases {
		got, err := ZCritical(level)
		if err != nil {
			t.Fatalf("ZCritical(%v): %v", level, err)
		}
		if got != want {
			t.Errorf("ZCritical(%v) = %f, want %f", level, got, want)
		}
	}

	if _, err := ZCritical(domain.ConfidenceLevel(0.85)); err == nil {
		t.Error("ZCritical(0.85) should fail")
	}
}
