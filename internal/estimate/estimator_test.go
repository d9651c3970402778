package estimate

import (
	"math"
	"testing"

	"bayesclassifier/internal/distribution"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRelativeFrequency(t *testing.T) {
	est, err := RelativeFrequency{}.Construct(distribution.FromProbs([]float64{3, 1}))
	if err != nil {
		t.Fatal(err)
	}
	dist := est.Distribution()
	if dist == nil {
		t.Fatal("relative frequency must produce a whole distribution")
	}
	if !almostEqual(dist.P(0), 0.75) || !almostEqual(dist.P(1), 0.25) {
		t.Fatalf("distribution = %v, want [0.75 0.25]", dist.Probs)
	}
	if !almostEqual(est.Probability(0), 0.75) {
		t.Fatalf("Probability(0) = %v, want 0.75", est.Probability(0))
	}
}

func TestLaplace(t *testing.T) {
	est, err := Laplace{}.Construct(distribution.FromProbs([]float64{2, 0}))
	if err != nil {
		t.Fatal(err)
	}
	dist := est.Distribution()
	if !almostEqual(dist.P(0), 0.75) || !almostEqual(dist.P(1), 0.25) {
		t.Fatalf("distribution = %v, want [0.75 0.25]", dist.Probs)
	}
}

func TestLaplaceNeverZero(t *testing.T) {
	est, err := Laplace{}.Construct(distribution.FromProbs([]float64{5, 0, 0}))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if est.Probability(i) <= 0 {
			t.Fatalf("P(%d) = %v, smoothing must keep it positive", i, est.Probability(i))
		}
	}
}

func TestMEstimate(t *testing.T) {
	est, err := MEstimate{M: 2}.Construct(distribution.FromProbs([]float64{3, 1}))
	if err != nil {
		t.Fatal(err)
	}
	dist := est.Distribution()
	if !almostEqual(dist.P(0), 4.0/6.0) || !almostEqual(dist.P(1), 2.0/6.0) {
		t.Fatalf("distribution = %v, want [2/3 1/3]", dist.Probs)
	}
}

func TestMEstimateExplicitPrior(t *testing.T) {
	prior := distribution.FromProbs([]float64{0.9, 0.1})
	est, err := MEstimate{M: 10, Prior: prior}.Construct(distribution.FromProbs([]float64{0, 0}))
	if err != nil {
		t.Fatal(err)
	}
	dist := est.Distribution()
	if !almostEqual(dist.P(0), 0.9) || !almostEqual(dist.P(1), 0.1) {
		t.Fatalf("distribution = %v, want the prior back", dist.Probs)
	}
}

func TestConstructorsRejectEmpty(t *testing.T) {
	empty := distribution.New(0)
	if _, err := (Laplace{}).Construct(empty); err == nil {
		t.Fatal("laplace must reject an empty class set")
	}
	if _, err := (MEstimate{M: 2}).Construct(empty); err == nil {
		t.Fatal("m-estimate must reject an empty class set")
	}
}
