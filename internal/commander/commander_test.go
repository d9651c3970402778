package commander

import (
	"testing"

	"bayesclassifier/internal/estimate"
)

func TestBuildLearnerDefaults(t *testing.T) {
	c := NewCommander()
	learner := c.buildLearner(nil)

	if learner.EstimatorConstructor != nil {
		t.Fatal("no params must leave the default estimator")
	}
	if learner.AdjustThreshold {
		t.Fatal("threshold calibration must be off by default")
	}
	if !learner.NormalizePredictions {
		t.Fatal("normalization must be on by default")
	}
}

func TestBuildLearnerParams(t *testing.T) {
	c := NewCommander()

	learner := c.buildLearner([]string{"--estimator=laplace", "--adjust-threshold"})
	if _, ok := learner.EstimatorConstructor.(estimate.Laplace); !ok {
		t.Fatalf("estimator = %T, want laplace", learner.EstimatorConstructor)
	}
	if !learner.AdjustThreshold {
		t.Fatal("--adjust-threshold must enable calibration")
	}

	learner = c.buildLearner([]string{"--m=5"})
	m, ok := learner.EstimatorConstructor.(estimate.MEstimate)
	if !ok {
		t.Fatalf("estimator = %T, want m-estimate", learner.EstimatorConstructor)
	}
	if m.M != 5 {
		t.Fatalf("m = %v, want 5", m.M)
	}

	learner = c.buildLearner([]string{"--no-normalize"})
	if learner.NormalizePredictions {
		t.Fatal("--no-normalize must disable normalization")
	}
}

func TestBuildLearnerIgnoresBadValues(t *testing.T) {
	c := NewCommander()
	learner := c.buildLearner([]string{"--m=not-a-number", "--estimator=unknown"})
	if learner.EstimatorConstructor != nil {
		t.Fatalf("bad params must leave the default, got %T", learner.EstimatorConstructor)
	}
}
