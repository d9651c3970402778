package estimate

import (
	"fmt"

	"bayesclassifier/internal/data"
	"bayesclassifier/internal/distribution"
)

// Estimator produces unconditional class probabilities. Distribution returns
// nil when the estimator cannot materialize a whole distribution, in which
// case callers fall back to per-value Probability queries.
type Estimator interface {
	Distribution() *distribution.Distribution
	Probability(classIdx int) float64
}

// ConditionalEstimator produces class probabilities conditioned on one
// attribute value. Contingency returns nil when the estimator cannot be
// reduced to an exact table.
type ConditionalEstimator interface {
	Contingency() *distribution.Contingency
	Distribution(v data.Value) *distribution.Distribution
	Probability(classIdx int, v data.Value) float64
}

// EstimatorConstructor is the pluggable strategy fitting an unconditional
// estimator from raw class frequencies.
type EstimatorConstructor interface {
	Construct(freqs *distribution.Distribution) (Estimator, error)
}

// ConditionalEstimatorConstructor fits a conditional estimator from an
// attribute's contingency statistics.
type ConditionalEstimatorConstructor interface {
	Construct(cont *distribution.Contingency, apriori *distribution.Distribution) (ConditionalEstimator, error)
}

// DistEstimator wraps a fully materialized class distribution.
type DistEstimator struct {
	Dist *distribution.Distribution
}

func (e *DistEstimator) Distribution() *distribution.Distribution {
	return e.Dist
}

func (e *DistEstimator) Probability(classIdx int) float64 {
	return e.Dist.P(classIdx)
}

// RelativeFrequency estimates probabilities as normalized frequencies. This
// is the default unconditional strategy.
type RelativeFrequency struct{}

func (RelativeFrequency) Construct(freqs *distribution.Distribution) (Estimator, error) {
	dist := freqs.Clone()
	dist.Normalize()
	return &DistEstimator{Dist: dist}, nil
}

// Laplace estimates probabilities with add-one smoothing:
// (count+1) / (total+classes).
type Laplace struct{}

func (Laplace) Construct(freqs *distribution.Distribution) (Estimator, error) {
	n := freqs.Len()
	if n == 0 {
		return nil, fmt.Errorf("no class values to estimate")
	}
	dist := distribution.New(n)
	for i := 0; i < n; i++ {
		dist.Add(i, (freqs.P(i)+1.0)/(freqs.Abs+float64(n)))
	}
	return &DistEstimator{Dist: dist}, nil
}

// MEstimate blends frequencies with a prior distribution weighted by M:
// (count + m*prior) / (total + m). A nil Prior means uniform.
type MEstimate struct {
	M     float64
	Prior *distribution.Distribution
}

func (e MEstimate) Construct(freqs *distribution.Distribution) (Estimator, error) {
	n := freqs.Len()
	if n == 0 {
		return nil, fmt.Errorf("no class values to estimate")
	}
	prior := e.Prior
	if prior == nil {
		prior = distribution.New(n)
		for i := 0; i < n; i++ {
			prior.Add(i, 1.0/float64(n))
		}
	}
	dist := distribution.New(n)
	for i := 0; i < n; i++ {
		dist.Add(i, (freqs.P(i)+e.M*prior.P(i))/(freqs.Abs+e.M))
	}
	return &DistEstimator{Dist: dist}, nil
}
