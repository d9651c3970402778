package estimate

import (
	"fmt"

	"bayesclassifier/internal/data"
	"bayesclassifier/internal/distribution"
)

// ByRows is the default conditional strategy for discrete attributes: each
// contingency row is re-estimated with the inner unconditional strategy,
// yielding an exact conditional table.
type ByRows struct {
	Inner EstimatorConstructor
}

func (b ByRows) Construct(cont *distribution.Contingency, apriori *distribution.Distribution) (ConditionalEstimator, error) {
	if cont.Attribute.Type != data.Discrete {
		return nil, fmt.Errorf("discrete attribute expected for by-rows estimation")
	}

	inner := b.Inner
	if inner == nil {
		inner = RelativeFrequency{}
	}

	estimated := &distribution.Contingency{
		Attribute: cont.Attribute,
		Classes:   cont.Classes.Clone(),
		Rows:      make([]*distribution.Distribution, len(cont.Rows)),
	}
	for i, row := range cont.Rows {
		est, err := inner.Construct(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		dist := est.Distribution()
		if dist == nil {
			return nil, fmt.Errorf("row %d: inner estimator cannot produce a distribution", i)
		}
		estimated.Rows[i] = dist
	}

	return &TableEstimator{Cont: estimated}, nil
}

// TableEstimator answers conditional queries from an exact contingency.
type TableEstimator struct {
	Cont *distribution.Contingency
}

func (e *TableEstimator) Contingency() *distribution.Contingency {
	return e.Cont
}

func (e *TableEstimator) Distribution(v data.Value) *distribution.Distribution {
	return e.Cont.Row(v)
}

func (e *TableEstimator) Probability(classIdx int, v data.Value) float64 {
	row := e.Cont.Row(v)
	if row == nil {
		return 0.0
	}
	return row.P(classIdx)
}
