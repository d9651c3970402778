package evaluation

import (
	"fmt"
	"sort"

	"bayesclassifier/internal/data"
	"bayesclassifier/internal/distribution"
)

// OptimizeThreshold searches for the probability cutoff on P(class=1) that
// maximizes weighted classification accuracy of predict over the stream.
// Prediction rule: class 1 iff P(class=1) >= threshold. Returns the best
// threshold and the accuracy it achieves.
func OptimizeThreshold(predict func(*data.Example) (*distribution.Distribution, error), stream data.Stream, weightID int) (float64, float64, error) {
	domain := stream.Domain()
	if domain.Class == nil || domain.Class.Type != data.Discrete || domain.Class.NumValues() != 2 {
		return 0, 0, fmt.Errorf("binary discrete class expected")
	}

	type scored struct {
		p        float64
		weight   float64
		positive bool
	}

	var points []scored
	total := 0.0
	it := stream.Examples()
	for ex, ok := it.Next(); ok; ex, ok = it.Next() {
		if ex.Class.IsMissing() {
			continue
		}
		dist, err := predict(ex)
		if err != nil {
			return 0, 0, err
		}
		w := data.Weight(ex, weightID)
		points = append(points, scored{p: dist.P(1), weight: w, positive: ex.Class.Index == 1})
		total += w
	}

	if len(points) == 0 || total == 0 {
		return 0.5, 0, nil
	}

	sort.Slice(points, func(i, j int) bool { return points[i].p < points[j].p })

	// Threshold 0 predicts class 1 everywhere.
	correct := 0.0
	for _, pt := range points {
		if pt.positive {
			correct += pt.weight
		}
	}
	best, bestThreshold := correct, 0.0

	for i, pt := range points {
		if pt.positive {
			correct -= pt.weight
		} else {
			correct += pt.weight
		}
		next := 1.0
		if i+1 < len(points) {
			next = points[i+1].p
		}
		if next == pt.p {
			continue
		}
		if correct > best {
			best = correct
			bestThreshold = (pt.p + next) / 2
		}
	}

	return bestThreshold, best / total, nil
}
