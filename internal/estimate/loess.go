package estimate

import (
	"fmt"
	"math"
	"sort"

	"bayesclassifier/internal/data"
	"bayesclassifier/internal/distribution"
)

// Loess is the default conditional strategy for continuous attributes. It
// fits locally weighted class distributions at up to NPoints sample points
// using a tricube kernel whose half-width is WindowProportion of the value
// range, then answers queries by linear interpolation between fit points.
// It never reduces to an exact table, so the learner keeps it as an
// estimator slot.
type Loess struct {
	WindowProportion float64
	NPoints          int
}

const (
	DefaultWindowProportion = 0.5
	DefaultNPoints          = 50
)

func (l Loess) Construct(cont *distribution.Contingency, apriori *distribution.Distribution) (ConditionalEstimator, error) {
	if cont.Attribute.Type != data.Continuous {
		return nil, fmt.Errorf("continuous attribute expected for loess estimation")
	}
	if len(cont.Points) == 0 {
		return nil, fmt.Errorf("no values to fit for attribute %s", cont.Attribute.Name)
	}

	window := l.WindowProportion
	if window <= 0 {
		window = DefaultWindowProportion
	}
	nPoints := l.NPoints
	if nPoints <= 0 {
		nPoints = DefaultNPoints
	}

	xs := samplePoints(cont.Points, nPoints)
	lo := cont.Points[0].X
	hi := cont.Points[len(cont.Points)-1].X
	h := window * (hi - lo)

	fit := make([]distribution.Point, len(xs))
	for i, x := range xs {
		fit[i] = distribution.Point{X: x, Dist: smoothAt(cont, x, h)}
	}

	return &LoessEstimator{Points: fit, Classes: cont.Classes.Len()}, nil
}

func samplePoints(points []distribution.Point, n int) []float64 {
	if len(points) <= n {
		xs := make([]float64, len(points))
		for i, p := range points {
			xs[i] = p.X
		}
		return xs
	}
	if n == 1 {
		// A single fit point sits at the midpoint of the range.
		return []float64{(points[0].X + points[len(points)-1].X) / 2}
	}
	xs := make([]float64, n)
	for i := 0; i < n; i++ {
		j := i * (len(points) - 1) / (n - 1)
		xs[i] = points[j].X
	}
	return xs
}

func smoothAt(cont *distribution.Contingency, x, h float64) *distribution.Distribution {
	dist := distribution.New(cont.Classes.Len())
	for _, p := range cont.Points {
		w := tricube(p.X-x, h)
		if w <= 0 {
			continue
		}
		for c := 0; c < p.Dist.Len(); c++ {
			dist.Add(c, w*p.Dist.P(c))
		}
	}
	if dist.Abs == 0 {
		// Degenerate window; fall back to the nearest observed point.
		nearest := cont.Points[0]
		for _, p := range cont.Points[1:] {
			if math.Abs(p.X-x) < math.Abs(nearest.X-x) {
				nearest = p
			}
		}
		dist = nearest.Dist.Clone()
	}
	dist.Normalize()
	return dist
}

func tricube(d, h float64) float64 {
	if h <= 0 {
		if d == 0 {
			return 1.0
		}
		return 0.0
	}
	u := math.Abs(d) / h
	if u >= 1 {
		return 0.0
	}
	t := 1 - u*u*u
	return t * t * t
}

// LoessEstimator answers conditional queries by interpolating between fit
// points. It cannot be reduced to an exact table.
type LoessEstimator struct {
	Points  []distribution.Point
	Classes int
}

func (e *LoessEstimator) Contingency() *distribution.Contingency {
	return nil
}

func (e *LoessEstimator) Distribution(v data.Value) *distribution.Distribution {
	if v.IsMissing() || len(e.Points) == 0 {
		return nil
	}
	x := v.Float()
	i := sort.Search(len(e.Points), func(i int) bool { return e.Points[i].X >= x })
	if i == 0 {
		return e.Points[0].Dist.Clone()
	}
	if i == len(e.Points) {
		return e.Points[len(e.Points)-1].Dist.Clone()
	}
	left, right := e.Points[i-1], e.Points[i]
	if right.X == left.X {
		return right.Dist.Clone()
	}
	t := (x - left.X) / (right.X - left.X)
	dist := distribution.New(e.Classes)
	for c := 0; c < e.Classes; c++ {
		dist.Add(c, (1-t)*left.Dist.P(c)+t*right.Dist.P(c))
	}
	dist.Normalize()
	return dist
}

func (e *LoessEstimator) Probability(classIdx int, v data.Value) float64 {
	dist := e.Distribution(v)
	if dist == nil {
		return 0.0
	}
	return dist.P(classIdx)
}
