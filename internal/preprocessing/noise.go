package preprocessing

import (
	"fmt"

	"bayesclassifier/internal/data"

	"github.com/shopspring/decimal"
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// attributeLevels flattens a per-variable map into one level per attribute
// plus an optional class level (set when the map names the class variable).
func attributeLevels(domain *data.Domain, levels map[*data.Variable]float64, def float64) ([]float64, float64) {
	ps := make([]float64, len(domain.Attributes))
	for i := range ps {
		ps[i] = def
	}
	classLevel := 0.0
	for variable, level := range levels {
		if variable == domain.Class {
			classLevel = level
			continue
		}
		if idx := domain.AttributeIndex(variable); idx >= 0 {
			ps[idx] = level
		}
	}
	return ps, classLevel
}

func defaultRandom(r *data.Random) *data.Random {
	if r != nil {
		return r
	}
	return data.NewRandom(0)
}

// Noise replaces attribute values with uniformly random values of the same
// attribute. Probabilities configures per-attribute replacement rates (the
// class variable may appear in the map); DefaultNoise applies to attributes
// the map leaves out. Rates <= 0 leave the attribute untouched.
type Noise struct {
	Probabilities map[*data.Variable]float64
	DefaultNoise  float64
	Rand          *data.Random
}

func (p Noise) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	table := data.NewTableFrom(stream)
	if len(p.Probabilities) == 0 && p.DefaultNoise <= 0 {
		return table, weightID, nil
	}

	domain := table.Domain()
	ps, classLevel := attributeLevels(domain, p.Probabilities, p.DefaultNoise)
	rnd := defaultRandom(p.Rand)
	n := table.Count()

	for idx, prob := range ps {
		if prob <= 0 {
			continue
		}
		mask := rnd.DrawIndices(n, prob)
		for e, ex := range table.Rows() {
			if mask[e] {
				ex.Values[idx] = rnd.DrawValue(domain.Attributes[idx])
			}
		}
	}
	if classLevel > 0 && domain.Class != nil {
		mask := rnd.DrawIndices(n, classLevel)
		for e, ex := range table.Rows() {
			if mask[e] {
				ex.Class = rnd.DrawValue(domain.Class)
			}
		}
	}

	return table, weightID, nil
}

// ClassNoise replaces class values with uniformly random class values.
type ClassNoise struct {
	Prob float64
	Rand *data.Random
}

func (p ClassNoise) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	domain := stream.Domain()
	if domain.Class == nil {
		return nil, 0, fmt.Errorf("class-less domain")
	}

	table := data.NewTableFrom(stream)
	if p.Prob > 0 {
		rnd := defaultRandom(p.Rand)
		mask := rnd.DrawIndices(table.Count(), p.Prob)
		for e, ex := range table.Rows() {
			if mask[e] {
				ex.Class = rnd.DrawValue(domain.Class)
			}
		}
	}

	return table, weightID, nil
}

// MissingValues overwrites attribute values with a missing marker of the
// configured kind, with the same per-attribute rate semantics as Noise.
type MissingValues struct {
	Probabilities  map[*data.Variable]float64
	DefaultMissing float64
	Kind           data.Missing
	Rand           *data.Random
}

func (p MissingValues) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	table := data.NewTableFrom(stream)
	if len(p.Probabilities) == 0 && p.DefaultMissing <= 0 {
		return table, weightID, nil
	}

	domain := table.Domain()
	ps, classLevel := attributeLevels(domain, p.Probabilities, p.DefaultMissing)
	rnd := defaultRandom(p.Rand)
	n := table.Count()
	kind := p.Kind
	if kind == data.Known {
		kind = data.DontKnow
	}

	for idx, prob := range ps {
		if prob <= 0 {
			continue
		}
		mask := rnd.DrawIndices(n, prob)
		for e, ex := range table.Rows() {
			if mask[e] {
				ex.Values[idx] = data.MissingValue(domain.Attributes[idx].Type, kind)
			}
		}
	}
	if classLevel > 0 && domain.Class != nil {
		mask := rnd.DrawIndices(n, classLevel)
		for e, ex := range table.Rows() {
			if mask[e] {
				ex.Class = data.MissingValue(domain.Class.Type, kind)
			}
		}
	}

	return table, weightID, nil
}

// ClassMissing overwrites class values with a missing marker.
type ClassMissing struct {
	Prob float64
	Kind data.Missing
	Rand *data.Random
}

func (p ClassMissing) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	domain := stream.Domain()
	if domain.Class == nil {
		return nil, 0, fmt.Errorf("class-less domain")
	}

	table := data.NewTableFrom(stream)
	if p.Prob > 0 {
		kind := p.Kind
		if kind == data.Known {
			kind = data.DontKnow
		}
		rnd := defaultRandom(p.Rand)
		mask := rnd.DrawIndices(table.Count(), p.Prob)
		for e, ex := range table.Rows() {
			if mask[e] {
				ex.Class = data.MissingValue(domain.Class.Type, kind)
			}
		}
	}

	return table, weightID, nil
}

// GaussianNoise adds normally distributed noise to continuous attribute
// values, with per-attribute standard deviations. Zero-deviation attributes
// and discrete attributes are untouched. Built on a lazy change stream,
// materialized at the end.
type GaussianNoise struct {
	Deviations       map[*data.Variable]float64
	DefaultDeviation float64
	Seed             uint64
}

func (p GaussianNoise) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	if len(p.Deviations) == 0 && p.DefaultDeviation <= 0 {
		return data.NewTableFrom(stream), weightID, nil
	}

	domain := stream.Domain()
	devs, classDev := attributeLevels(domain, p.Deviations, p.DefaultDeviation)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: exprand.NewSource(p.Seed)}

	changed := data.NewChangeStream(stream, func(ex *data.Example) *data.Example {
		for i, dev := range devs {
			if dev <= 0 || domain.Attributes[i].Type != data.Continuous {
				continue
			}
			if v := ex.Values[i]; !v.IsMissing() {
				ex.Values[i] = data.DecimalValue(v.Num.Add(decimal.NewFromFloat(dev * normal.Rand())))
			}
		}
		if classDev > 0 && domain.Class != nil && domain.Class.Type == data.Continuous && !ex.Class.IsMissing() {
			ex.Class = data.DecimalValue(ex.Class.Num.Add(decimal.NewFromFloat(classDev * normal.Rand())))
		}
		return ex
	})

	return data.NewTableFrom(changed), weightID, nil
}

// ClassGaussianNoise adds gaussian noise to a continuous class.
type ClassGaussianNoise struct {
	Deviation float64
	Seed      uint64
}

func (p ClassGaussianNoise) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	domain := stream.Domain()
	if domain.Class == nil {
		return nil, 0, fmt.Errorf("class-less domain")
	}
	if p.Deviation <= 0 {
		return data.NewTableFrom(stream), weightID, nil
	}
	gauss := GaussianNoise{
		Deviations: map[*data.Variable]float64{domain.Class: p.Deviation},
		Seed:       p.Seed,
	}
	return gauss.Apply(stream, weightID)
}
