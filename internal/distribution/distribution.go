package distribution

import (
	"math"
)

// Distribution is a discrete probability vector over class value indices.
// Abs tracks the running sum of entries; it turns +Inf when the entries
// overflow, which callers use to detect saturation.
type Distribution struct {
	Probs []float64
	Abs   float64
}

func New(n int) *Distribution {
	return &Distribution{Probs: make([]float64, n)}
}

func FromProbs(probs []float64) *Distribution {
	d := &Distribution{Probs: make([]float64, len(probs))}
	copy(d.Probs, probs)
	for _, p := range probs {
		d.Abs += p
	}
	return d
}

func (d *Distribution) Len() int {
	return len(d.Probs)
}

func (d *Distribution) P(idx int) float64 {
	if idx < 0 || idx >= len(d.Probs) {
		return 0.0
	}
	return d.Probs[idx]
}

func (d *Distribution) Add(idx int, weight float64) {
	if idx < 0 {
		return
	}
	for idx >= len(d.Probs) {
		d.Probs = append(d.Probs, 0.0)
	}
	d.Probs[idx] += weight
	d.Abs += weight
}

func (d *Distribution) Clone() *Distribution {
	probs := make([]float64, len(d.Probs))
	copy(probs, d.Probs)
	return &Distribution{Probs: probs, Abs: d.Abs}
}

// Normalize scales entries to sum to 1. A zero-sum distribution is left
// untouched.
func (d *Distribution) Normalize() {
	if d.Abs == 0 {
		return
	}
	for i := range d.Probs {
		d.Probs[i] /= d.Abs
	}
	d.Abs = 1.0
}

func (d *Distribution) Mul(o *Distribution) {
	d.Abs = 0
	for i := range d.Probs {
		d.Probs[i] *= o.P(i)
		d.Abs += d.Probs[i]
	}
}

// Div divides element-wise; entries with a zero denominator become 0.
func (d *Distribution) Div(o *Distribution) {
	d.Abs = 0
	for i := range d.Probs {
		if q := o.P(i); q > 0 {
			d.Probs[i] /= q
		} else {
			d.Probs[i] = 0
		}
		d.Abs += d.Probs[i]
	}
}

// Highest returns the first index achieving the maximum probability.
func (d *Distribution) Highest() int {
	best := 0
	for i := 1; i < len(d.Probs); i++ {
		if d.Probs[i] > d.Probs[best] {
			best = i
		}
	}
	return best
}

// Overflowed reports whether the running sum has saturated to +Inf.
func (d *Distribution) Overflowed() bool {
	return math.IsInf(d.Abs, 1)
}

// CollapseOverflow forces saturated entries to 1 and the rest to 0,
// approximating a degenerate, maximally confident distribution.
func (d *Distribution) CollapseOverflow() {
	d.Abs = 0
	for i := range d.Probs {
		if math.IsInf(d.Probs[i], 1) {
			d.Probs[i] = 1.0
		} else {
			d.Probs[i] = 0.0
		}
		d.Abs += d.Probs[i]
	}
}
