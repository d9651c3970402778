package preprocessing

import (
	"math"
	"sort"
)

type Observation struct {
	Time   float64
	Event  bool
	Weight float64
}

// KaplanMeier is a product-limit survival curve fit from weighted
// (time, event) observations. The raw curve is the survival probability,
// monotone non-increasing over time; ToFailure and ToLog transform it in
// place for the censoring reweighting modes.
type KaplanMeier struct {
	Times []float64
	Probs []float64
}

func NewKaplanMeier(obs []Observation) *KaplanMeier {
	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	atRisk := 0.0
	for _, o := range sorted {
		atRisk += o.Weight
	}

	km := &KaplanMeier{}
	survival := 1.0
	for i := 0; i < len(sorted); {
		t := sorted[i].Time
		events, leaving := 0.0, 0.0
		for i < len(sorted) && sorted[i].Time == t {
			if sorted[i].Event {
				events += sorted[i].Weight
			}
			leaving += sorted[i].Weight
			i++
		}
		if events > 0 && atRisk > 0 {
			survival *= 1 - events/atRisk
		}
		km.Times = append(km.Times, t)
		km.Probs = append(km.Probs, survival)
		atRisk -= leaving
	}

	return km
}

// At evaluates the step curve at time t: the value of the last step at or
// before t, or 1 before the first observation.
func (km *KaplanMeier) At(t float64) float64 {
	i := sort.SearchFloat64s(km.Times, t)
	if i < len(km.Times) && km.Times[i] == t {
		return km.Probs[i]
	}
	if i == 0 {
		return 1.0
	}
	return km.Probs[i-1]
}

// ToFailure converts the survival curve to a failure-probability curve,
// 1 - S(t).
func (km *KaplanMeier) ToFailure() {
	for i, s := range km.Probs {
		km.Probs[i] = 1 - s
	}
}

// ToLog converts the survival curve to a cumulative log-hazard curve,
// -log S(t). Zero survival saturates at the largest finite step.
func (km *KaplanMeier) ToLog() {
	maxFinite := 0.0
	for i, s := range km.Probs {
		if s > 0 {
			km.Probs[i] = -math.Log(s)
			if km.Probs[i] > maxFinite {
				maxFinite = km.Probs[i]
			}
		} else {
			km.Probs[i] = math.Inf(1)
		}
	}
	for i, p := range km.Probs {
		if math.IsInf(p, 1) {
			km.Probs[i] = maxFinite
		}
	}
}

// NormalizedCut truncates the curve at maxTime and rescales it so the value
// at maxTime becomes 1.
func (km *KaplanMeier) NormalizedCut(maxTime float64) {
	scale := km.At(maxTime)
	cut := sort.SearchFloat64s(km.Times, maxTime)
	if cut < len(km.Times) && km.Times[cut] == maxTime {
		cut++
	}
	km.Times = km.Times[:cut]
	km.Probs = km.Probs[:cut]
	if scale <= 0 {
		return
	}
	for i := range km.Probs {
		km.Probs[i] /= scale
	}
}
