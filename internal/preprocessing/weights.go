package preprocessing

import (
	"fmt"

	"bayesclassifier/internal/data"
)

// RemoveDuplicates folds repeated examples into one representative,
// summing their weights under a freshly allocated weight id.
type RemoveDuplicates struct{}

func (RemoveDuplicates) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	table := data.NewTableFrom(stream)
	newWeight := data.NewMetaID()
	table.CopyMeta(newWeight, weightID, data.FloatValue(1.0))
	table.RemoveDuplicates(newWeight)
	return table, newWeight, nil
}

// CostWeight writes per-example weights scaled by per-class factors. With
// Equalize set, factors are chosen so every class contributes equal total
// weight mass; explicit ClassWeights multiply in and pad with 1 for classes
// they leave out.
type CostWeight struct {
	ClassWeights []float64
	Equalize     bool
}

func (p CostWeight) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	domain := stream.Domain()
	if domain.Class == nil || domain.Class.Type != data.Discrete {
		return nil, 0, fmt.Errorf("class-less domain or non-discrete class")
	}

	table := data.NewTableFrom(stream)
	nocl := domain.Class.NumValues()

	if (!p.Equalize && len(p.ClassWeights) == 0) || nocl == 0 {
		return table, 0, nil
	}

	weights := make([]float64, nocl)
	for i := range weights {
		if i < len(p.ClassWeights) {
			weights[i] = p.ClassWeights[i]
		} else {
			weights[i] = 1.0
		}
	}

	if p.Equalize {
		counts := make([]float64, nocl)
		total := 0.0
		for _, ex := range table.Rows() {
			if ex.Class.IsMissing() {
				continue
			}
			w := data.Weight(ex, weightID)
			counts[ex.Class.Index] += w
			total += w
		}
		for i, count := range counts {
			if count > 0 {
				weights[i] *= total / float64(nocl) / count
			} else {
				weights[i] = 1.0
			}
		}
	}

	newWeight := data.NewMetaID()
	for _, ex := range table.Rows() {
		w := data.Weight(ex, weightID)
		if !ex.Class.IsMissing() {
			w *= weights[ex.Class.Index]
		}
		ex.SetWeight(newWeight, w)
	}

	return table, newWeight, nil
}

type CensorMethod int

const (
	MethodKM CensorMethod = iota
	MethodNMR
	MethodLinear
)

// CensorWeight reweights censored examples in survival data. Examples that
// experienced the event keep their weight; censored ones are scaled by
// observed time over maximum time (linear method) or by a Kaplan-Meier
// curve value at their observed time (km: failure probability, nmr: log
// hazard). Observed times live in the TimeID meta slot.
type CensorWeight struct {
	Outcome    *data.Variable
	EventValue int
	TimeID     int
	Method     CensorMethod
	MaxTime    float64
}

func (p CensorWeight) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	if p.Outcome == nil {
		return nil, 0, fmt.Errorf("'outcomeVar' not set")
	}
	if p.Outcome.Type != data.Discrete {
		return nil, 0, fmt.Errorf("'eventValue' invalid (discrete value expected)")
	}
	if p.EventValue < 0 || p.EventValue >= p.Outcome.NumValues() {
		return nil, 0, fmt.Errorf("'eventValue' not set")
	}
	if p.TimeID == 0 {
		return nil, 0, fmt.Errorf("'timeVar' not set")
	}
	if p.Method < MethodKM || p.Method > MethodLinear {
		return nil, 0, fmt.Errorf("invalid method")
	}

	domain := stream.Domain()
	outcomeIndex := -1
	if p.Outcome != domain.Class {
		outcomeIndex = domain.AttributeIndex(p.Outcome)
		if outcomeIndex < 0 {
			return nil, 0, fmt.Errorf("attribute '%s' not found", p.Outcome.Name)
		}
	}

	table := data.NewTableFrom(stream)

	outcomeOf := func(ex *data.Example) data.Value {
		if outcomeIndex < 0 {
			return ex.Class
		}
		return ex.Values[outcomeIndex]
	}

	if p.Method == MethodLinear {
		return p.applyLinear(table, weightID, outcomeOf)
	}
	return p.applyCurve(table, weightID, outcomeOf)
}

func (p CensorWeight) timeOf(ex *data.Example) (float64, bool, error) {
	tme, ok := ex.GetMeta(p.TimeID)
	if !ok || tme.IsMissing() {
		return 0, false, nil
	}
	if tme.Type != data.Continuous {
		return 0, false, fmt.Errorf("invalid time (continuous value expected)")
	}
	return tme.Float(), true, nil
}

func (p CensorWeight) applyLinear(table *data.Table, weightID int, outcomeOf func(*data.Example) data.Value) (data.Stream, int, error) {
	maxTime := p.MaxTime
	if maxTime <= 0 {
		for _, ex := range table.Rows() {
			t, ok, err := p.timeOf(ex)
			if err != nil {
				return nil, 0, err
			}
			if ok && t > maxTime {
				maxTime = t
			}
		}
	}
	if maxTime <= 0 {
		return nil, 0, fmt.Errorf("invalid time values (max<=0)")
	}

	newWeight := data.NewMetaID()
	for _, ex := range table.Rows() {
		outcome := outcomeOf(ex)
		if !outcome.IsMissing() && outcome.Index == p.EventValue {
			ex.SetWeight(newWeight, data.Weight(ex, weightID))
			continue
		}
		t, ok, err := p.timeOf(ex)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			ex.SetWeight(newWeight, 0.0)
			continue
		}
		ex.SetWeight(newWeight, data.Weight(ex, weightID)*t/maxTime)
	}

	return table, newWeight, nil
}

func (p CensorWeight) applyCurve(table *data.Table, weightID int, outcomeOf func(*data.Example) data.Value) (data.Stream, int, error) {
	var obs []Observation
	for _, ex := range table.Rows() {
		t, ok, err := p.timeOf(ex)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			continue
		}
		outcome := outcomeOf(ex)
		obs = append(obs, Observation{
			Time:   t,
			Event:  !outcome.IsMissing() && outcome.Index == p.EventValue,
			Weight: data.Weight(ex, weightID),
		})
	}

	km := NewKaplanMeier(obs)
	if p.Method == MethodKM {
		km.ToFailure()
	} else {
		km.ToLog()
	}
	if p.MaxTime > 0 {
		km.NormalizedCut(p.MaxTime)
	}

	newWeight := data.NewMetaID()
	for _, ex := range table.Rows() {
		outcome := outcomeOf(ex)
		if !outcome.IsMissing() && outcome.Index == p.EventValue {
			ex.SetWeight(newWeight, data.Weight(ex, weightID))
			continue
		}
		t, ok, err := p.timeOf(ex)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			ex.SetWeight(newWeight, 0.0)
			continue
		}
		ex.SetWeight(newWeight, data.Weight(ex, weightID)*km.At(t))
	}

	return table, newWeight, nil
}
