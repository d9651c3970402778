package data

import (
	"github.com/shopspring/decimal"
)

type Example struct {
	Values []Value
	Class  Value
	Meta   map[int]Value
}

func NewExample(domain *Domain) *Example {
	values := make([]Value, len(domain.Attributes))
	for i, attr := range domain.Attributes {
		values[i] = MissingValue(attr.Type, DontKnow)
	}
	class := Value{}
	if domain.Class != nil {
		class = MissingValue(domain.Class.Type, DontKnow)
	}
	return &Example{Values: values, Class: class}
}

func (e *Example) Clone() *Example {
	values := make([]Value, len(e.Values))
	copy(values, e.Values)
	clone := &Example{Values: values, Class: e.Class}
	if e.Meta != nil {
		clone.Meta = make(map[int]Value, len(e.Meta))
		for id, v := range e.Meta {
			clone.Meta[id] = v
		}
	}
	return clone
}

func (e *Example) SetMeta(id int, v Value) {
	if e.Meta == nil {
		e.Meta = make(map[int]Value)
	}
	e.Meta[id] = v
}

func (e *Example) GetMeta(id int) (Value, bool) {
	v, ok := e.Meta[id]
	return v, ok
}

func (e *Example) SetWeight(id int, w float64) {
	e.SetMeta(id, DecimalValue(decimal.NewFromFloat(w)))
}

// Equal compares attribute and class values, ignoring meta slots.
func (e *Example) Equal(o *Example) bool {
	if len(e.Values) != len(o.Values) {
		return false
	}
	for i, v := range e.Values {
		if !v.Equal(o.Values[i]) {
			return false
		}
	}
	return e.Class.Equal(o.Class)
}

// Weight returns the example's instance weight under the given weight id.
// Id 0, a missing slot or a missing value all mean weight 1.
func Weight(e *Example, weightID int) float64 {
	if weightID == 0 {
		return 1.0
	}
	v, ok := e.Meta[weightID]
	if !ok || v.IsMissing() {
		return 1.0
	}
	return v.Float()
}
