package data

import (
	"fmt"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

type VarType int

const (
	Discrete VarType = iota
	Continuous
)

type Missing int

const (
	Known Missing = iota
	DontKnow
	DontCare
)

type Variable struct {
	Name   string
	Type   VarType
	Values []string
	Min    decimal.Decimal
	Max    decimal.Decimal
}

func NewDiscreteVariable(name string, values []string) *Variable {
	return &Variable{
		Name:   name,
		Type:   Discrete,
		Values: values,
	}
}

func NewContinuousVariable(name string) *Variable {
	return &Variable{
		Name: name,
		Type: Continuous,
	}
}

func (v *Variable) NumValues() int {
	return len(v.Values)
}

func (v *Variable) ValueIndex(name string) int {
	for i, val := range v.Values {
		if val == name {
			return i
		}
	}
	return -1
}

func (v *Variable) AddValue(name string) int {
	if idx := v.ValueIndex(name); idx >= 0 {
		return idx
	}
	v.Values = append(v.Values, name)
	return len(v.Values) - 1
}

func (v *Variable) Observe(d decimal.Decimal) {
	if v.Min.IsZero() && v.Max.IsZero() {
		v.Min = d
		v.Max = d
		return
	}
	if d.LessThan(v.Min) {
		v.Min = d
	}
	if d.GreaterThan(v.Max) {
		v.Max = d
	}
}

type Domain struct {
	Attributes []*Variable
	Class      *Variable
}

func NewDomain(attributes []*Variable, class *Variable) *Domain {
	return &Domain{Attributes: attributes, Class: class}
}

func (d *Domain) Variables() []*Variable {
	vars := make([]*Variable, 0, len(d.Attributes)+1)
	vars = append(vars, d.Attributes...)
	if d.Class != nil {
		vars = append(vars, d.Class)
	}
	return vars
}

func (d *Domain) AttributeIndex(v *Variable) int {
	for i, attr := range d.Attributes {
		if attr == v {
			return i
		}
	}
	return -1
}

func (d *Domain) Clone() *Domain {
	attrs := make([]*Variable, len(d.Attributes))
	copy(attrs, d.Attributes)
	return &Domain{Attributes: attrs, Class: d.Class}
}

type Value struct {
	Type    VarType
	Index   int
	Num     decimal.Decimal
	Missing Missing
}

func IntValue(index int) Value {
	return Value{Type: Discrete, Index: index}
}

func FloatValue(f float64) Value {
	return Value{Type: Continuous, Num: decimal.NewFromFloat(f)}
}

func DecimalValue(d decimal.Decimal) Value {
	return Value{Type: Continuous, Num: d}
}

func MissingValue(varType VarType, kind Missing) Value {
	if kind == Known {
		kind = DontKnow
	}
	return Value{Type: varType, Missing: kind}
}

func (v Value) IsMissing() bool {
	return v.Missing != Known
}

func (v Value) Float() float64 {
	f, _ := v.Num.Float64()
	return f
}

func (v Value) Equal(o Value) bool {
	if v.Missing != o.Missing || v.Type != o.Type {
		return false
	}
	if v.IsMissing() {
		return true
	}
	if v.Type == Discrete {
		return v.Index == o.Index
	}
	return v.Num.Equal(o.Num)
}

func (v Value) String(variable *Variable) string {
	if v.IsMissing() {
		return "?"
	}
	if v.Type == Discrete {
		if variable != nil && v.Index < len(variable.Values) {
			return variable.Values[v.Index]
		}
		return fmt.Sprintf("#%d", v.Index)
	}
	return v.Num.String()
}

var metaCounter int64

// NewMetaID hands out identifiers for per-example meta slots. IDs start at 1;
// weight id 0 means "every example weighs 1".
func NewMetaID() int {
	return int(atomic.AddInt64(&metaCounter, 1))
}
