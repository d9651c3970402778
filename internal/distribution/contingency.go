package distribution

import (
	"fmt"
	"sort"

	"bayesclassifier/internal/data"
)

type Point struct {
	X    float64
	Dist *Distribution
}

// Contingency maps each value of one attribute to a conditional class
// distribution. Discrete attributes use Rows indexed by value; continuous
// attributes keep one Point per observed value, sorted by X. Classes holds
// the unconditional reference distribution. Built once, read-only after.
type Contingency struct {
	Attribute *data.Variable
	Classes   *Distribution
	Rows      []*Distribution
	Points    []Point
}

func NewContingency(attr *data.Variable, nClasses int) *Contingency {
	c := &Contingency{
		Attribute: attr,
		Classes:   New(nClasses),
	}
	if attr.Type == data.Discrete {
		c.Rows = make([]*Distribution, attr.NumValues())
		for i := range c.Rows {
			c.Rows[i] = New(nClasses)
		}
	}
	return c
}

func (c *Contingency) Add(attrVal data.Value, classIdx int, weight float64) {
	c.Classes.Add(classIdx, weight)
	if attrVal.IsMissing() {
		return
	}
	if c.Attribute.Type == data.Discrete {
		for attrVal.Index >= len(c.Rows) {
			c.Rows = append(c.Rows, New(c.Classes.Len()))
		}
		c.Rows[attrVal.Index].Add(classIdx, weight)
		return
	}
	x := attrVal.Float()
	i := sort.Search(len(c.Points), func(i int) bool { return c.Points[i].X >= x })
	if i < len(c.Points) && c.Points[i].X == x {
		c.Points[i].Dist.Add(classIdx, weight)
		return
	}
	p := Point{X: x, Dist: New(c.Classes.Len())}
	p.Dist.Add(classIdx, weight)
	c.Points = append(c.Points, Point{})
	copy(c.Points[i+1:], c.Points[i:])
	c.Points[i] = p
}

// Row returns the conditional class distribution for a discrete attribute
// value. Out-of-range values yield a fresh zero distribution.
func (c *Contingency) Row(v data.Value) *Distribution {
	if c.Attribute.Type != data.Discrete || v.IsMissing() {
		return nil
	}
	if v.Index < 0 || v.Index >= len(c.Rows) {
		return New(c.Classes.Len())
	}
	return c.Rows[v.Index]
}

// DomainContingency holds per-attribute class co-occurrence statistics,
// filled by a single weighted pass over a stream.
type DomainContingency struct {
	Classes    *Distribution
	Attributes []*Contingency
}

func NewDomainContingency(stream data.Stream, weightID int) (*DomainContingency, error) {
	domain := stream.Domain()
	if domain.Class == nil {
		return nil, fmt.Errorf("class-less domain")
	}
	if domain.Class.Type != data.Discrete {
		return nil, fmt.Errorf("discrete class attribute expected")
	}

	nClasses := domain.Class.NumValues()
	dc := &DomainContingency{
		Classes:    New(nClasses),
		Attributes: make([]*Contingency, len(domain.Attributes)),
	}
	for i, attr := range domain.Attributes {
		dc.Attributes[i] = NewContingency(attr, nClasses)
	}

	it := stream.Examples()
	for ex, ok := it.Next(); ok; ex, ok = it.Next() {
		if ex.Class.IsMissing() {
			continue
		}
		w := data.Weight(ex, weightID)
		dc.Classes.Add(ex.Class.Index, w)
		for i, cont := range dc.Attributes {
			cont.Add(ex.Values[i], ex.Class.Index, w)
		}
	}

	return dc, nil
}
