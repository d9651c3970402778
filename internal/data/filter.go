package data

type Filter interface {
	Accepts(*Example) bool
}

// FilterFunc adapts a plain predicate to the Filter interface.
type FilterFunc func(*Example) bool

func (f FilterFunc) Accepts(e *Example) bool {
	return f(e)
}

// HasMissingValue accepts examples with at least one missing attribute value.
// Negate flips the decision.
type HasMissingValue struct {
	Negate bool
}

func (f HasMissingValue) Accepts(e *Example) bool {
	has := false
	for _, v := range e.Values {
		if v.IsMissing() {
			has = true
			break
		}
	}
	return has != f.Negate
}

// HasMissingClass accepts examples whose class value is missing. Negate flips
// the decision.
type HasMissingClass struct {
	Negate bool
}

func (f HasMissingClass) Accepts(e *Example) bool {
	return e.Class.IsMissing() != f.Negate
}
