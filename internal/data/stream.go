package data

// Stream is a restartable sequence of examples over one domain. Examples
// returns a fresh cursor each call; Count may require a full pass.
type Stream interface {
	Domain() *Domain
	Examples() Iterator
	Count() int
}

type Iterator interface {
	Next() (*Example, bool)
}

type Table struct {
	domain *Domain
	rows   []*Example
}

func NewTable(domain *Domain) *Table {
	return &Table{domain: domain}
}

// NewTableFrom materializes a stream into an in-memory table. Examples are
// cloned so in-place mutation of the table never aliases the source.
func NewTableFrom(s Stream) *Table {
	t := NewTable(s.Domain())
	it := s.Examples()
	for ex, ok := it.Next(); ok; ex, ok = it.Next() {
		t.rows = append(t.rows, ex.Clone())
	}
	return t
}

func (t *Table) Domain() *Domain {
	return t.domain
}

func (t *Table) Append(e *Example) {
	t.rows = append(t.rows, e)
}

func (t *Table) Rows() []*Example {
	return t.rows
}

func (t *Table) Count() int {
	return len(t.rows)
}

func (t *Table) Examples() Iterator {
	return &tableIterator{table: t}
}

type tableIterator struct {
	table *Table
	pos   int
}

func (it *tableIterator) Next() (*Example, bool) {
	if it.pos >= len(it.table.rows) {
		return nil, false
	}
	ex := it.table.rows[it.pos]
	it.pos++
	return ex, true
}

// CopyMeta fills the dst meta slot of every row from the src slot, writing
// def where the source slot is absent. Src id 0 copies the implicit unit
// weight.
func (t *Table) CopyMeta(dst, src int, def Value) {
	for _, ex := range t.rows {
		if src == 0 {
			ex.SetWeight(dst, 1.0)
			continue
		}
		if v, ok := ex.Meta[src]; ok {
			ex.SetMeta(dst, v)
		} else {
			ex.SetMeta(dst, def)
		}
	}
}

// RemoveDuplicates folds rows with equal attribute and class values into the
// first occurrence, summing their weights under weightID.
func (t *Table) RemoveDuplicates(weightID int) {
	kept := make([]*Example, 0, len(t.rows))
	for _, ex := range t.rows {
		merged := false
		for _, rep := range kept {
			if rep.Equal(ex) {
				rep.SetWeight(weightID, Weight(rep, weightID)+Weight(ex, weightID))
				merged = true
				break
			}
		}
		if !merged {
			kept = append(kept, ex)
		}
	}
	t.rows = kept
}
