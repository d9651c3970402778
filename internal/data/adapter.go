package data

// FilterStream wraps a stream and yields only the examples its filter
// accepts, optionally restricted to the underlying positions [First, Last).
// Last < 0 means the end of the source.
type FilterStream struct {
	Source Stream
	Filter Filter
	First  int
	Last   int
}

func NewFilterStream(source Stream, filter Filter) *FilterStream {
	return &FilterStream{Source: source, Filter: filter, Last: -1}
}

func (fs *FilterStream) Domain() *Domain {
	return fs.Source.Domain()
}

func (fs *FilterStream) Examples() Iterator {
	it := fs.Source.Examples()
	pos := 0
	for pos < fs.First {
		if _, ok := it.Next(); !ok {
			break
		}
		pos++
	}
	return &filterIterator{stream: fs, src: it, pos: pos}
}

func (fs *FilterStream) Count() int {
	n := 0
	it := fs.Examples()
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		n++
	}
	return n
}

type filterIterator struct {
	stream *FilterStream
	src    Iterator
	pos    int
}

func (it *filterIterator) Next() (*Example, bool) {
	for {
		if it.stream.Last >= 0 && it.pos >= it.stream.Last {
			return nil, false
		}
		ex, ok := it.src.Next()
		if !ok {
			return nil, false
		}
		it.pos++
		if it.stream.Filter == nil || it.stream.Filter.Accepts(ex) {
			return ex, true
		}
	}
}

// ChangeStream wraps a stream and applies Change to every pulled example,
// exactly one pull per step. The example handed to Change is a private clone,
// so Change may mutate it freely. Changes driven by a shared random generator
// are deterministic given the seed but not reentrant across concurrent
// cursors.
type ChangeStream struct {
	Source Stream
	Change func(*Example) *Example
}

func NewChangeStream(source Stream, change func(*Example) *Example) *ChangeStream {
	return &ChangeStream{Source: source, Change: change}
}

func (cs *ChangeStream) Domain() *Domain {
	return cs.Source.Domain()
}

func (cs *ChangeStream) Examples() Iterator {
	return &changeIterator{stream: cs, src: cs.Source.Examples()}
}

func (cs *ChangeStream) Count() int {
	return cs.Source.Count()
}

type changeIterator struct {
	stream *ChangeStream
	src    Iterator
}

func (it *changeIterator) Next() (*Example, bool) {
	ex, ok := it.src.Next()
	if !ok {
		return nil, false
	}
	clone := ex.Clone()
	if it.stream.Change != nil {
		clone = it.stream.Change(clone)
	}
	return clone, true
}
