package preprocessing

import (
	"fmt"

	"bayesclassifier/internal/data"
)

// Preprocessor transforms a weighted example stream into a new stream and
// weight id. Preprocessors compose in sequence; each stage materializes its
// result so later in-place mutation never aliases the source.
type Preprocessor interface {
	Apply(stream data.Stream, weightID int) (data.Stream, int, error)
}

func filterExamples(f data.Filter, stream data.Stream) *data.Table {
	return data.NewTableFrom(data.NewFilterStream(stream, f))
}

// Filter keeps the examples accepted by an arbitrary filter.
type Filter struct {
	F data.Filter
}

func (p Filter) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	if p.F == nil {
		return nil, 0, fmt.Errorf("'filter' not set")
	}
	return filterExamples(p.F, stream), weightID, nil
}

// SkipMissing drops examples with any missing attribute value.
type SkipMissing struct{}

func (SkipMissing) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	return filterExamples(data.HasMissingValue{Negate: true}, stream), weightID, nil
}

// OnlyMissing keeps only examples with at least one missing attribute value.
type OnlyMissing struct{}

func (OnlyMissing) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	return filterExamples(data.HasMissingValue{}, stream), weightID, nil
}

// SkipMissingClasses drops examples with a missing class value.
type SkipMissingClasses struct{}

func (SkipMissingClasses) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	return filterExamples(data.HasMissingClass{Negate: true}, stream), weightID, nil
}

// OnlyMissingClasses keeps only examples with a missing class value.
type OnlyMissingClasses struct{}

func (OnlyMissingClasses) Apply(stream data.Stream, weightID int) (data.Stream, int, error) {
	return filterExamples(data.HasMissingClass{}, stream), weightID, nil
}

// Chain applies preprocessors in order, threading the weight id through.
func Chain(stream data.Stream, weightID int, preprocessors ...Preprocessor) (data.Stream, int, error) {
	var err error
	for _, p := range preprocessors {
		stream, weightID, err = p.Apply(stream, weightID)
		if err != nil {
			return nil, 0, err
		}
	}
	return stream, weightID, nil
}
