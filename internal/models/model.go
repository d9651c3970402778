package models

import (
	"bayesclassifier/internal/data"
	"bayesclassifier/internal/distribution"
)

type Learner interface {
	Fit(stream data.Stream, weightID int) (Classifier, error)
	GetName() string
	GetParams() map[string]any
}

type Classifier interface {
	Classify(ex *data.Example) (data.Value, error)
	ClassDistribution(ex *data.Example) (*distribution.Distribution, error)
	PredictAndDistribution(ex *data.Example) (data.Value, *distribution.Distribution, error)
	Probability(classIdx int, ex *data.Example) (float64, error)
	GetDomain() *data.Domain
	GetName() string
}

type BaseModel struct {
	Name   string
	Params map[string]any
}

func (bm *BaseModel) GetName() string {
	return bm.Name
}

func (bm *BaseModel) GetParams() map[string]any {
	return bm.Params
}
