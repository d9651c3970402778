package models

import (
	"fmt"
	"log/slog"

	"bayesclassifier/internal/data"
	"bayesclassifier/internal/distribution"
	"bayesclassifier/internal/estimate"
	"bayesclassifier/internal/evaluation"
)

// Evidence is one attribute's conditional knowledge: an exact contingency
// table or a fitted estimator, never both. Both nil means the attribute
// contributed nothing usable at fit time and is skipped at classify time.
type Evidence struct {
	Contingency *distribution.Contingency
	Estimator   estimate.ConditionalEstimator
}

type BayesLearner struct {
	BaseModel
	EstimatorConstructor                      estimate.EstimatorConstructor
	ConditionalEstimatorConstructor           estimate.ConditionalEstimatorConstructor
	ConditionalEstimatorConstructorContinuous estimate.ConditionalEstimatorConstructor
	NormalizePredictions                      bool
	AdjustThreshold                           bool
	Logger                                    *slog.Logger
}

func NewBayesLearner() *BayesLearner {
	return &BayesLearner{
		NormalizePredictions: true,
		BaseModel: BaseModel{
			Name: "NaiveBayes",
			Params: map[string]any{
				"normalize_predictions": true,
				"adjust_threshold":      false,
			},
		},
	}
}

func (l *BayesLearner) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func (l *BayesLearner) Fit(stream data.Stream, weightID int) (Classifier, error) {
	cls, err := l.FitBayes(stream, weightID)
	if err != nil {
		return nil, err
	}
	return cls, nil
}

func (l *BayesLearner) FitBayes(stream data.Stream, weightID int) (*BayesClassifier, error) {
	domain := stream.Domain()
	if domain.Class == nil {
		return nil, fmt.Errorf("class-less domain")
	}
	if domain.Class.Type != data.Discrete {
		return nil, fmt.Errorf("discrete class attribute expected")
	}

	estConst := l.EstimatorConstructor
	if estConst == nil {
		estConst = estimate.RelativeFrequency{}
	}
	condConst := l.ConditionalEstimatorConstructor
	if condConst == nil {
		condConst = estimate.ByRows{Inner: estConst}
	}
	condConstCont := l.ConditionalEstimatorConstructorContinuous
	if condConstCont == nil {
		condConstCont = estimate.Loess{}
	}

	stats, err := distribution.NewDomainContingency(stream, weightID)
	if err != nil {
		return nil, err
	}

	estimator, err := estConst.Construct(stats.Classes)
	if err != nil {
		return nil, fmt.Errorf("unconditional estimator: %w", err)
	}
	apriori := estimator.Distribution()
	if apriori != nil {
		// The whole distribution was extracted; the estimator is spent.
		estimator = nil
	}

	cls := &BayesClassifier{
		BaseModel: BaseModel{
			Name:   l.Name,
			Params: l.Params,
		},
		Domain:               domain,
		Apriori:              apriori,
		Estimator:            estimator,
		Evidence:             make([]Evidence, len(domain.Attributes)),
		NormalizePredictions: l.NormalizePredictions,
		Threshold:            0.5,
	}

	haveContingencies := false
	haveEstimators := false
	for i, attr := range domain.Attributes {
		constructor := condConst
		if attr.Type == data.Continuous {
			constructor = condConstCont
		}
		condEst, err := constructor.Construct(stats.Attributes[i], stats.Classes)
		if err != nil {
			l.logger().Debug("conditional estimator failed, attribute skipped",
				"attribute", attr.Name, "error", err)
			continue
		}
		if cont := condEst.Contingency(); cont != nil {
			cls.Evidence[i].Contingency = cont
			haveContingencies = true
		} else {
			cls.Evidence[i].Estimator = condEst
			haveEstimators = true
		}
	}

	if !haveContingencies && !haveEstimators {
		cls.warn(l.logger(), "invalid conditional probability or no attributes (the classifier will use apriori probabilities)")
	}

	if l.AdjustThreshold {
		if domain.Class.NumValues() != 2 {
			cls.warn(l.logger(), "threshold can only be optimized for binary classes")
		} else {
			threshold, _, err := evaluation.OptimizeThreshold(cls.ClassDistribution, stream, weightID)
			if err != nil {
				return nil, fmt.Errorf("threshold optimization: %w", err)
			}
			cls.Threshold = threshold
		}
	}

	return cls, nil
}

// BayesClassifier is immutable once the learner returns it; all methods
// operate on private clones of its distributions.
type BayesClassifier struct {
	BaseModel
	Domain               *data.Domain
	Apriori              *distribution.Distribution
	Estimator            estimate.Estimator
	Evidence             []Evidence
	NormalizePredictions bool
	Threshold            float64
	FitWarnings          []string
}

func (c *BayesClassifier) warn(logger *slog.Logger, msg string) {
	logger.Warn(msg, "model", c.Name)
	c.FitWarnings = append(c.FitWarnings, msg)
}

func (c *BayesClassifier) Warnings() []string {
	return c.FitWarnings
}

func (c *BayesClassifier) GetDomain() *data.Domain {
	return c.Domain
}

func (c *BayesClassifier) ClassDistribution(ex *data.Example) (*distribution.Distribution, error) {
	if c.Apriori == nil {
		return nil, fmt.Errorf("cannot return distribution of classes (wrong type of probability estimator)")
	}
	if len(ex.Values) != len(c.Domain.Attributes) {
		return nil, fmt.Errorf("example has %d attributes, domain has %d", len(ex.Values), len(c.Domain.Attributes))
	}

	result := c.Apriori.Clone()
	result.Normalize()

	for i := range c.Evidence {
		val := ex.Values[i]
		if val.IsMissing() {
			continue
		}
		ev := &c.Evidence[i]

		var cond *distribution.Distribution
		switch {
		case ev.Contingency != nil:
			cond = ev.Contingency.Row(val)
		case ev.Estimator != nil:
			cond = ev.Estimator.Distribution(val)
			if cond == nil {
				// Assemble an ad hoc distribution class value by class value.
				cond = distribution.New(c.Apriori.Len())
				for cv := 0; cv < c.Domain.Class.NumValues(); cv++ {
					cond.Add(cv, ev.Estimator.Probability(cv, val))
				}
			}
		default:
			continue
		}

		result.Mul(cond)
		result.Div(c.Apriori)
		if c.NormalizePredictions {
			result.Normalize()
		}
	}

	// Overflows occur when P(C|A) far exceeds P(C) across many attributes,
	// e.g. a strong example of a minority class. Saturate instead of
	// propagating infinities.
	if result.Overflowed() {
		result.CollapseOverflow()
	}

	return result, nil
}

func (c *BayesClassifier) Classify(ex *data.Example) (data.Value, error) {
	val, _, err := c.PredictAndDistribution(ex)
	return val, err
}

func (c *BayesClassifier) PredictAndDistribution(ex *data.Example) (data.Value, *distribution.Distribution, error) {
	dist, err := c.ClassDistribution(ex)
	if err != nil {
		return data.Value{}, nil, err
	}
	if c.Domain.Class.NumValues() == 2 {
		if dist.P(1) >= c.Threshold {
			return data.IntValue(1), dist, nil
		}
		return data.IntValue(0), dist, nil
	}
	return data.IntValue(dist.Highest()), dist, nil
}

// Probability computes P(class|example) value by value, without a whole
// distribution. It works even when the unconditional estimator could not
// provide one.
func (c *BayesClassifier) Probability(classIdx int, ex *data.Example) (float64, error) {
	if len(ex.Values) != len(c.Domain.Attributes) {
		return 0, fmt.Errorf("example has %d attributes, domain has %d", len(ex.Values), len(c.Domain.Attributes))
	}

	var prior float64
	if c.Apriori != nil {
		prior = c.Apriori.P(classIdx)
	} else if c.Estimator != nil {
		prior = c.Estimator.Probability(classIdx)
	}
	if prior == 0 {
		return 0.0, nil
	}

	res := prior
	for i := range c.Evidence {
		val := ex.Values[i]
		if val.IsMissing() {
			continue
		}
		ev := &c.Evidence[i]
		switch {
		case ev.Contingency != nil:
			res *= ev.Contingency.Row(val).P(classIdx) / prior
		case ev.Estimator != nil:
			res *= ev.Estimator.Probability(classIdx, val) / prior
		}
	}

	return res, nil
}
