package estimate

import (
	"testing"

	"bayesclassifier/internal/data"
	"bayesclassifier/internal/distribution"
)

func discreteContingency() *distribution.Contingency {
	attr := data.NewDiscreteVariable("a", []string{"x", "y"})
	c := distribution.NewContingency(attr, 2)
	c.Add(data.IntValue(0), 0, 3.0)
	c.Add(data.IntValue(0), 1, 1.0)
	c.Add(data.IntValue(1), 1, 2.0)
	return c
}

func TestByRowsEstimatesEachRow(t *testing.T) {
	est, err := ByRows{Inner: RelativeFrequency{}}.Construct(discreteContingency(), nil)
	if err != nil {
		t.Fatal(err)
	}

	cont := est.Contingency()
	if cont == nil {
		t.Fatal("by-rows estimation must reduce to an exact table")
	}

	row := cont.Row(data.IntValue(0))
	if !almostEqual(row.P(0), 0.75) || !almostEqual(row.P(1), 0.25) {
		t.Fatalf("row x = %v, want [0.75 0.25]", row.Probs)
	}
	if !almostEqual(est.Probability(1, data.IntValue(1)), 1.0) {
		t.Fatalf("P(1|y) = %v, want 1", est.Probability(1, data.IntValue(1)))
	}
}

func TestByRowsDefaultsToRelativeFrequency(t *testing.T) {
	est, err := ByRows{}.Construct(discreteContingency(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(est.Probability(0, data.IntValue(0)), 0.75) {
		t.Fatal("nil inner constructor must default to relative frequencies")
	}
}

func TestByRowsLaplaceSmoothsEmptyRow(t *testing.T) {
	attr := data.NewDiscreteVariable("a", []string{"x", "y"})
	c := distribution.NewContingency(attr, 2)
	c.Add(data.IntValue(0), 0, 1.0)

	est, err := ByRows{Inner: Laplace{}}.Construct(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	row := est.Contingency().Row(data.IntValue(1))
	if !almostEqual(row.P(0), 0.5) || !almostEqual(row.P(1), 0.5) {
		t.Fatalf("empty row = %v, want uniform", row.Probs)
	}
}

func TestByRowsRejectsContinuous(t *testing.T) {
	cont := distribution.NewContingency(data.NewContinuousVariable("x"), 2)
	if _, err := (ByRows{}).Construct(cont, nil); err == nil {
		t.Fatal("expected an error for a continuous attribute")
	}
}

func TestTableEstimatorMissingValue(t *testing.T) {
	est, err := ByRows{}.Construct(discreteContingency(), nil)
	if err != nil {
		t.Fatal(err)
	}
	missing := data.MissingValue(data.Discrete, data.DontKnow)
	if est.Distribution(missing) != nil {
		t.Fatal("missing value must have no distribution")
	}
	if est.Probability(0, missing) != 0 {
		t.Fatal("missing value must have zero probability")
	}
}
