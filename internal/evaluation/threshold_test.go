package evaluation

import (
	"math"
	"testing"

	"bayesclassifier/internal/data"
	"bayesclassifier/internal/distribution"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// scoredTable builds binary-class examples whose single attribute carries the
// score the predict function will report for class 1.
func scoredTable(scores []float64, classes []int) *data.Table {
	domain := data.NewDomain(
		[]*data.Variable{data.NewContinuousVariable("score")},
		data.NewDiscreteVariable("class", []string{"neg", "pos"}),
	)
	table := data.NewTable(domain)
	for i, s := range scores {
		ex := data.NewExample(domain)
		ex.Values[0] = data.FloatValue(s)
		ex.Class = data.IntValue(classes[i])
		table.Append(ex)
	}
	return table
}

func scorePredict(ex *data.Example) (*distribution.Distribution, error) {
	p := ex.Values[0].Float()
	return distribution.FromProbs([]float64{1 - p, p}), nil
}

func TestOptimizeThresholdSeparable(t *testing.T) {
	table := scoredTable(
		[]float64{0.1, 0.2, 0.8, 0.9},
		[]int{0, 0, 1, 1},
	)

	threshold, accuracy, err := OptimizeThreshold(scorePredict, table, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(threshold, 0.5) {
		t.Fatalf("threshold = %v, want 0.5", threshold)
	}
	if !almostEqual(accuracy, 1.0) {
		t.Fatalf("accuracy = %v, want 1", accuracy)
	}
}

func TestOptimizeThresholdWeighted(t *testing.T) {
	table := scoredTable(
		[]float64{0.3, 0.6},
		[]int{1, 0},
	)
	// The heavy positive at 0.3 dominates: predicting class 1 everywhere
	// beats any cutoff above it.
	id := data.NewMetaID()
	table.Rows()[0].SetWeight(id, 10.0)

	threshold, accuracy, err := OptimizeThreshold(scorePredict, table, id)
	if err != nil {
		t.Fatal(err)
	}
	if threshold != 0.0 {
		t.Fatalf("threshold = %v, want 0", threshold)
	}
	if !almostEqual(accuracy, 10.0/11.0) {
		t.Fatalf("accuracy = %v, want 10/11", accuracy)
	}
}

func TestOptimizeThresholdSkipsMissingClasses(t *testing.T) {
	table := scoredTable(
		[]float64{0.2, 0.8, 0.5},
		[]int{0, 1, 0},
	)
	table.Rows()[2].Class = data.MissingValue(data.Discrete, data.DontKnow)

	threshold, accuracy, err := OptimizeThreshold(scorePredict, table, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(threshold, 0.5) || !almostEqual(accuracy, 1.0) {
		t.Fatalf("threshold/accuracy = %v/%v, want 0.5/1", threshold, accuracy)
	}
}

func TestOptimizeThresholdEmptyStream(t *testing.T) {
	table := scoredTable(nil, nil)
	threshold, _, err := OptimizeThreshold(scorePredict, table, 0)
	if err != nil {
		t.Fatal(err)
	}
	if threshold != 0.5 {
		t.Fatalf("empty stream threshold = %v, want 0.5", threshold)
	}
}

func TestOptimizeThresholdRejectsNonBinary(t *testing.T) {
	domain := data.NewDomain(
		[]*data.Variable{data.NewContinuousVariable("score")},
		data.NewDiscreteVariable("class", []string{"r", "g", "b"}),
	)
	table := data.NewTable(domain)
	if _, _, err := OptimizeThreshold(scorePredict, table, 0); err == nil {
		t.Fatal("expected an error for a non-binary class")
	}
}
