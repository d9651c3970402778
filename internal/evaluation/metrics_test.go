package evaluation

import (
	"strings"
	"testing"
)

func TestCalculateMetricsPerfect(t *testing.T) {
	m := CalculateMetrics([]int{0, 1, 0, 1}, []int{0, 1, 0, 1}, 2)
	if m == nil {
		t.Fatal("expected metrics")
	}
	if m.Accuracy != 1.0 {
		t.Fatalf("accuracy = %v, want 1", m.Accuracy)
	}
	if m.MacroF1 != 1.0 {
		t.Fatalf("macro F1 = %v, want 1", m.MacroF1)
	}
}

func TestCalculateMetricsConfusion(t *testing.T) {
	yTrue := []int{0, 0, 1, 1}
	yPred := []int{0, 1, 1, 1}

	m := CalculateMetrics(yTrue, yPred, 2)
	if !almostEqual(m.Accuracy, 0.75) {
		t.Fatalf("accuracy = %v, want 0.75", m.Accuracy)
	}
	if m.ConfusionMatrix[0][1] != 1 {
		t.Fatalf("confusion[0][1] = %d, want 1", m.ConfusionMatrix[0][1])
	}
	if m.ClassSupport[0] != 2 || m.ClassSupport[1] != 2 {
		t.Fatalf("support = %v", m.ClassSupport)
	}

	// Class 1: precision 2/3, recall 1.
	pc := m.PerClassMetrics[1]
	if !almostEqual(pc.Precision, 2.0/3.0) || !almostEqual(pc.Recall, 1.0) {
		t.Fatalf("class 1 precision/recall = %v/%v", pc.Precision, pc.Recall)
	}
}

func TestCalculateMetricsDegenerateInput(t *testing.T) {
	if CalculateMetrics(nil, nil, 2) != nil {
		t.Fatal("empty input must yield nil")
	}
	if CalculateMetrics([]int{0}, []int{0, 1}, 2) != nil {
		t.Fatal("mismatched lengths must yield nil")
	}
}

func TestFormatMetrics(t *testing.T) {
	m := CalculateMetrics([]int{0, 1}, []int{0, 1}, 2)
	out := m.FormatMetrics()
	if !strings.Contains(out, "Accuracy: 1.0000") {
		t.Fatalf("unexpected format: %q", out)
	}
}
