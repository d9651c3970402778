package evaluation

import (
	"fmt"
	"math"
)

type ClassificationMetrics struct {
	Accuracy        float64              `json:"accuracy"`
	MacroPrecision  float64              `json:"macro_precision"`
	MacroRecall     float64              `json:"macro_recall"`
	MacroF1         float64              `json:"macro_f1"`
	PerClassMetrics map[int]ClassMetrics `json:"per_class_metrics"`
	ConfusionMatrix [][]int              `json:"confusion_matrix"`
	ClassSupport    map[int]int          `json:"class_support"`
	NumSamples      int                  `json:"num_samples"`
	NumClasses      int                  `json:"num_classes"`
}

type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
	Support   int     `json:"support"`
}

func CalculateMetrics(yTrue, yPred []int, numClasses int) *ClassificationMetrics {
	if len(yTrue) != len(yPred) || len(yTrue) == 0 {
		return nil
	}

	numSamples := len(yTrue)
	confusionMatrix := buildConfusionMatrix(yTrue, yPred, numClasses)

	classSupport := make(map[int]int)
	for _, class := range yTrue {
		classSupport[class]++
	}

	perClassMetrics := make(map[int]ClassMetrics)
	var macroPrec, macroRec, macroF1 float64

	for i := 0; i < numClasses; i++ {
		tp := confusionMatrix[i][i]
		fp := 0
		fn := 0
		for j := 0; j < numClasses; j++ {
			if j != i {
				fp += confusionMatrix[j][i]
				fn += confusionMatrix[i][j]
			}
		}

		precision := safeDivide(float64(tp), float64(tp+fp))
		recall := safeDivide(float64(tp), float64(tp+fn))
		f1 := safeDivide(2*precision*recall, precision+recall)

		perClassMetrics[i] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1Score:   f1,
			Support:   classSupport[i],
		}

		macroPrec += precision
		macroRec += recall
		macroF1 += f1
	}

	macroPrec /= float64(numClasses)
	macroRec /= float64(numClasses)
	macroF1 /= float64(numClasses)

	correct := 0
	for i, pred := range yPred {
		if pred == yTrue[i] {
			correct++
		}
	}

	return &ClassificationMetrics{
		Accuracy:        float64(correct) / float64(numSamples),
		MacroPrecision:  macroPrec,
		MacroRecall:     macroRec,
		MacroF1:         macroF1,
		PerClassMetrics: perClassMetrics,
		ConfusionMatrix: confusionMatrix,
		ClassSupport:    classSupport,
		NumSamples:      numSamples,
		NumClasses:      numClasses,
	}
}

func buildConfusionMatrix(yTrue, yPred []int, numClasses int) [][]int {
	matrix := make([][]int, numClasses)
	for i := range matrix {
		matrix[i] = make([]int, numClasses)
	}
	for i := range yTrue {
		if yTrue[i] >= 0 && yTrue[i] < numClasses && yPred[i] >= 0 && yPred[i] < numClasses {
			matrix[yTrue[i]][yPred[i]]++
		}
	}
	return matrix
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0.0
	}
	result := numerator / denominator
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0.0
	}
	return result
}

func (m *ClassificationMetrics) FormatMetrics() string {
	result := fmt.Sprintf("Accuracy: %.4f\n", m.Accuracy)
	result += fmt.Sprintf("Macro Avg - Precision: %.4f, Recall: %.4f, F1: %.4f\n",
		m.MacroPrecision, m.MacroRecall, m.MacroF1)
	return result
}
