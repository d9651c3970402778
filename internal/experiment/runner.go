package experiment

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"bayesclassifier/internal/data"
	"bayesclassifier/internal/estimate"
	"bayesclassifier/internal/evaluation"
	"bayesclassifier/internal/models"
	"bayesclassifier/internal/preprocessing"

	"gopkg.in/yaml.v3"
)

type ExperimentRunner struct {
	Config *ExperimentConfig
}

type ExperimentConfig struct {
	Experiment struct {
		Estimators      []string  `yaml:"estimators"`
		MValues         []float64 `yaml:"m_values"`
		AdjustThreshold []bool    `yaml:"adjust_threshold"`
		Loess           struct {
			WindowProportions []float64 `yaml:"window_proportions"`
			NPoints           []int     `yaml:"n_points"`
		} `yaml:"loess"`
		Preprocessing struct {
			NoiseLevels     []float64 `yaml:"noise_levels"`
			MissingLevels   []float64 `yaml:"missing_levels"`
			EqualizeWeights []bool    `yaml:"equalize_weights"`
			Seed            int64     `yaml:"seed"`
		} `yaml:"preprocessing"`
	} `yaml:"experiment"`
}

func NewRunner(configFile string) (*ExperimentRunner, error) {
	config := &ExperimentConfig{}

	if raw, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(raw, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configFile, err)
		}
	}

	exp := &config.Experiment
	if len(exp.Estimators) == 0 {
		exp.Estimators = []string{"relative"}
	}
	if len(exp.AdjustThreshold) == 0 {
		exp.AdjustThreshold = []bool{false}
	}
	if len(exp.Preprocessing.NoiseLevels) == 0 {
		exp.Preprocessing.NoiseLevels = []float64{0.0}
	}
	if len(exp.Preprocessing.MissingLevels) == 0 {
		exp.Preprocessing.MissingLevels = []float64{0.0}
	}
	if len(exp.Preprocessing.EqualizeWeights) == 0 {
		exp.Preprocessing.EqualizeWeights = []bool{false}
	}

	return &ExperimentRunner{Config: config}, nil
}

type ExperimentResult struct {
	Dataset         string
	Estimator       string
	NoiseLevel      float64
	MissingLevel    float64
	Equalized       bool
	AdjustThreshold bool
	Threshold       float64
	Accuracy        float64
	MacroF1         float64
	TrainingTimeMs  int64
}

func (r *ExperimentRunner) RunAllExperiments(dataFile string) ([]ExperimentResult, error) {
	table, err := data.NewCSVReader(dataFile).Load()
	if err != nil {
		return nil, err
	}

	exp := &r.Config.Experiment
	var results []ExperimentResult

	for _, estimatorName := range exp.Estimators {
		for _, noise := range exp.Preprocessing.NoiseLevels {
			for _, missing := range exp.Preprocessing.MissingLevels {
				for _, equalize := range exp.Preprocessing.EqualizeWeights {
					for _, adjust := range exp.AdjustThreshold {
						result, err := r.runOne(table, dataFile, estimatorName, noise, missing, equalize, adjust)
						if err != nil {
							return nil, err
						}
						results = append(results, result)
					}
				}
			}
		}
	}

	return results, nil
}

func (r *ExperimentRunner) runOne(table *data.Table, dataFile, estimatorName string, noise, missing float64, equalize, adjust bool) (ExperimentResult, error) {
	result := ExperimentResult{
		Dataset:         dataFile,
		Estimator:       estimatorName,
		NoiseLevel:      noise,
		MissingLevel:    missing,
		Equalized:       equalize,
		AdjustThreshold: adjust,
	}

	var chain []preprocessing.Preprocessor
	seed := r.Config.Experiment.Preprocessing.Seed
	if noise > 0 {
		chain = append(chain, preprocessing.Noise{DefaultNoise: noise, Rand: data.NewRandom(seed)})
	}
	if missing > 0 {
		chain = append(chain, preprocessing.MissingValues{DefaultMissing: missing, Rand: data.NewRandom(seed)})
	}
	if equalize {
		chain = append(chain, preprocessing.CostWeight{Equalize: true})
	}

	stream, weightID, err := preprocessing.Chain(data.Stream(table), 0, chain...)
	if err != nil {
		return result, err
	}

	learner := models.NewBayesLearner()
	learner.AdjustThreshold = adjust
	switch estimatorName {
	case "laplace":
		learner.EstimatorConstructor = estimate.Laplace{}
	case "m":
		m := 2.0
		if len(r.Config.Experiment.MValues) > 0 {
			m = r.Config.Experiment.MValues[0]
		}
		learner.EstimatorConstructor = estimate.MEstimate{M: m}
	}
	if len(r.Config.Experiment.Loess.WindowProportions) > 0 {
		learner.ConditionalEstimatorConstructorContinuous = estimate.Loess{
			WindowProportion: r.Config.Experiment.Loess.WindowProportions[0],
			NPoints:          firstOrZero(r.Config.Experiment.Loess.NPoints),
		}
	}

	startTime := time.Now()
	cls, err := learner.FitBayes(stream, weightID)
	if err != nil {
		return result, err
	}
	result.TrainingTimeMs = time.Since(startTime).Milliseconds()
	result.Threshold = cls.Threshold

	yTrue, yPred, err := collectPredictions(cls, table)
	if err != nil {
		return result, err
	}
	metrics := evaluation.CalculateMetrics(yTrue, yPred, table.Domain().Class.NumValues())
	if metrics != nil {
		result.Accuracy = metrics.Accuracy
		result.MacroF1 = metrics.MacroF1
	}

	return result, nil
}

func firstOrZero(values []int) int {
	if len(values) > 0 {
		return values[0]
	}
	return 0
}

func collectPredictions(cls *models.BayesClassifier, stream data.Stream) ([]int, []int, error) {
	var yTrue, yPred []int
	it := stream.Examples()
	for ex, ok := it.Next(); ok; ex, ok = it.Next() {
		if ex.Class.IsMissing() {
			continue
		}
		pred, err := cls.Classify(ex)
		if err != nil {
			return nil, nil, err
		}
		yTrue = append(yTrue, ex.Class.Index)
		yPred = append(yPred, pred.Index)
	}
	return yTrue, yPred, nil
}

func (r *ExperimentRunner) ExportResults(results []ExperimentResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{
		"Dataset", "Estimator", "NoiseLevel", "MissingLevel", "Equalized",
		"AdjustThreshold", "Threshold", "Accuracy", "MacroF1", "TrainingTimeMs",
	})

	for _, result := range results {
		writer.Write([]string{
			result.Dataset,
			result.Estimator,
			fmt.Sprintf("%.2f", result.NoiseLevel),
			fmt.Sprintf("%.2f", result.MissingLevel),
			fmt.Sprintf("%t", result.Equalized),
			fmt.Sprintf("%t", result.AdjustThreshold),
			fmt.Sprintf("%.4f", result.Threshold),
			fmt.Sprintf("%.4f", result.Accuracy),
			fmt.Sprintf("%.4f", result.MacroF1),
			fmt.Sprintf("%d", result.TrainingTimeMs),
		})
	}

	return nil
}
