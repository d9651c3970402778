package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"bayesclassifier/internal/data"
	"bayesclassifier/internal/estimate"
	"bayesclassifier/internal/evaluation"
	"bayesclassifier/internal/experiment"
	"bayesclassifier/internal/models"
	"bayesclassifier/internal/persistence"
	"bayesclassifier/internal/preprocessing"
)

func main() {
	dataFile := flag.String("data", "", "Path to training data CSV file")
	configFile := flag.String("config", "config/experiments.yaml", "Path to experiment configuration file")
	outputDir := flag.String("output", "models", "Output directory for trained models")
	estimatorName := flag.String("estimator", "relative", "Probability estimator (relative|laplace|m)")
	mValue := flag.Float64("m", 2.0, "M parameter for the m-estimate")
	adjustThreshold := flag.Bool("adjust-threshold", false, "Calibrate decision threshold on binary classes")
	noNormalize := flag.Bool("no-normalize", false, "Skip renormalizing predicted distributions")
	noiseLevel := flag.Float64("noise", 0.0, "Attribute noise rate applied before training")
	missingLevel := flag.Float64("missing", 0.0, "Missing value rate applied before training")
	dedup := flag.Bool("dedup", false, "Merge duplicate examples into weights before training")
	equalize := flag.Bool("equalize", false, "Reweight examples so classes carry equal mass")
	seed := flag.Int64("seed", 0, "Random seed for preprocessing")
	runExperiments := flag.Bool("experiment", false, "Run full experiment sweep with config")

	flag.Parse()

	if *dataFile == "" {
		fmt.Println("Usage:")
		fmt.Println("  Simple training: go run cmd/train/main.go -data data/train/voting.csv -estimator laplace")
		fmt.Println("  Full experiment: go run cmd/train/main.go -experiment -config config/experiments.yaml -data data/train/voting.csv")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *runExperiments {
		runExperiment(*configFile, *dataFile, *outputDir)
		return
	}

	runSingleTraining(singleConfig{
		dataFile:        *dataFile,
		outputDir:       *outputDir,
		estimator:       *estimatorName,
		m:               *mValue,
		adjustThreshold: *adjustThreshold,
		noNormalize:     *noNormalize,
		noiseLevel:      *noiseLevel,
		missingLevel:    *missingLevel,
		dedup:           *dedup,
		equalize:        *equalize,
		seed:            *seed,
	})
}

func runExperiment(configFile, dataFile, outputDir string) {
	fmt.Println("Running full experiment...")

	runner, err := experiment.NewRunner(configFile)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	results, err := runner.RunAllExperiments(dataFile)
	if err != nil {
		log.Fatalf("Experiment failed: %v", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	expDir := filepath.Join(outputDir, fmt.Sprintf("experiment_%s", timestamp))
	os.MkdirAll(expDir, 0755)

	resultsFile := filepath.Join(expDir, "experiment_results.csv")
	if err := runner.ExportResults(results, resultsFile); err != nil {
		log.Printf("Failed to export results: %v", err)
	} else {
		fmt.Printf("Experiment results saved to: %s\n", resultsFile)
	}

	fmt.Printf("\nExperiment Summary:\n")
	fmt.Printf("Total experiments: %d\n", len(results))

	if len(results) > 0 {
		best := results[0]
		for _, result := range results[1:] {
			if result.Accuracy > best.Accuracy {
				best = result
			}
		}
		fmt.Printf("Best accuracy: %.4f (%s estimator, noise=%.2f, equalized=%t)\n",
			best.Accuracy, best.Estimator, best.NoiseLevel, best.Equalized)
	}
}

type singleConfig struct {
	dataFile        string
	outputDir       string
	estimator       string
	m               float64
	adjustThreshold bool
	noNormalize     bool
	noiseLevel      float64
	missingLevel    float64
	dedup           bool
	equalize        bool
	seed            int64
}

func runSingleTraining(cfg singleConfig) {
	fmt.Printf("Training naive Bayes model on %s...\n", cfg.dataFile)

	fmt.Println("Loading dataset...")
	table, err := data.NewCSVReader(cfg.dataFile).Load()
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}
	fmt.Printf("Loaded %d examples, %d attributes\n",
		table.Count(), len(table.Domain().Attributes))

	var chain []preprocessing.Preprocessor
	if cfg.dedup {
		chain = append(chain, preprocessing.RemoveDuplicates{})
	}
	if cfg.noiseLevel > 0 {
		chain = append(chain, preprocessing.Noise{
			DefaultNoise: cfg.noiseLevel,
			Rand:         data.NewRandom(cfg.seed),
		})
	}
	if cfg.missingLevel > 0 {
		chain = append(chain, preprocessing.MissingValues{
			DefaultMissing: cfg.missingLevel,
			Rand:           data.NewRandom(cfg.seed),
		})
	}
	if cfg.equalize {
		chain = append(chain, preprocessing.CostWeight{Equalize: true})
	}

	stream, weightID, err := preprocessing.Chain(data.Stream(table), 0, chain...)
	if err != nil {
		log.Fatalf("Preprocessing failed: %v", err)
	}

	learner := models.NewBayesLearner()
	learner.AdjustThreshold = cfg.adjustThreshold
	learner.NormalizePredictions = !cfg.noNormalize
	switch cfg.estimator {
	case "laplace":
		learner.EstimatorConstructor = estimate.Laplace{}
	case "m":
		learner.EstimatorConstructor = estimate.MEstimate{M: cfg.m}
	case "relative":
		learner.EstimatorConstructor = estimate.RelativeFrequency{}
	default:
		log.Fatalf("Unknown estimator: %s", cfg.estimator)
	}

	startTime := time.Now()
	cls, err := learner.FitBayes(stream, weightID)
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}
	trainingTime := time.Since(startTime)

	for _, warning := range cls.Warnings() {
		fmt.Printf("Warning: %s\n", warning)
	}
	fmt.Printf("Training completed in %v\n", trainingTime)
	fmt.Printf("Decision threshold: %.4f\n", cls.Threshold)

	var yTrue, yPred []int
	it := table.Examples()
	for ex, ok := it.Next(); ok; ex, ok = it.Next() {
		if ex.Class.IsMissing() {
			continue
		}
		pred, err := cls.Classify(ex)
		if err != nil {
			log.Fatalf("Classification failed: %v", err)
		}
		yTrue = append(yTrue, ex.Class.Index)
		yPred = append(yPred, pred.Index)
	}

	metrics := evaluation.CalculateMetrics(yTrue, yPred, table.Domain().Class.NumValues())
	if metrics != nil {
		fmt.Println(metrics.FormatMetrics())
	}

	os.MkdirAll(cfg.outputDir, 0755)
	bundle := persistence.NewModelBundle(cls)
	bundle.Metadata.Dataset = cfg.dataFile
	bundle.Metadata.TrainingTime = trainingTime
	if metrics != nil {
		bundle.Metadata.Accuracy = metrics.Accuracy
	}

	timestamp := time.Now().Format("20060102_150405")
	modelFile := filepath.Join(cfg.outputDir, fmt.Sprintf("bayes_%s.model", timestamp))
	if err := bundle.Save(modelFile); err != nil {
		log.Fatalf("Failed to save model: %v", err)
	}
	fmt.Printf("Model saved to: %s\n", modelFile)

	metaFile := filepath.Join(cfg.outputDir, fmt.Sprintf("bayes_%s.txt", timestamp))
	if err := bundle.SaveMetadata(metaFile); err != nil {
		log.Printf("Failed to save metadata: %v", err)
	}
}
