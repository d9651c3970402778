package commander

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bayesclassifier/internal/data"
	"bayesclassifier/internal/estimate"
	"bayesclassifier/internal/evaluation"
	"bayesclassifier/internal/experiment"
	"bayesclassifier/internal/jobs"
	"bayesclassifier/internal/models"
	"bayesclassifier/internal/persistence"
	"bayesclassifier/internal/preprocessing"

	"github.com/fatih/color"
)

type Commander struct {
	currentModel     *models.BayesClassifier
	modelBundle      *persistence.ModelBundle
	currentModelPath string
	loadedData       *data.Table
	loadedFile       string
	weightID         int
	jobManager       *jobs.Manager

	green  func(a ...any) string
	red    func(a ...any) string
	yellow func(a ...any) string
	cyan   func(a ...any) string
	blue   func(a ...any) string
}

func NewCommander() *Commander {
	return &Commander{
		jobManager: jobs.NewManager(),
		green:      color.New(color.FgGreen).SprintFunc(),
		red:        color.New(color.FgRed).SprintFunc(),
		yellow:     color.New(color.FgYellow).SprintFunc(),
		cyan:       color.New(color.FgCyan).SprintFunc(),
		blue:       color.New(color.FgBlue).SprintFunc(),
	}
}

func (c *Commander) Start() {
	c.printWelcome()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(c.yellow("\nbayes> "))
		if !scanner.Scan() {
			if scanner.Err() != nil {
				fmt.Printf("\n%s Scanner error: %v\n", c.red("✗"), scanner.Err())
			}
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		command := strings.ToLower(parts[0])
		args := parts[1:]

		c.ExecuteCommand(command, args)
	}
}

func (c *Commander) ExecuteCommand(command string, args []string) {
	switch command {
	case "help", "h":
		c.showHelp()
	case "load":
		if len(args) > 0 {
			c.loadData(args[0])
		} else {
			fmt.Println(c.red("Usage: load <filename>"))
		}
	case "info":
		c.showDataInfo()
	case "prep":
		if len(args) > 0 {
			c.applyPreprocessor(args[0], args[1:])
		} else {
			c.showPrepHelp()
		}
	case "train":
		c.trainModel(args)
	case "train-bg":
		c.trainModelBackground(args)
	case "evaluate":
		c.evaluate()
	case "predict":
		c.predict(args)
	case "loadmodel":
		if len(args) > 0 {
			c.loadModel(args[0])
		} else {
			fmt.Println(c.red("Usage: loadmodel <filename>"))
		}
	case "savemodel":
		if len(args) > 0 {
			c.saveModel(args[0])
		} else {
			fmt.Println(c.red("Usage: savemodel <filename>"))
		}
	case "list":
		c.listModels()
	case "current":
		c.showCurrentModel()
	case "experiment":
		configFile := "config/experiments.yaml"
		if len(args) > 0 {
			configFile = args[0]
		}
		c.runExperiment(configFile)
	case "job-status":
		if len(args) > 0 {
			c.showJobStatus(args[0])
		} else {
			c.listAllJobs()
		}
	case "job-logs":
		if len(args) > 0 {
			c.showJobLogs(args[0])
		} else {
			fmt.Println(c.red("Usage: job-logs <job-id>"))
		}
	case "clear":
		c.clearScreen()
	case "quit", "exit", "q":
		c.quit()
	default:
		fmt.Printf("%s Unknown command: %s\n", c.red("✗"), command)
		fmt.Println("Type 'help' for available commands")
	}
}

func (c *Commander) printWelcome() {
	fmt.Println(c.cyan("╔══════════════════════════════════════════╗"))
	fmt.Println(c.cyan("║       Bayes Classifier Commander          ║"))
	fmt.Println(c.cyan("║      Interactive Training Console         ║"))
	fmt.Println(c.cyan("╚══════════════════════════════════════════╝"))
	fmt.Println()
	fmt.Println("Type 'help' for available commands")
}

func (c *Commander) showHelp() {
	fmt.Println(c.blue("\nAvailable Commands:"))

	fmt.Println("\n" + c.cyan("Data Management:"))
	fmt.Println("  load <file>            - Load dataset from CSV")
	fmt.Println("  info                   - Show loaded data information")
	fmt.Println("  prep <name> [params]   - Apply a preprocessor to loaded data")

	fmt.Println("\n" + c.cyan("Model Training:"))
	fmt.Println("  train [params]         - Train a naive Bayes model")
	fmt.Println("                           --estimator=relative|laplace|m")
	fmt.Println("                           --m=<value> --adjust-threshold")
	fmt.Println("  train-bg [params]      - Train in background")
	fmt.Println("  evaluate               - Evaluate current model on loaded data")

	fmt.Println("\n" + c.cyan("Model Management:"))
	fmt.Println("  list                   - List all saved models")
	fmt.Println("  savemodel <file>       - Save current model")
	fmt.Println("  loadmodel <file>       - Load a saved model")
	fmt.Println("  current                - Show current active model info")

	fmt.Println("\n" + c.cyan("Predictions:"))
	fmt.Println("  predict <v1> <v2> ...  - Classify a single example")

	fmt.Println("\n" + c.cyan("Experiments:"))
	fmt.Println("  experiment [config]    - Run experiment sweep from yaml config")

	fmt.Println("\n" + c.cyan("Job Management:"))
	fmt.Println("  job-status [job-id]    - Show job status or list all jobs")
	fmt.Println("  job-logs <job-id>      - View job logs")

	fmt.Println("\n" + c.cyan("System:"))
	fmt.Println("  help                   - Show this help message")
	fmt.Println("  clear                  - Clear screen")
	fmt.Println("  quit                   - Exit program")
}

func (c *Commander) loadData(filename string) {
	startTime := time.Now()
	fmt.Printf("Loading data from %s...\n", filename)

	table, err := data.NewCSVReader(filename).Load()
	if err != nil {
		fmt.Printf("%s Error: %v\n", c.red("✗"), err)
		return
	}

	c.loadedData = table
	c.loadedFile = filename
	c.weightID = 0

	domain := table.Domain()
	fmt.Printf("%s Loaded %d examples in %.2fs\n",
		c.green("✓"), table.Count(), time.Since(startTime).Seconds())
	fmt.Printf("Attributes: %d | Classes: %d\n",
		len(domain.Attributes), domain.Class.NumValues())
}

func (c *Commander) showDataInfo() {
	if c.loadedData == nil {
		fmt.Println(c.red("No data loaded"))
		return
	}

	domain := c.loadedData.Domain()
	fmt.Println(c.blue("\nDataset Information:"))
	fmt.Println(strings.Repeat("─", 40))
	fmt.Printf("Source: %s\n", c.loadedFile)
	fmt.Printf("Examples: %d\n", c.loadedData.Count())
	fmt.Printf("Attributes: %d\n", len(domain.Attributes))
	for _, attr := range domain.Attributes {
		if attr.Type == data.Discrete {
			fmt.Printf("  %-20s discrete %v\n", attr.Name, attr.Values)
		} else {
			fmt.Printf("  %-20s continuous [%s, %s]\n", attr.Name, attr.Min, attr.Max)
		}
	}
	fmt.Printf("Class: %s %v\n", domain.Class.Name, domain.Class.Values)
	if c.weightID != 0 {
		fmt.Printf("Weight meta id: %d\n", c.weightID)
	}
}

func (c *Commander) showPrepHelp() {
	fmt.Println(c.blue("\nPrep Command Usage:"))
	fmt.Println("  prep dedup                  - Merge duplicate examples into weights")
	fmt.Println("  prep noise <p> [seed]       - Replace attribute values at rate p")
	fmt.Println("  prep classnoise <p> [seed]  - Replace class values at rate p")
	fmt.Println("  prep missing <p> [seed]     - Blank attribute values at rate p")
	fmt.Println("  prep skipmissing            - Drop examples with unknown values")
	fmt.Println("  prep equalize               - Reweight so classes carry equal mass")
}

func (c *Commander) applyPreprocessor(name string, params []string) {
	if c.loadedData == nil {
		fmt.Println(c.red("No data loaded. Use 'load <file>' first"))
		return
	}

	prob := 0.0
	seed := int64(0)
	if len(params) > 0 {
		prob, _ = strconv.ParseFloat(params[0], 64)
	}
	if len(params) > 1 {
		seed, _ = strconv.ParseInt(params[1], 10, 64)
	}

	var prep preprocessing.Preprocessor
	switch name {
	case "dedup":
		prep = preprocessing.RemoveDuplicates{}
	case "noise":
		prep = preprocessing.Noise{DefaultNoise: prob, Rand: data.NewRandom(seed)}
	case "classnoise":
		prep = preprocessing.ClassNoise{Prob: prob, Rand: data.NewRandom(seed)}
	case "missing":
		prep = preprocessing.MissingValues{DefaultMissing: prob, Rand: data.NewRandom(seed)}
	case "skipmissing":
		prep = preprocessing.SkipMissing{}
	case "equalize":
		prep = preprocessing.CostWeight{Equalize: true}
	default:
		fmt.Printf("%s Unknown preprocessor: %s\n", c.red("✗"), name)
		c.showPrepHelp()
		return
	}

	stream, weightID, err := prep.Apply(c.loadedData, c.weightID)
	if err != nil {
		fmt.Printf("%s Error: %v\n", c.red("✗"), err)
		return
	}

	before := c.loadedData.Count()
	c.loadedData = data.NewTableFrom(stream)
	c.weightID = weightID
	fmt.Printf("%s Applied %s: %d -> %d examples\n",
		c.green("✓"), name, before, c.loadedData.Count())
}

func (c *Commander) buildLearner(params []string) *models.BayesLearner {
	learner := models.NewBayesLearner()

	for _, param := range params {
		if value, ok := strings.CutPrefix(param, "--estimator="); ok {
			switch value {
			case "laplace":
				learner.EstimatorConstructor = estimate.Laplace{}
			case "m":
				learner.EstimatorConstructor = estimate.MEstimate{M: 2.0}
			case "relative":
				learner.EstimatorConstructor = estimate.RelativeFrequency{}
			default:
				fmt.Printf("%s Unknown estimator %q, using relative frequencies\n",
					c.yellow("!"), value)
			}
		} else if value, ok := strings.CutPrefix(param, "--m="); ok {
			m, err := strconv.ParseFloat(value, 64)
			if err == nil && m > 0 {
				learner.EstimatorConstructor = estimate.MEstimate{M: m}
			}
		} else if param == "--adjust-threshold" {
			learner.AdjustThreshold = true
		} else if param == "--no-normalize" {
			learner.NormalizePredictions = false
		}
	}

	return learner
}

func (c *Commander) trainModel(params []string) {
	if c.loadedData == nil {
		fmt.Println(c.red("No data loaded. Use 'load <file>' first"))
		return
	}

	learner := c.buildLearner(params)
	fmt.Printf("Training %s model...\n", learner.GetName())

	startTime := time.Now()
	cls, err := learner.FitBayes(c.loadedData, c.weightID)
	if err != nil {
		fmt.Printf("%s Training failed: %v\n", c.red("✗"), err)
		return
	}
	elapsed := time.Since(startTime)

	c.currentModel = cls
	c.currentModelPath = ""
	c.modelBundle = nil

	fmt.Printf("%s Training completed in %.3fs\n", c.green("✓"), elapsed.Seconds())
	for _, warning := range cls.Warnings() {
		fmt.Printf("%s %s\n", c.yellow("!"), warning)
	}
	fmt.Printf("Threshold: %.4f\n", cls.Threshold)
	c.evaluate()
}

func (c *Commander) trainModelBackground(params []string) {
	if c.loadedData == nil {
		fmt.Println(c.red("No data loaded. Use 'load <file>' first"))
		return
	}

	table := c.loadedData
	weightID := c.weightID
	learner := c.buildLearner(params)

	job := c.jobManager.CreateJob(c.loadedFile, fmt.Sprintf("train %s", learner.GetName()))
	fmt.Printf("%s Started background training, job id: %s\n", c.green("✓"), job.ID)
	fmt.Println("Use 'job-status " + job.ID + "' to check progress")

	go func() {
		job.SetStatus(jobs.JobRunning)
		job.AddLog("training started")

		cls, err := learner.FitBayes(table, weightID)
		if err != nil {
			job.SetError(err)
			job.AddLog(fmt.Sprintf("training failed: %v", err))
			return
		}

		job.SetResult(cls)
		job.SetStatus(jobs.JobCompleted)
		job.AddLog("training completed")
	}()
}

func (c *Commander) evaluate() {
	if c.currentModel == nil {
		fmt.Println(c.red("No model trained. Use 'train' first"))
		return
	}
	if c.loadedData == nil {
		fmt.Println(c.red("No data loaded. Use 'load <file>' first"))
		return
	}

	var yTrue, yPred []int
	it := c.loadedData.Examples()
	for ex, ok := it.Next(); ok; ex, ok = it.Next() {
		if ex.Class.IsMissing() {
			continue
		}
		pred, err := c.currentModel.Classify(ex)
		if err != nil {
			fmt.Printf("%s Error: %v\n", c.red("✗"), err)
			return
		}
		yTrue = append(yTrue, ex.Class.Index)
		yPred = append(yPred, pred.Index)
	}

	metrics := evaluation.CalculateMetrics(yTrue, yPred, c.currentModel.Domain.Class.NumValues())
	if metrics == nil {
		fmt.Println(c.red("No labelled examples to evaluate"))
		return
	}

	fmt.Println(metrics.FormatMetrics())
}

func (c *Commander) predict(args []string) {
	if c.currentModel == nil {
		fmt.Println(c.red("No model available. Train or load a model first"))
		return
	}

	domain := c.currentModel.Domain
	if len(args) != len(domain.Attributes) {
		fmt.Printf("%s Expected %d values, got %d\n",
			c.red("✗"), len(domain.Attributes), len(args))
		fmt.Printf("Attributes: %v\n", attributeNames(domain))
		return
	}

	ex := data.NewExample(domain)
	for i, raw := range args {
		attr := domain.Attributes[i]
		if raw == "?" {
			ex.Values[i] = data.MissingValue(attr.Type, data.DontKnow)
			continue
		}
		if attr.Type == data.Discrete {
			idx := attr.ValueIndex(raw)
			if idx < 0 {
				fmt.Printf("%s Unknown value %q for attribute %s\n", c.red("✗"), raw, attr.Name)
				return
			}
			ex.Values[i] = data.IntValue(idx)
		} else {
			num, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				fmt.Printf("%s Invalid number %q for attribute %s\n", c.red("✗"), raw, attr.Name)
				return
			}
			ex.Values[i] = data.FloatValue(num)
		}
	}

	pred, dist, err := c.currentModel.PredictAndDistribution(ex)
	if err != nil {
		fmt.Printf("%s Error: %v\n", c.red("✗"), err)
		return
	}

	fmt.Printf("%s Predicted class: %s\n", c.green("✓"),
		domain.Class.Values[pred.Index])
	for i, classValue := range domain.Class.Values {
		fmt.Printf("  P(%s) = %.4f\n", classValue, dist.P(i))
	}
}

func attributeNames(domain *data.Domain) []string {
	names := make([]string, len(domain.Attributes))
	for i, attr := range domain.Attributes {
		names[i] = attr.Name
	}
	return names
}

func (c *Commander) saveModel(filename string) {
	if c.currentModel == nil {
		fmt.Println(c.red("No model trained. Use 'train' first"))
		return
	}

	if !strings.Contains(filename, "/") {
		filename = filepath.Join("models", filename)
	}
	if !strings.Contains(filename, ".") {
		filename = filename + ".model"
	}

	bundle := persistence.NewModelBundle(c.currentModel)
	bundle.Metadata.Dataset = c.loadedFile
	if err := bundle.Save(filename); err != nil {
		fmt.Printf("%s Error saving model: %v\n", c.red("✗"), err)
		return
	}

	c.modelBundle = bundle
	c.currentModelPath = filename
	fmt.Printf("%s Model saved to %s\n", c.green("✓"), filename)
}

func (c *Commander) loadModel(filename string) {
	if !strings.Contains(filename, "/") {
		filename = filepath.Join("models", filename)
	}
	if !strings.Contains(filename, ".") {
		filename = filename + ".model"
	}

	bundle, err := persistence.LoadModelBundle(filename)
	if err != nil {
		fmt.Printf("%s Error loading model: %v\n", c.red("✗"), err)
		fmt.Println("Ensure the file exists in models/ directory")
		return
	}

	c.modelBundle = bundle
	c.currentModel = bundle.Classifier
	c.currentModelPath = filename

	fmt.Printf("%s Model loaded successfully!\n", c.green("✓"))
	fmt.Printf("Model: %s\n", bundle.Metadata.ModelName)
	fmt.Printf("Dataset: %s\n", bundle.Metadata.Dataset)
	fmt.Printf("Threshold: %.4f\n", bundle.Metadata.Threshold)
	fmt.Printf("Created: %s\n", bundle.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Println("Use 'predict' or 'evaluate' to interact with the model")
}

func (c *Commander) listModels() {
	modelFiles, err := filepath.Glob("models/*.model")
	if err != nil || len(modelFiles) == 0 {
		fmt.Println("No saved models found in models/ directory")
		fmt.Println("Train a model using 'train' and save it with 'savemodel'")
		return
	}

	fmt.Println(c.blue("\nSaved Models:"))
	fmt.Println(strings.Repeat("─", 70))
	fmt.Printf("%-30s %-10s %-15s %-10s\n", "Filename", "Size", "Modified", "Status")
	fmt.Println(strings.Repeat("─", 70))

	for _, file := range modelFiles {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}

		status := ""
		if c.currentModelPath == file {
			status = c.cyan("[ACTIVE]")
		}

		fmt.Printf("%-30s %-10s %-15s %-10s\n",
			filepath.Base(file),
			fmt.Sprintf("%.1f KB", float64(info.Size())/1024),
			info.ModTime().Format("01-02 15:04"),
			status)
	}

	fmt.Println()
	fmt.Println("Use 'loadmodel <filename>' to load a model")
}

func (c *Commander) showCurrentModel() {
	if c.currentModel == nil {
		fmt.Println(c.red("No active model"))
		return
	}

	fmt.Println(c.blue("\nCurrent Model:"))
	fmt.Println(strings.Repeat("─", 40))
	fmt.Printf("Name: %s\n", c.currentModel.GetName())
	fmt.Printf("Attributes: %v\n", attributeNames(c.currentModel.Domain))
	fmt.Printf("Classes: %v\n", c.currentModel.Domain.Class.Values)
	fmt.Printf("Threshold: %.4f\n", c.currentModel.Threshold)
	if c.currentModel.Apriori != nil {
		fmt.Print("Apriori:")
		for i, classValue := range c.currentModel.Domain.Class.Values {
			fmt.Printf(" P(%s)=%.4f", classValue, c.currentModel.Apriori.P(i))
		}
		fmt.Println()
	}
	if c.currentModelPath != "" {
		fmt.Printf("Path: %s\n", c.currentModelPath)
	}
}

func (c *Commander) runExperiment(configFile string) {
	if c.loadedFile == "" {
		fmt.Println(c.red("No data loaded. Use 'load <file>' first"))
		return
	}

	fmt.Printf("Running experiments from %s...\n", configFile)
	runner, err := experiment.NewRunner(configFile)
	if err != nil {
		fmt.Printf("%s %v\n", c.red("✗"), err)
		return
	}

	results, err := runner.RunAllExperiments(c.loadedFile)
	if err != nil {
		fmt.Printf("%s Experiment failed: %v\n", c.red("✗"), err)
		return
	}

	fmt.Printf("%s Completed %d experiment runs\n", c.green("✓"), len(results))
	for _, result := range results {
		fmt.Printf("  %-10s noise=%.2f missing=%.2f equalize=%-5t acc=%.4f f1=%.4f\n",
			result.Estimator, result.NoiseLevel, result.MissingLevel,
			result.Equalized, result.Accuracy, result.MacroF1)
	}

	outFile := fmt.Sprintf("results/experiment_%s.csv", time.Now().Format("20060102_150405"))
	os.MkdirAll("results", 0755)
	if err := runner.ExportResults(results, outFile); err != nil {
		fmt.Printf("%s Could not export results: %v\n", c.red("✗"), err)
		return
	}
	fmt.Printf("Results exported to %s\n", outFile)
}

func (c *Commander) showJobStatus(jobID string) {
	job, ok := c.jobManager.GetJob(jobID)
	if !ok {
		fmt.Printf("%s Job not found: %s\n", c.red("✗"), jobID)
		return
	}

	fmt.Printf("Job %s: %s\n", job.ID, job.GetStatus())
	if job.GetStatus() == jobs.JobCompleted {
		if cls, err := job.GetResult(); err == nil && cls != nil {
			c.currentModel = cls
			c.currentModelPath = ""
			c.modelBundle = nil
			fmt.Printf("%s Trained model promoted to current\n", c.green("✓"))
		}
	}
}

func (c *Commander) listAllJobs() {
	allJobs := c.jobManager.ListJobs()
	if len(allJobs) == 0 {
		fmt.Println("No jobs")
		return
	}

	fmt.Println(c.blue("\nJobs:"))
	for _, job := range allJobs {
		fmt.Printf("  %-12s %-10s %s\n", job.ID, job.GetStatus(), job.Description)
	}
}

func (c *Commander) showJobLogs(jobID string) {
	job, ok := c.jobManager.GetJob(jobID)
	if !ok {
		fmt.Printf("%s Job not found: %s\n", c.red("✗"), jobID)
		return
	}

	for _, line := range job.GetLogs() {
		fmt.Println(line)
	}
}

func (c *Commander) clearScreen() {
	fmt.Print("\033[H\033[2J")
}

func (c *Commander) quit() {
	os.Exit(0)
}
