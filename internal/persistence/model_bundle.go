package persistence

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"bayesclassifier/internal/estimate"
	"bayesclassifier/internal/models"
)

type ModelBundle struct {
	Classifier *models.BayesClassifier
	Metadata   BundleMetadata
	CreatedAt  time.Time
}

type BundleMetadata struct {
	ModelName    string
	Dataset      string
	Accuracy     float64
	Threshold    float64
	TrainingTime time.Duration
	Attributes   []string
	Classes      []string
	Parameters   map[string]any
}

func registerTypes() {
	gob.Register(&estimate.DistEstimator{})
	gob.Register(&estimate.TableEstimator{})
	gob.Register(&estimate.LoessEstimator{})
}

func NewModelBundle(cls *models.BayesClassifier) *ModelBundle {
	meta := BundleMetadata{
		ModelName:  cls.GetName(),
		Threshold:  cls.Threshold,
		Parameters: cls.GetParams(),
	}
	for _, attr := range cls.Domain.Attributes {
		meta.Attributes = append(meta.Attributes, attr.Name)
	}
	if cls.Domain.Class != nil {
		meta.Classes = cls.Domain.Class.Values
	}
	return &ModelBundle{
		Classifier: cls,
		CreatedAt:  time.Now(),
		Metadata:   meta,
	}
}

func (mb *ModelBundle) Save(filename string) error {
	registerTypes()

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(mb); err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}

	return nil
}

func LoadModelBundle(filename string) (*ModelBundle, error) {
	registerTypes()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var bundle ModelBundle
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}

	return &bundle, nil
}

func (mb *ModelBundle) SaveMetadata(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "Model: %s\n", mb.Metadata.ModelName)
	fmt.Fprintf(file, "Dataset: %s\n", mb.Metadata.Dataset)
	fmt.Fprintf(file, "Created: %s\n", mb.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(file, "Accuracy: %.4f\n", mb.Metadata.Accuracy)
	fmt.Fprintf(file, "Threshold: %.4f\n", mb.Metadata.Threshold)
	fmt.Fprintf(file, "Training Time: %v\n", mb.Metadata.TrainingTime)

	return nil
}
