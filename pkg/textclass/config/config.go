package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

// Pipeline represents a training run configuration file
type Pipeline struct {
	Corpus struct {
		Path        string `yaml:"path"`
		TextColumn  string `yaml:"text_column"`
		LabelColumn string `yaml:"label_column"`
		IDColumn    string `yaml:"id_column"`
		StripHTML   *bool  `yaml:"strip_html"`
	} `yaml:"corpus"`

	Split struct {
		TestSize *float64 `yaml:"test_size"`
		Stratify *bool    `yaml:"stratify"`
		Fallback *bool    `yaml:"fallback"`
		Seed     *int64   `yaml:"seed"`
	} `yaml:"split"`

	Model struct {
		Classifier string `yaml:"classifier"`
	} `yaml:"model"`

	Preprocess struct {
		Normalize *bool  `yaml:"normalize"`
		Stoplist  string `yaml:"stoplist"`
	} `yaml:"preprocess"`

	Artifacts string `yaml:"artifacts"`
}

// LoadPipeline loads a pipeline configuration from a YAML file
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	return &p, nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	// Base names the built-in list to start from: "portuguese" (default) or "none".
	Base   string   `yaml:"base"`
	Terms  []string `yaml:"terms"`
	Remove []string `yaml:"remove"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	return &sl, nil
}
