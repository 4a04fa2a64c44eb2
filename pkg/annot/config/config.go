// Package config loads yaml configuration: declarative annotation jobs and
// the model registry backing them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Job is an ordered list of annotation operations.
type Job struct {
	Operations []Operation `yaml:"operations"`
}

// Operation is one pipeline operation. Which fields apply depends on Op.
type Operation struct {
	Op         string   `yaml:"op"`
	Fields     []string `yaml:"fields,omitempty"`
	Field      string   `yaml:"field,omitempty"`
	Tag        string   `yaml:"tag,omitempty"`
	Values     []string `yaml:"values,omitempty"`
	Regex      string   `yaml:"regex,omitempty"`
	Backend    string   `yaml:"backend,omitempty"`
	Language   string   `yaml:"language,omitempty"`
	Domain     string   `yaml:"domain,omitempty"`
	Checkpoint string   `yaml:"checkpoint,omitempty"`
	Tokenizer  string   `yaml:"tokenizer,omitempty"`
}

// LoadJob loads a job from a YAML file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job %s: %w", path, err)
	}
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse job %s: %w", path, err)
	}
	return &job, nil
}

// ModelsConfig declares the artifact-backed models to register on top of
// the built-in capabilities.
type ModelsConfig struct {
	// NGramDir holds statistical language models as <domain>.<language>.yaml.
	NGramDir string `yaml:"ngram_dir"`

	Spam map[string]SpamModelConfig `yaml:"spam"`
	NER  map[string]NERModelConfig  `yaml:"ner"`
}

// SpamModelConfig points at line-per-sample training files.
type SpamModelConfig struct {
	SpamSamples    string `yaml:"spam_samples"`
	HamSamples     string `yaml:"ham_samples"`
	ExcludedTokens string `yaml:"excluded_tokens,omitempty"`
}

// NERModelConfig points at an ONNX token-classification model directory.
type NERModelConfig struct {
	ModelPath    string `yaml:"model_path"`
	OnnxFilename string `yaml:"onnx_filename,omitempty"`
}

// LoadModels loads a models config from a YAML file.
func LoadModels(path string) (*ModelsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read models config %s: %w", path, err)
	}
	var cfg ModelsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse models config %s: %w", path, err)
	}
	return &cfg, nil
}
