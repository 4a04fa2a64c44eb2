package models

import (
	"fmt"
	"strings"

	khugot "github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/cognicore/annot/pkg/annot/pii"
)

// nerCategories maps token-classification labels to finding categories.
// Unlisted labels pass through lowercased, so a model emitting e.g. PERSON
// still feeds the aggregate flag as an untracked category.
var nerCategories = map[string]string{
	"email":      pii.CategoryEmail,
	"phone":      pii.CategoryPhone,
	"credential": pii.CategoryCredential,
	"password":   pii.CategoryCredential,
	"key":        pii.CategoryCredential,
	"url":        pii.CategoryURL,
	"ip":         pii.CategoryIP,
}

// NERScanner runs an ONNX token-classification model as the entity
// scanning capability. One ONNX Runtime session per scanner; Close
// releases it.
type NERScanner struct {
	session  *khugot.Session
	pipeline *pipelines.TokenClassificationPipeline
}

// NewNERScanner loads the model under modelPath. onnxFilename defaults to
// "model.onnx".
func NewNERScanner(modelPath, onnxFilename string) (*NERScanner, error) {
	if onnxFilename == "" {
		onnxFilename = "model.onnx"
	}
	session, err := khugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("create hugot session: %w", err)
	}
	cfg := khugot.TokenClassificationConfig{
		ModelPath:    modelPath,
		OnnxFilename: onnxFilename,
		Name:         fmt.Sprintf("%s:%s", modelPath, onnxFilename),
	}
	pipeline, err := khugot.NewPipeline(session, cfg)
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("create token classification pipeline: %w", err)
	}
	// Group adjacent tokens into whole entities (must be uppercase).
	pipeline.AggregationStrategy = "SIMPLE"

	return &NERScanner{session: session, pipeline: pipeline}, nil
}

func (s *NERScanner) Scan(text string) ([]pii.Finding, error) {
	if text == "" {
		return nil, nil
	}
	output, err := s.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("run token classification: %w", err)
	}
	if len(output.Entities) == 0 {
		return nil, nil
	}

	var findings []pii.Finding
	for _, entity := range output.Entities[0] {
		findings = append(findings, pii.Finding{
			Category: nerCategory(entity.Entity),
			Text:     text[entity.Start:entity.End],
			Start:    int(entity.Start),
			End:      int(entity.End),
		})
	}
	return findings, nil
}

// Close releases the underlying session.
func (s *NERScanner) Close() error {
	return s.session.Destroy()
}

func nerCategory(label string) string {
	label = strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(label, "B-"), "I-"))
	if cat, ok := nerCategories[label]; ok {
		return cat
	}
	return label
}
