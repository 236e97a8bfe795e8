// Package jsonfile writes the run summary to results.json.
package jsonfile

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/user/apartment-scraper/internal/entity"
)

//go:embed schema/report.schema.json
var reportSchemaJSON string

var reportSchema = jsonschema.MustCompileString("report.schema.json", reportSchemaJSON)

// ReportWriter overwrites a single JSON file with each report it is given.
type ReportWriter struct {
	path   string
	logger *zap.Logger
}

func NewReportWriter(path string, logger *zap.Logger) *ReportWriter {
	return &ReportWriter{path: path, logger: logger}
}

// Write encodes, validates and saves report. A report that fails validation is
// still saved so the run's results are not lost; the mismatch is logged.
func (w *ReportWriter) Write(_ context.Context, report *entity.Report) error {
	data, err := Encode(report)
	if err != nil {
		return fmt.Errorf("could not encode report: %w", err)
	}
	if err := Validate(data); err != nil {
		w.logger.Warn("Report does not match schema, saving anyway", zap.String("path", w.path), zap.Error(err))
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create output dir: %w", err)
		}
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", w.path, err)
	}

	w.logger.Info("Results saved", zap.String("path", w.path), zap.Int("properties", report.Metadata.TotalProperties))
	return nil
}

// Encode renders report as two-space indented JSON without HTML escaping.
func Encode(report *entity.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Validate checks an encoded report against the results.json schema.
func Validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("report is not valid JSON: %w", err)
	}
	if err := reportSchema.Validate(v); err != nil {
		return fmt.Errorf("report schema validation failed: %w", err)
	}
	return nil
}
