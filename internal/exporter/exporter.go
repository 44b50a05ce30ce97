// Package exporter writes pipeline reports to disk as JSON and writes
// a flat CSV summary of the key metrics for spreadsheet consumers.
package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"claimsight/internal/pipeline"
)

// Writer persists analysis reports under a base directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a report writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// WriteJSON writes the full report as indented JSON and returns the
// path of the written file.
func (w *Writer) WriteJSON(report *pipeline.Report, name string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(w.dir, name+".json")
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	w.logger.Info("report written", "path", path, "bytes", len(data))
	return path, nil
}
