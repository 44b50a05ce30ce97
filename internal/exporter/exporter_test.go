package exporter

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsight/internal/analytics"
	"claimsight/internal/pipeline"
)

func sampleReport() *pipeline.Report {
	return &pipeline.Report{
		Success:      true,
		RunID:        "run-123",
		AnalysisDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ClaimCount:   42,
		BasicStatistics: &analytics.BasicStatistics{
			TotalClaims: 42,
		},
		StatusAnalysis: &analytics.StatusAnalysis{
			ApprovalRate:  70,
			RejectionRate: 30,
		},
		Errors: map[string]string{
			pipeline.StageTrendAnalysis: "no claims data",
		},
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))

	path, err := w.WriteJSON(sampleReport(), "report")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "report.json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got pipeline.Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "run-123", got.RunID)
	assert.Equal(t, 42, got.ClaimCount)
	assert.Equal(t, "no claims data", got.Errors[pipeline.StageTrendAnalysis])
}

func TestWriteCSVSummary(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))

	path, err := w.WriteCSVSummary(sampleReport(), "report")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, len(raw) > 3 && raw[0] == 0xEF, "BOM prefix present")

	reader := csv.NewReader(strings.NewReader(string(raw[3:])))
	rows, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"section", "metric", "value"}, rows[0])

	byMetric := make(map[string][]string)
	for _, row := range rows[1:] {
		byMetric[row[0]+"/"+row[1]] = row
	}
	assert.Equal(t, "run-123", byMetric["run/run_id"][2])
	assert.Equal(t, "42", byMetric["run/claim_count"][2])
	assert.Equal(t, "70.00", byMetric["status/approval_rate"][2])
	assert.Equal(t, "no claims data", byMetric["error/trend_analysis"][2])
}

func TestWriteJSONCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/reports"
	w := NewWriter(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := w.WriteJSON(sampleReport(), "report")
	require.NoError(t, err)
}
