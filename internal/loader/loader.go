// Package loader reads claim records from CSV and Excel files and
// coerces them into a claims.Dataset. Malformed amounts and dates are
// tolerated: the field is dropped, the record is kept, and the dataset
// reports the gap through its missing-field counts.
package loader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"claimsight/internal/claims"
)

// column names recognized in input headers, lowercased.
var headerAliases = map[string]string{
	"claim_id":        "id",
	"claimid":         "id",
	"id":              "id",
	"provider_id":     "provider",
	"provider":        "provider",
	"patient_id":      "patient",
	"patient":         "patient",
	"claim_type":      "type",
	"type":            "type",
	"claim_amount":    "amount",
	"amount":          "amount",
	"status":          "status",
	"claim_status":    "status",
	"claim_date":      "claim_date",
	"service_date":    "claim_date",
	"processing_date": "processing_date",
	"processed_date":  "processing_date",
	"rejection_reason": "rejection_reason",
	"denial_reason":    "rejection_reason",
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"2006/01/02",
}

// Load dispatches on the file extension. ".xlsx" and ".xls" go through
// the Excel reader, everything else is treated as CSV.
func Load(path string, logger *slog.Logger) (*claims.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return LoadExcel(path, logger)
	default:
		return LoadCSV(path, logger)
	}
}

// mapHeader resolves the column index of each canonical field.
func mapHeader(header []string) map[string]int {
	columns := make(map[string]int)
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		key = strings.ReplaceAll(key, " ", "_")
		if canonical, ok := headerAliases[key]; ok {
			if _, seen := columns[canonical]; !seen {
				columns[canonical] = i
			}
		}
	}
	return columns
}

func cellAt(row []string, columns map[string]int, field string) string {
	idx, ok := columns[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// recordFromRow coerces one data row. Unparseable amounts and dates
// are dropped rather than failing the row.
func recordFromRow(row []string, columns map[string]int, rowNum int, logger *slog.Logger) claims.Record {
	rec := claims.Record{
		ID:              cellAt(row, columns, "id"),
		PatientID:       cellAt(row, columns, "patient"),
		ProviderID:      cellAt(row, columns, "provider"),
		ClaimType:       strings.ToLower(cellAt(row, columns, "type")),
		Status:          claims.Status(strings.ToLower(cellAt(row, columns, "status"))),
		RejectionReason: cellAt(row, columns, "rejection_reason"),
	}
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("row-%d", rowNum)
	}

	if raw := cellAt(row, columns, "amount"); raw != "" {
		cleaned := strings.ReplaceAll(strings.TrimPrefix(raw, "$"), ",", "")
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil && v >= 0 {
			rec.Amount = &v
		} else {
			logger.Warn("unparseable claim amount", "row", rowNum, "claim_id", rec.ID, "value", raw)
		}
	}

	rec.ClaimDate = parseDate(cellAt(row, columns, "claim_date"), rowNum, rec.ID, "claim_date", logger)
	rec.ProcessingDate = parseDate(cellAt(row, columns, "processing_date"), rowNum, rec.ID, "processing_date", logger)
	return rec
}

func parseDate(raw string, rowNum int, id, field string, logger *slog.Logger) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	logger.Warn("unparseable date", "row", rowNum, "claim_id", id, "field", field, "value", raw)
	return nil
}

// buildDataset converts header plus data rows into a dataset. The
// header row must name at least the claim ID or status column;
// otherwise the file is assumed not to contain claims.
func buildDataset(header []string, rows [][]string, logger *slog.Logger) (*claims.Dataset, error) {
	columns := mapHeader(header)
	if _, ok := columns["id"]; !ok {
		if _, ok := columns["status"]; !ok {
			return nil, fmt.Errorf("no recognizable claim columns in header %v", header)
		}
	}

	records := make([]claims.Record, 0, len(rows))
	for i, row := range rows {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		records = append(records, recordFromRow(row, columns, i+2, logger))
	}

	logger.Info("loaded claim records", "count", len(records))
	return claims.NewDataset(records), nil
}
