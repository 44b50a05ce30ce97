package loader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"claimsight/internal/claims"
)

// LoadExcel reads claims from the first sheet whose header row names a
// claim ID or status column. Sheets without claim columns are skipped.
func LoadExcel(path string, logger *slog.Logger) (*claims.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		headerRow := findHeaderRow(rows)
		if headerRow < 0 {
			continue
		}
		logger.Info("found claims sheet", "sheet", sheet, "header_row", headerRow)
		return buildDataset(rows[headerRow], rows[headerRow+1:], logger)
	}
	return nil, fmt.Errorf("no claims sheet found in %s", path)
}

// findHeaderRow scans the first few rows for the header. Excel exports
// sometimes carry a title row above the real header.
func findHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		text := strings.ToLower(strings.Join(rows[i], " "))
		if strings.Contains(text, "claim") && (strings.Contains(text, "status") || strings.Contains(text, "id")) {
			return i
		}
	}
	return -1
}
