package loader

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"claimsight/internal/claims"
)

// LoadCSV reads a CSV claims file. The first row is the header.
func LoadCSV(path string, logger *slog.Logger) (*claims.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return claims.NewDataset(nil), nil
	}
	return buildDataset(rows[0], rows[1:], logger)
}
