package loader

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"claimsight/internal/claims"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, `claim_id,provider_id,claim_type,amount,status,claim_date,processing_date,rejection_reason
C-001,P-1,outpatient,1200.50,approved,2025-01-10,2025-01-18,
C-002,P-2,inpatient,"3,400.00",rejected,2025-01-12,,missing documentation
`)

	ds, err := LoadCSV(path, discard())
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	first := ds.Records()[0]
	assert.Equal(t, "C-001", first.ID)
	assert.Equal(t, "P-1", first.ProviderID)
	assert.Equal(t, claims.StatusApproved, first.Status)
	require.True(t, first.HasAmount())
	assert.Equal(t, 1200.50, first.AmountValue())
	require.NotNil(t, first.ClaimDate)
	assert.Equal(t, time.January, first.ClaimDate.Month())

	second := ds.Records()[1]
	assert.Equal(t, 3400.0, second.AmountValue(), "thousands separators are stripped")
	assert.Nil(t, second.ProcessingDate)
	assert.Equal(t, "missing documentation", second.RejectionReason)
}

func TestLoadCSVCoercesBadFieldsButKeepsRecords(t *testing.T) {
	path := writeCSV(t, `claim_id,amount,status,claim_date
C-001,not-a-number,approved,2025-01-10
C-002,500,approved,garbage-date
C-003,-250,approved,2025-01-12
`)

	ds, err := LoadCSV(path, discard())
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len(), "malformed fields never drop the record")

	assert.False(t, ds.Records()[0].HasAmount(), "unparseable amount becomes missing")
	assert.NotNil(t, ds.Records()[0].ClaimDate)
	assert.False(t, ds.Records()[2].HasAmount(), "negative amounts are rejected")

	mf := ds.MissingFields()
	assert.Equal(t, 3, mf.ProcessingDate, "no processing date column at all")
}

func TestLoadCSVHeaderAliases(t *testing.T) {
	path := writeCSV(t, `ClaimID,Provider,Claim Status,Claim Amount,Service Date
C-001,P-9,approved,750,2025-02-01
`)

	ds, err := LoadCSV(path, discard())
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())

	rec := ds.Records()[0]
	assert.Equal(t, "C-001", rec.ID)
	assert.Equal(t, "P-9", rec.ProviderID)
	assert.Equal(t, claims.StatusApproved, rec.Status)
	assert.Equal(t, 750.0, rec.AmountValue())
	assert.NotNil(t, rec.ClaimDate)
}

func TestLoadCSVSkipsBlankRowsAndGeneratesIDs(t *testing.T) {
	path := writeCSV(t, `status,amount
approved,100

rejected,200
`)

	ds, err := LoadCSV(path, discard())
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.NotEmpty(t, ds.Records()[0].ID, "rows without an ID column get a synthetic one")
	assert.NotEqual(t, ds.Records()[0].ID, ds.Records()[1].ID)
}

func TestLoadCSVUnrecognizableHeader(t *testing.T) {
	path := writeCSV(t, "alpha,beta\n1,2\n")

	_, err := LoadCSV(path, discard())
	assert.Error(t, err)
}

func TestLoadCSVEmptyFile(t *testing.T) {
	path := writeCSV(t, "")
	ds, err := LoadCSV(path, discard())
	require.NoError(t, err)
	assert.Zero(t, ds.Len())
}

func TestLoadExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"claim_id", "provider_id", "amount", "status", "claim_date"},
		{"C-001", "P-1", 1500, "approved", "2025-01-05"},
		{"C-002", "P-1", 900, "rejected", "2025-01-06"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "claims.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := LoadExcel(path, discard())
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "C-001", ds.Records()[0].ID)
	assert.Equal(t, claims.StatusRejected, ds.Records()[1].Status)
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	path := writeCSV(t, "claim_id,status\nC-1,approved\n")
	ds, err := Load(path, discard())
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}
