package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"claimsight/internal/pipeline"
)

// WriteCSVSummary writes a flat metric summary of the report for
// spreadsheet consumers. The BOM prefix keeps Excel from mangling the
// encoding.
func (w *Writer) WriteCSVSummary(report *pipeline.Report, name string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(w.dir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"section", "metric", "value"}); err != nil {
		return "", err
	}
	for _, row := range summaryRows(report) {
		if err := cw.Write(row); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}

	w.logger.Info("summary written", "path", path)
	return path, nil
}

// summaryRows flattens the headline metrics of each report section.
// Sections missing from the report are skipped.
func summaryRows(r *pipeline.Report) [][]string {
	rows := [][]string{
		{"run", "run_id", r.RunID},
		{"run", "claim_count", fmtInt(r.ClaimCount)},
		{"run", "success", strconv.FormatBool(r.Success)},
	}

	if bs := r.BasicStatistics; bs != nil {
		rows = append(rows, []string{"basic", "total_claims", fmtInt(bs.TotalClaims)})
	}
	if sa := r.StatusAnalysis; sa != nil {
		rows = append(rows,
			[]string{"status", "approval_rate", fmtFloat(sa.ApprovalRate)},
			[]string{"status", "rejection_rate", fmtFloat(sa.RejectionRate)},
			[]string{"status", "pending_rate", fmtFloat(sa.PendingRate)},
		)
	}
	if aa := r.AmountAnalysis; aa != nil {
		rows = append(rows,
			[]string{"amounts", "total_amount", fmtFloat(aa.TotalAmount)},
			[]string{"amounts", "mean_amount", fmtFloat(aa.MeanAmount)},
			[]string{"amounts", "median_amount", fmtFloat(aa.MedianAmount)},
			[]string{"amounts", "high_value_count", fmtInt(aa.HighValueCount)},
		)
	}
	if ta := r.TimeAnalysis; ta != nil {
		rows = append(rows,
			[]string{"timing", "mean_days", fmtFloat(ta.MeanDays)},
			[]string{"timing", "delayed_percentage", fmtFloat(ta.DelayedPercentage)},
		)
	}
	if fm := r.FinancialMetrics; fm != nil {
		rows = append(rows,
			[]string{"finance", "total_claimed", fmtFloat(fm.TotalClaimed)},
			[]string{"finance", "total_approved", fmtFloat(fm.TotalApproved)},
			[]string{"finance", "total_rejected", fmtFloat(fm.TotalRejected)},
			[]string{"finance", "financial_approval_rate", fmtFloat(fm.FinancialApprovalRate)},
		)
	}
	for _, rec := range r.Recommendations {
		rows = append(rows, []string{"recommendation", rec.ID, fmtFloat(rec.CompositeScore)})
	}
	for _, e := range sortedErrors(r.Errors) {
		rows = append(rows, []string{"error", e[0], e[1]})
	}
	return rows
}

func sortedErrors(errs map[string]string) [][2]string {
	if len(errs) == 0 {
		return nil
	}
	out := make([][2]string, 0, len(errs))
	for _, stage := range []string{
		pipeline.StageClaimAnalysis,
		pipeline.StageTrendAnalysis,
		pipeline.StageRejectionAnalysis,
		pipeline.StageFinancialAnalysis,
		pipeline.StageRecommendations,
	} {
		if msg, ok := errs[stage]; ok {
			out = append(out, [2]string{stage, msg})
		}
	}
	return out
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func fmtInt(v int) string {
	return strconv.Itoa(v)
}
