package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsight/internal/claims"
)

func amount(v float64) *float64 { return &v }

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

// claimBatch builds n records sharing a status, provider and amount.
func claimBatch(prefix string, n int, status claims.Status, provider string, amt float64) []claims.Record {
	out := make([]claims.Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, claims.Record{
			ID:         prefix + "-" + string(rune('a'+i%26)) + string(rune('0'+i/26)),
			ProviderID: provider,
			Status:     status,
			Amount:     amount(amt),
		})
	}
	return out
}

func TestAnalyzeEmptyDataset(t *testing.T) {
	engine := NewEngine(10, nil)
	_, err := engine.Analyze(context.Background(), claims.NewDataset(nil))
	assert.ErrorIs(t, err, claims.ErrNoData)
}

func TestAnalyzeCancelledContext(t *testing.T) {
	engine := NewEngine(10, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Analyze(ctx, claims.NewDataset([]claims.Record{{ID: "C-1", Status: claims.StatusApproved}}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatusRatesSumToTotal(t *testing.T) {
	var records []claims.Record
	records = append(records, claimBatch("a", 60, claims.StatusApproved, "P-1", 100)...)
	records = append(records, claimBatch("r", 30, claims.StatusRejected, "P-1", 100)...)
	records = append(records, claimBatch("p", 6, claims.StatusPending, "P-1", 100)...)
	records = append(records, claimBatch("u", 4, claims.StatusUnderReview, "P-1", 100)...)

	engine := NewEngine(10, nil)
	report, err := engine.Analyze(context.Background(), claims.NewDataset(records))
	require.NoError(t, err)

	sa := report.Status
	assert.Equal(t, 60.0, sa.ApprovalRate)
	assert.Equal(t, 30.0, sa.RejectionRate)
	assert.Equal(t, 6.0, sa.PendingRate)
	assert.Equal(t, 4.0, sa.UnderReviewRate)
	assert.InDelta(t, 100.0, sa.ApprovalRate+sa.RejectionRate+sa.PendingRate+sa.UnderReviewRate, 0.05)
}

func TestRejectionReasonPercentagesAreOfRejectedSubset(t *testing.T) {
	var records []claims.Record
	records = append(records, claimBatch("a", 70, claims.StatusApproved, "P-1", 100)...)
	for i := 0; i < 20; i++ {
		records = append(records, claims.Record{
			ID: "rd-" + string(rune('a'+i)), Status: claims.StatusRejected,
			RejectionReason: "missing documentation",
		})
	}
	for i := 0; i < 10; i++ {
		records = append(records, claims.Record{
			ID: "rc-" + string(rune('a'+i)), Status: claims.StatusRejected,
			RejectionReason: "invalid procedure code",
		})
	}

	engine := NewEngine(10, nil)
	report, err := engine.Analyze(context.Background(), claims.NewDataset(records))
	require.NoError(t, err)

	reasons := report.Status.TopRejectionReasons
	require.Len(t, reasons, 2)
	assert.Equal(t, "missing documentation", reasons[0].Reason)
	assert.Equal(t, 20, reasons[0].Count)
	assert.InDelta(t, 66.67, reasons[0].Percentage, 0.01)
	assert.Equal(t, "invalid procedure code", reasons[1].Reason)
	assert.InDelta(t, 33.33, reasons[1].Percentage, 0.01)
}

func TestAmountBucketLabel(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0-1000"},
		{999.99, "0-1000"},
		{1000, "1000-5000"},
		{4999.99, "1000-5000"},
		{5000, "5000-10000"},
		{10000, "10000+"},
		{250000, "10000+"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AmountBucketLabel(tt.amount), "amount %v", tt.amount)
	}
}

func TestAmountAnalysis(t *testing.T) {
	records := []claims.Record{
		{ID: "C-1", Status: claims.StatusApproved, Amount: amount(500)},
		{ID: "C-2", Status: claims.StatusApproved, Amount: amount(1500)},
		{ID: "C-3", Status: claims.StatusRejected, Amount: amount(7000)},
		{ID: "C-4", Status: claims.StatusApproved, Amount: amount(12000)},
		{ID: "C-5", Status: claims.StatusPending}, // no amount
	}

	engine := NewEngine(10, nil)
	report, err := engine.Analyze(context.Background(), claims.NewDataset(records))
	require.NoError(t, err)

	aa := report.Amounts
	assert.Equal(t, 4, aa.ValidAmounts)
	assert.Equal(t, 21000.0, aa.TotalAmount)
	assert.Equal(t, 5250.0, aa.MeanAmount)
	assert.Equal(t, 4250.0, aa.MedianAmount)

	require.Len(t, aa.Distribution, 4, "all four buckets always present")
	var pctSum float64
	for _, b := range aa.Distribution {
		assert.Equal(t, 1, b.Count)
		pctSum += b.Percentage
	}
	assert.InDelta(t, 100.0, pctSum, 0.05)

	assert.Equal(t, 1, report.Basic.MissingFields.Amount)
}

func TestTimeAnalysisDelayed(t *testing.T) {
	records := []claims.Record{
		{ID: "C-1", Status: claims.StatusApproved, ClaimDate: date("2025-01-01"), ProcessingDate: date("2025-01-04")},  // 3d fast
		{ID: "C-2", Status: claims.StatusApproved, ClaimDate: date("2025-01-01"), ProcessingDate: date("2025-01-11")}, // 10d normal
		{ID: "C-3", Status: claims.StatusApproved, ClaimDate: date("2025-01-01"), ProcessingDate: date("2025-01-21")}, // 20d slow
		{ID: "C-4", Status: claims.StatusApproved, ClaimDate: date("2025-01-01"), ProcessingDate: date("2025-02-15")}, // 45d very slow
		{ID: "C-5", Status: claims.StatusApproved},
	}

	engine := NewEngine(10, nil)
	report, err := engine.Analyze(context.Background(), claims.NewDataset(records))
	require.NoError(t, err)

	ta := report.Timing
	assert.Equal(t, 4, ta.ProcessedClaims)
	assert.Equal(t, 19.5, ta.MeanDays)
	assert.Equal(t, 1, ta.DelayedCount, "only the 45-day claim exceeds the 30-day threshold")
	assert.Equal(t, 25.0, ta.DelayedPercentage)

	labels := make([]string, 0, len(ta.Distribution))
	for _, b := range ta.Distribution {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"fast", "normal", "slow", "very_slow"}, labels)
}

func TestProviderApprovalRankingFloor(t *testing.T) {
	var records []claims.Record
	// P-big: 20 claims, 50% approval. Eligible for rankings.
	records = append(records, claimBatch("ba", 10, claims.StatusApproved, "P-big", 100)...)
	records = append(records, claimBatch("br", 10, claims.StatusRejected, "P-big", 100)...)
	// P-good: 15 claims, 100% approval. Eligible.
	records = append(records, claimBatch("g", 15, claims.StatusApproved, "P-good", 100)...)
	// P-tiny: 2 claims, 100% approval. Under the floor, excluded.
	records = append(records, claimBatch("t", 2, claims.StatusApproved, "P-tiny", 100)...)

	engine := NewEngine(10, nil)
	report, err := engine.Analyze(context.Background(), claims.NewDataset(records))
	require.NoError(t, err)

	pa := report.Providers
	assert.Equal(t, 3, pa.TotalProviders)

	require.NotEmpty(t, pa.BestApproval)
	assert.Equal(t, "P-good", pa.BestApproval[0].ProviderID)
	for _, p := range pa.BestApproval {
		assert.GreaterOrEqual(t, p.Claims, MinProviderClaims, "ranked providers meet the sample floor")
	}
	require.NotEmpty(t, pa.WorstApproval)
	assert.Equal(t, "P-big", pa.WorstApproval[0].ProviderID)

	assert.Equal(t, "P-big", pa.TopByVolume[0].ProviderID, "volume ranking has no floor")
}

func TestProviderVolumeTieBreaksByID(t *testing.T) {
	var records []claims.Record
	records = append(records, claimBatch("b", 5, claims.StatusApproved, "P-beta", 100)...)
	records = append(records, claimBatch("a", 5, claims.StatusApproved, "P-alpha", 100)...)

	engine := NewEngine(10, nil)
	report, err := engine.Analyze(context.Background(), claims.NewDataset(records))
	require.NoError(t, err)

	top := report.Providers.TopByVolume
	require.Len(t, top, 2)
	assert.Equal(t, "P-alpha", top[0].ProviderID)
	assert.Equal(t, "P-beta", top[1].ProviderID)
}

func TestBasicStatisticsDateSpan(t *testing.T) {
	records := []claims.Record{
		{ID: "C-1", Status: claims.StatusApproved, ClaimDate: date("2025-01-01")},
		{ID: "C-2", Status: claims.StatusApproved, ClaimDate: date("2025-03-02")},
	}

	engine := NewEngine(10, nil)
	report, err := engine.Analyze(context.Background(), claims.NewDataset(records))
	require.NoError(t, err)

	require.NotNil(t, report.Basic.DateSpan)
	assert.Equal(t, 60, report.Basic.DateSpan.Days)
}
