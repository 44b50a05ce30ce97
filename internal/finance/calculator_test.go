package finance

import (
	"context"
	"fmt"
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

func batch(prefix string, n int, status claims.Status, provider string, amt float64) []claims.Record {
	out := make([]claims.Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, claims.Record{
			ID:         fmt.Sprintf("%s-%d", prefix, i),
			ProviderID: provider,
			Status:     status,
			Amount:     amount(amt),
		})
	}
	return out
}

func TestAnalyzeEmptyDataset(t *testing.T) {
	c := NewCalculator(DefaultProcessingCost, DefaultAppealCost, 10, nil)
	_, err := c.Analyze(context.Background(), claims.NewDataset(nil))
	assert.ErrorIs(t, err, claims.ErrNoData)
}

func TestMetricsKeepRatesDistinct(t *testing.T) {
	// One approved claim worth 9000 and nine rejected claims worth 111
	// each: the count approval rate is 10% but the financial approval
	// rate is ~90%.
	var records []claims.Record
	records = append(records, claims.Record{ID: "A-1", Status: claims.StatusApproved, Amount: amount(9000)})
	records = append(records, batch("R", 9, claims.StatusRejected, "P-1", 111)...)

	c := NewCalculator(DefaultProcessingCost, DefaultAppealCost, 10, nil)
	report, err := c.Analyze(context.Background(), claims.NewDataset(records))
	require.NoError(t, err)

	m := report.Metrics
	assert.Equal(t, 9999.0, m.TotalClaimed)
	assert.Equal(t, 9000.0, m.TotalApproved)
	assert.Equal(t, 999.0, m.TotalRejected)
	assert.Equal(t, 10.0, m.CountApprovalRate)
	assert.InDelta(t, 90.0, m.FinancialApprovalRate, 0.02)
}

func TestOperationalCostModel(t *testing.T) {
	var records []claims.Record
	records = append(records, batch("A", 80, claims.StatusApproved, "P-1", 100)...)
	records = append(records, batch("R", 20, claims.StatusRejected, "P-1", 100)...)

	c := NewCalculator(50, 200, 10, nil)
	report, err := c.Analyze(context.Background(), claims.NewDataset(records))
	require.NoError(t, err)

	oc := report.OperationalCost
	assert.Equal(t, 5000.0, oc.ProcessingCost, "100 claims at 50 each")
	assert.Equal(t, 6.0, oc.EstimatedAppeals, "30% of 20 rejections")
	assert.Equal(t, 1200.0, oc.AppealCost, "6 appeals at 200 each")
	assert.Equal(t, 500.0, oc.ReworkCost, "half the processing cost of each rejection")
	assert.Equal(t, 6700.0, oc.Total)

	ri := report.RejectionImpact
	assert.Equal(t, 1000.0, ri.ProcessingWaste)
	assert.Equal(t, 200.0, ri.OpportunityCost, "20% surcharge")
	assert.Equal(t, 1200.0, ri.Total)
}

func TestMonthlyRevenueSortedChronologically(t *testing.T) {
	records := []claims.Record{
		{ID: "C-1", Status: claims.StatusApproved, Amount: amount(300), ClaimDate: date("2025-03-10")},
		{ID: "C-2", Status: claims.StatusApproved, Amount: amount(100), ClaimDate: date("2025-01-10")},
		{ID: "C-3", Status: claims.StatusRejected, Amount: amount(200), ClaimDate: date("2025-01-20")},
	}

	c := NewCalculator(50, 200, 10, nil)
	report, err := c.Analyze(context.Background(), claims.NewDataset(records))
	require.NoError(t, err)

	require.Len(t, report.MonthlyRevenue, 2)
	assert.Equal(t, "2025-01", report.MonthlyRevenue[0].Period)
	assert.Equal(t, 300.0, report.MonthlyRevenue[0].Claimed)
	assert.Equal(t, 100.0, report.MonthlyRevenue[0].Approved)
	assert.Equal(t, "2025-03", report.MonthlyRevenue[1].Period)
}

func TestApprovalRateOpportunity(t *testing.T) {
	// 50% approval rate, well under the 80% floor.
	var records []claims.Record
	records = append(records, batch("A", 50, claims.StatusApproved, "P-1", 100)...)
	records = append(records, batch("R", 50, claims.StatusRejected, "P-1", 100)...)

	c := NewCalculator(50, 200, 10, nil)
	report, err := c.Analyze(context.Background(), claims.NewDataset(records))
	require.NoError(t, err)

	var opp *Opportunity
	for i := range report.Opportunities {
		if report.Opportunities[i].ID == "approval_rate_improvement" {
			opp = &report.Opportunities[i]
		}
	}
	require.NotNil(t, opp)
	assert.Equal(t, 1250.0, opp.EstimatedBenefit, "25% of the 5000 rejected amount")
	assert.Equal(t, EffortMedium, opp.Effort)
}

func TestHighValueOpportunityThresholdIsExclusive(t *testing.T) {
	// A rejected claim at exactly 5000 does not qualify; 5001 does.
	base := batch("A", 90, claims.StatusApproved, "P-1", 100)

	t.Run("exactly at floor", func(t *testing.T) {
		records := append(append([]claims.Record{}, base...), claims.Record{
			ID: "R-1", Status: claims.StatusRejected, Amount: amount(5000),
		})
		c := NewCalculator(50, 200, 10, nil)
		report, err := c.Analyze(context.Background(), claims.NewDataset(records))
		require.NoError(t, err)
		for _, opp := range report.Opportunities {
			assert.NotEqual(t, "high_value_claim_focus", opp.ID)
		}
	})

	t.Run("above floor", func(t *testing.T) {
		records := append(append([]claims.Record{}, base...), claims.Record{
			ID: "R-1", Status: claims.StatusRejected, Amount: amount(5001),
		})
		c := NewCalculator(50, 200, 10, nil)
		report, err := c.Analyze(context.Background(), claims.NewDataset(records))
		require.NoError(t, err)

		var found bool
		for _, opp := range report.Opportunities {
			if opp.ID == "high_value_claim_focus" {
				found = true
				assert.InDelta(t, 2000.4, opp.EstimatedBenefit, 0.01, "40% of 5001")
			}
		}
		assert.True(t, found)
	})
}

func TestProviderEducationAggregates(t *testing.T) {
	var records []claims.Record
	// Two providers under the 60% approval floor, one healthy.
	records = append(records, batch("a1", 2, claims.StatusApproved, "P-low1", 100)...)
	records = append(records, batch("r1", 8, claims.StatusRejected, "P-low1", 100)...)
	records = append(records, batch("a2", 5, claims.StatusApproved, "P-low2", 100)...)
	records = append(records, batch("r2", 5, claims.StatusRejected, "P-low2", 100)...)
	records = append(records, batch("a3", 10, claims.StatusApproved, "P-high", 100)...)

	c := NewCalculator(50, 200, 10, nil)
	report, err := c.Analyze(context.Background(), claims.NewDataset(records))
	require.NoError(t, err)

	var opp *Opportunity
	for i := range report.Opportunities {
		if report.Opportunities[i].ID == "provider_education" {
			opp = &report.Opportunities[i]
		}
	}
	require.NotNil(t, opp, "two providers sit under the approval floor")
	assert.Equal(t, 400.0, opp.EstimatedBenefit, "20% of the 2000 claimed by qualifying providers")
	assert.Contains(t, opp.Description, "2 providers")
}

func TestROIRankingAndPriorities(t *testing.T) {
	roi := (&Calculator{topN: 10}).roiAnalysis([]Opportunity{
		{ID: "small", Effort: EffortHigh, EstimatedBenefit: 55000},   // ROI 10%
		{ID: "big", Effort: EffortLow, EstimatedBenefit: 50000},      // ROI 900%
		{ID: "medium", Effort: EffortMedium, EstimatedBenefit: 30000}, // ROI 100%
		{ID: "tiny", Effort: EffortLow, EstimatedBenefit: 6000},      // ROI 20%
		{ID: "loss", Effort: EffortMedium, EstimatedBenefit: 0},      // ROI -100%
	})

	require.Len(t, roi, 5)
	assert.Equal(t, "big", roi[0].OpportunityID)
	assert.Equal(t, "high", roi[0].Priority)
	assert.Equal(t, "high", roi[1].Priority)
	assert.Equal(t, "medium", roi[2].Priority)
	assert.Equal(t, "medium", roi[3].Priority)
	assert.Equal(t, "low", roi[4].Priority)

	for i := 1; i < len(roi); i++ {
		assert.LessOrEqual(t, roi[i].ROIPercent, roi[i-1].ROIPercent, "ROI ordering is non-increasing")
	}
}

func TestPaybackMonthsNilForZeroBenefit(t *testing.T) {
	roi := (&Calculator{topN: 10}).roiAnalysis([]Opportunity{
		{ID: "dead", Effort: EffortLow, EstimatedBenefit: 0},
		{ID: "live", Effort: EffortLow, EstimatedBenefit: 12000},
	})

	byID := make(map[string]OpportunityROI)
	for _, r := range roi {
		byID[r.OpportunityID] = r
	}
	assert.Nil(t, byID["dead"].PaybackMonths)
	require.NotNil(t, byID["live"].PaybackMonths)
	assert.Equal(t, 5.0, *byID["live"].PaybackMonths, "5000 cost at 1000 monthly benefit")
}
