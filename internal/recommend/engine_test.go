package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsight/internal/analytics"
	"claimsight/internal/finance"
	"claimsight/internal/rejections"
)

func TestBuildNoInputs(t *testing.T) {
	e := NewEngine(nil)
	_, err := e.Build(context.Background(), Inputs{})
	assert.ErrorIs(t, err, ErrNoInputs)
}

func TestCompositeScore(t *testing.T) {
	tests := []struct {
		name string
		rec  Recommendation
		want float64
	}{
		{
			name: "best possible",
			rec:  Recommendation{Priority: PriorityCritical, Impact: ImpactHigh, Effort: EffortLow},
			want: 0.4*4 + 0.4*3 + 0.2*3, // 3.4
		},
		{
			name: "worst possible",
			rec:  Recommendation{Priority: PriorityLow, Impact: ImpactLow, Effort: EffortHigh},
			want: 0.4*1 + 0.4*1 + 0.2*1, // 1.0
		},
		{
			name: "low effort beats high effort at equal priority and impact",
			rec:  Recommendation{Priority: PriorityHigh, Impact: ImpactMedium, Effort: EffortLow},
			want: 0.4*3 + 0.4*2 + 0.2*3, // 2.6
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, compositeScore(tt.rec), 0.001)
		})
	}
}

func TestDedupeFirstWins(t *testing.T) {
	out := dedupe([]Recommendation{
		{ID: "x", Title: "first"},
		{ID: "y", Title: "other"},
		{ID: "x", Title: "second"},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Title)
	assert.Equal(t, "y", out[1].ID)
}

func TestBuildFromAnalysisThresholds(t *testing.T) {
	tests := []struct {
		name         string
		approvalRate float64
		wantID       string
		wantPriority string
	}{
		{name: "below 70 is critical", approvalRate: 65, wantID: "approval_rate_improvement", wantPriority: PriorityCritical},
		{name: "between 70 and 85 is high", approvalRate: 78, wantID: "approval_rate_optimization", wantPriority: PriorityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(nil)
			report, err := e.Build(context.Background(), Inputs{
				Analysis: &analytics.Report{
					Status: &analytics.StatusAnalysis{ApprovalRate: tt.approvalRate},
				},
			})
			require.NoError(t, err)
			require.Len(t, report.Recommendations, 1)
			assert.Equal(t, tt.wantID, report.Recommendations[0].ID)
			assert.Equal(t, tt.wantPriority, report.Recommendations[0].Priority)
		})
	}
}

func TestBuildHealthyAnalysisYieldsNothing(t *testing.T) {
	e := NewEngine(nil)
	report, err := e.Build(context.Background(), Inputs{
		Analysis: &analytics.Report{
			Status: &analytics.StatusAnalysis{ApprovalRate: 92},
			Timing: &analytics.TimeAnalysis{ProcessedClaims: 100, MeanDays: 8},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, report.Recommendations)
	assert.Empty(t, report.SuccessMetrics)
	require.NotNil(t, report.Roadmap)
	for _, phase := range report.Roadmap.Phases {
		assert.Empty(t, phase.Recommendations)
	}
}

func TestBuildFromRejectionsSeverityDrivesPriority(t *testing.T) {
	e := NewEngine(nil)
	report, err := e.Build(context.Background(), Inputs{
		Rejections: &rejections.Report{
			TotalRejections: 100,
			RootCauses: []rejections.RootCause{
				{Category: rejections.CategoryDocumentation, Count: 40, Percentage: 40, Severity: rejections.SeverityHigh},
				{Category: rejections.CategoryCoding, Count: 20, Percentage: 20, Severity: rejections.SeverityMedium},
				{Category: rejections.CategoryEligibility, Count: 10, Percentage: 10, Severity: rejections.SeverityLow},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, report.Recommendations, 3)

	byID := make(map[string]Recommendation)
	for _, rec := range report.Recommendations {
		byID[rec.ID] = rec
	}
	assert.Equal(t, PriorityCritical, byID["documentation_compliance_training"].Priority)
	assert.Equal(t, PriorityHigh, byID["coding_accuracy_program"].Priority)
	assert.Equal(t, PriorityMedium, byID["eligibility_verification_checks"].Priority)
}

func TestBuildOrdersByCompositeScoreThenID(t *testing.T) {
	e := NewEngine(nil)
	report, err := e.Build(context.Background(), Inputs{
		Analysis: &analytics.Report{
			Status: &analytics.StatusAnalysis{ApprovalRate: 60},
			Timing: &analytics.TimeAnalysis{ProcessedClaims: 100, MeanDays: 25},
		},
		Rejections: &rejections.Report{
			RootCauses: []rejections.RootCause{
				{Category: rejections.CategoryAdministrative, Count: 5, Percentage: 10, Severity: rejections.SeverityLow},
			},
		},
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(report.Recommendations), 3)

	for i := 1; i < len(report.Recommendations); i++ {
		prev, cur := report.Recommendations[i-1], report.Recommendations[i]
		if prev.CompositeScore == cur.CompositeScore {
			assert.Less(t, prev.ID, cur.ID, "equal scores tie-break by ID")
		} else {
			assert.Greater(t, prev.CompositeScore, cur.CompositeScore)
		}
	}
}

func TestBuildFromFinanceCarriesROIPriority(t *testing.T) {
	e := NewEngine(nil)
	report, err := e.Build(context.Background(), Inputs{
		Finance: &finance.Report{
			Opportunities: []finance.Opportunity{
				{ID: "provider_education", Title: "Provider education program", Effort: EffortLow, Timeframe: "3-4 months", EstimatedBenefit: 60000},
			},
			ROI: []finance.OpportunityROI{
				{OpportunityID: "provider_education", Priority: "high", ROIPercent: 1100},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, report.Recommendations, 1)

	rec := report.Recommendations[0]
	assert.Equal(t, PriorityHigh, rec.Priority)
	assert.Equal(t, ImpactHigh, rec.Impact, "benefit of 60000 is high impact")
	assert.Equal(t, CategoryCostReduction, rec.Category)
	assert.Equal(t, 16, rec.TimeframeWeeks)
}

func TestSuccessMetricsOnlyReferencedKPIs(t *testing.T) {
	e := NewEngine(nil)
	report, err := e.Build(context.Background(), Inputs{
		Analysis: &analytics.Report{
			Timing: &analytics.TimeAnalysis{ProcessedClaims: 50, MeanDays: 18},
		},
	})
	require.NoError(t, err)

	require.Len(t, report.Recommendations, 1)
	assert.Contains(t, report.SuccessMetrics, KPIProcessingEfficiency)
	assert.NotContains(t, report.SuccessMetrics, KPIApprovalRate)
	assert.NotContains(t, report.SuccessMetrics, KPICostSavings)
}

func TestRoadmapPhases(t *testing.T) {
	recs := []Recommendation{
		{ID: "a", Priority: PriorityCritical, Effort: EffortMedium, TimeframeWeeks: 16},
		{ID: "b", Priority: PriorityMedium, Effort: EffortLow, TimeframeWeeks: 8}, // quick win
		{ID: "c", Priority: PriorityHigh, Effort: EffortMedium, TimeframeWeeks: 12},
		{ID: "d", Priority: PriorityLow, Effort: EffortHigh, TimeframeWeeks: 20},
	}

	roadmap := buildRoadmap(recs)
	require.Len(t, roadmap.Phases, 3)

	phase1IDs := ids(roadmap.Phases[0].Recommendations)
	assert.Equal(t, []string{"a", "b"}, phase1IDs, "critical items and quick wins land in phase 1")
	assert.Equal(t, []string{"c"}, ids(roadmap.Phases[1].Recommendations))
	assert.Equal(t, []string{"d"}, ids(roadmap.Phases[2].Recommendations))

	assert.Equal(t, 0, roadmap.Phases[0].StartWeek)
	assert.Equal(t, 12, roadmap.Phases[0].EndWeek)
	assert.Equal(t, 40, roadmap.Phases[2].EndWeek)
}

func TestRoadmapPhaseCap(t *testing.T) {
	var recs []Recommendation
	for i := 0; i < 8; i++ {
		recs = append(recs, Recommendation{
			ID: string(rune('a' + i)), Priority: PriorityCritical, Effort: EffortMedium,
		})
	}

	roadmap := buildRoadmap(recs)
	assert.Len(t, roadmap.Phases[0].Recommendations, maxPhaseItems)
}

func ids(recs []Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}
