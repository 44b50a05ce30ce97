package pipeline

import (
	"time"

	"claimsight/internal/analytics"
	"claimsight/internal/finance"
	"claimsight/internal/recommend"
	"claimsight/internal/rejections"
	"claimsight/internal/trends"
)

// Stage names, used as keys in the report errors map.
const (
	StageClaimAnalysis     = "claim_analysis"
	StageTrendAnalysis     = "trend_analysis"
	StageRejectionAnalysis = "rejection_analysis"
	StageFinancialAnalysis = "financial_analysis"
	StageRecommendations   = "recommendations"
)

// Report is the layered pipeline output. Each section is present only
// when its producing stage succeeded; failed stages leave their reason
// in Errors. Success is false only when nothing at all was produced.
type Report struct {
	Success      bool      `json:"success"`
	RunID        string    `json:"run_id"`
	AnalysisDate time.Time `json:"analysis_date"`
	ClaimCount   int       `json:"claim_count"`

	BasicStatistics  *analytics.BasicStatistics  `json:"basic_statistics,omitempty"`
	StatusAnalysis   *analytics.StatusAnalysis   `json:"status_analysis,omitempty"`
	AmountAnalysis   *analytics.AmountAnalysis   `json:"amount_analysis,omitempty"`
	TimeAnalysis     *analytics.TimeAnalysis     `json:"time_analysis,omitempty"`
	ProviderAnalysis *analytics.ProviderAnalysis `json:"provider_analysis,omitempty"`

	TrendData       []trends.PeriodStats `json:"trend_data,omitempty"`
	TrendMetrics    []trends.MetricTrend `json:"trend_metrics,omitempty"`
	Patterns        []trends.Pattern     `json:"patterns,omitempty"`
	Forecast        *trends.Forecast     `json:"forecast,omitempty"`
	TrendComparison *trends.Comparison   `json:"trend_comparison,omitempty"`

	RejectionStatistics *rejections.Report     `json:"rejection_statistics,omitempty"`
	RootCauses          []rejections.RootCause `json:"root_causes,omitempty"`

	FinancialMetrics *finance.Metrics         `json:"financial_metrics,omitempty"`
	Opportunities    []finance.Opportunity    `json:"opportunities,omitempty"`
	ROIAnalysis      []finance.OpportunityROI `json:"roi_analysis,omitempty"`

	Recommendations       []recommend.Recommendation         `json:"recommendations,omitempty"`
	ImplementationRoadmap *recommend.Roadmap                 `json:"implementation_roadmap,omitempty"`
	SuccessMetrics        map[string]recommend.SuccessMetric `json:"success_metrics,omitempty"`

	Errors map[string]string `json:"errors,omitempty"`
}

// recordFailure stores a stage failure in the errors map.
func (r *Report) recordFailure(err *StageError) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[err.Stage] = err.Message
}

// hasAnyOutput reports whether at least one stage contributed a section.
func (r *Report) hasAnyOutput() bool {
	return r.BasicStatistics != nil ||
		len(r.TrendData) > 0 || len(r.TrendMetrics) > 0 ||
		r.RejectionStatistics != nil ||
		r.FinancialMetrics != nil ||
		len(r.Recommendations) > 0
}
