// Package recommend fans in the outputs of the four analysis stages,
// generates remediation actions from fixed thresholds, deduplicates and
// scores them, and lays them out on a phased roadmap. Any subset of
// stage outputs may be missing; missing stages are simply skipped.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"claimsight/internal/analytics"
	"claimsight/internal/finance"
	"claimsight/internal/rejections"
	"claimsight/internal/stats"
	"claimsight/internal/trends"
)

// Inputs carries whichever stage outputs completed. Nil fields mean the
// stage failed or was skipped.
type Inputs struct {
	Analysis   *analytics.Report
	Trends     *trends.Report
	Rejections *rejections.Report
	Finance    *finance.Report
}

// Empty reports whether no stage produced output.
func (in Inputs) Empty() bool {
	return in.Analysis == nil && in.Trends == nil && in.Rejections == nil && in.Finance == nil
}

// ErrNoInputs is returned when every upstream stage failed; it is the
// only condition that fails the whole pipeline.
var ErrNoInputs = fmt.Errorf("no analysis outputs to aggregate")

// Engine synthesizes recommendations from stage outputs.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a recommendation engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Build generates, deduplicates, scores and orders recommendations, then
// lays them out on the roadmap. It returns ErrNoInputs when every stage
// output is missing.
func (e *Engine) Build(ctx context.Context, in Inputs) (*Report, error) {
	if in.Empty() {
		return nil, ErrNoInputs
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var candidates []Recommendation
	candidates = append(candidates, e.fromAnalysis(in.Analysis)...)
	candidates = append(candidates, e.fromTrends(in.Trends)...)
	candidates = append(candidates, e.fromRejections(in.Rejections)...)
	candidates = append(candidates, e.fromFinance(in.Finance)...)

	recommendations := dedupe(candidates)
	for i := range recommendations {
		recommendations[i].CompositeScore = compositeScore(recommendations[i])
	}
	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].CompositeScore != recommendations[j].CompositeScore {
			return recommendations[i].CompositeScore > recommendations[j].CompositeScore
		}
		return recommendations[i].ID < recommendations[j].ID
	})

	e.logger.InfoContext(ctx, "recommendations synthesized",
		"candidates", len(candidates),
		"recommendations", len(recommendations),
	)

	return &Report{
		Recommendations: recommendations,
		Roadmap:         buildRoadmap(recommendations),
		SuccessMetrics:  successMetrics(recommendations),
	}, nil
}

// fromAnalysis mirrors the claim-analysis thresholds.
func (e *Engine) fromAnalysis(report *analytics.Report) []Recommendation {
	if report == nil {
		return nil
	}
	var out []Recommendation

	if report.Status != nil {
		rate := report.Status.ApprovalRate
		switch {
		case rate < 70:
			out = append(out, Recommendation{
				ID:              "approval_rate_improvement",
				Category:        CategoryProcessImprovement,
				Priority:        PriorityCritical,
				Impact:          ImpactHigh,
				Effort:          EffortMedium,
				Title:           "Launch an approval-rate improvement program",
				Description:     fmt.Sprintf("count approval rate is %.1f%%, well under the 70%% floor", rate),
				ExpectedOutcome: "count approval rate restored above 85%",
				TimeframeWeeks:  16,
				Metrics:         []string{KPIApprovalRate, KPIRevenueRecovery},
			})
		case rate < 85:
			out = append(out, Recommendation{
				ID:              "approval_rate_optimization",
				Category:        CategoryProcessImprovement,
				Priority:        PriorityHigh,
				Impact:          ImpactMedium,
				Effort:          EffortMedium,
				Title:           "Optimize the approval rate",
				Description:     fmt.Sprintf("count approval rate of %.1f%% leaves room against the 85%% target", rate),
				ExpectedOutcome: "count approval rate above 85%",
				TimeframeWeeks:  12,
				Metrics:         []string{KPIApprovalRate},
			})
		}
	}

	if report.Timing != nil && report.Timing.ProcessedClaims > 0 {
		switch {
		case report.Timing.MeanDays > 21:
			out = append(out, Recommendation{
				ID:              "reduce_processing_time",
				Category:        CategoryProcessImprovement,
				Priority:        PriorityHigh,
				Impact:          ImpactHigh,
				Effort:          EffortMedium,
				Title:           "Reduce claim processing time",
				Description:     fmt.Sprintf("mean processing time is %.1f days against a 21-day ceiling", report.Timing.MeanDays),
				ExpectedOutcome: "mean processing time under 14 days",
				TimeframeWeeks:  12,
				Metrics:         []string{KPIProcessingEfficiency},
			})
		case report.Timing.MeanDays > 14:
			out = append(out, Recommendation{
				ID:              "streamline_claim_review",
				Category:        CategoryTechnologyEnhancement,
				Priority:        PriorityMedium,
				Impact:          ImpactMedium,
				Effort:          EffortLow,
				Title:           "Streamline routine claim review",
				Description:     fmt.Sprintf("mean processing time of %.1f days suggests avoidable review queues", report.Timing.MeanDays),
				ExpectedOutcome: "routine claims auto-adjudicated within 7 days",
				TimeframeWeeks:  8,
				Metrics:         []string{KPIProcessingEfficiency},
			})
		}
	}

	if report.Providers != nil && len(report.Providers.WorstApproval) > 0 {
		worst := report.Providers.WorstApproval[0]
		if worst.ApprovalRate < 60 {
			out = append(out, Recommendation{
				ID:              "provider_performance_review",
				Category:        CategoryProviderManagement,
				Priority:        PriorityHigh,
				Impact:          ImpactMedium,
				Effort:          EffortMedium,
				Title:           "Review underperforming providers",
				Description:     fmt.Sprintf("provider %s approves only %.1f%% of its claims", worst.ProviderID, worst.ApprovalRate),
				ExpectedOutcome: "no high-volume provider below a 70% approval rate",
				TimeframeWeeks:  16,
				Metrics:         []string{KPIApprovalRate},
			})
		}
	}
	return out
}

// fromTrends turns flagged patterns into actions.
func (e *Engine) fromTrends(report *trends.Report) []Recommendation {
	if report == nil {
		return nil
	}
	var out []Recommendation
	for _, p := range report.Patterns {
		switch p.Name {
		case trends.PatternDecliningApprovals:
			out = append(out, Recommendation{
				ID:              "investigate_approval_decline",
				Category:        CategoryPolicyOptimization,
				Priority:        PriorityHigh,
				Impact:          ImpactHigh,
				Effort:          EffortLow,
				Title:           "Investigate the approval-rate decline",
				Description:     p.Description,
				ExpectedOutcome: "approval-rate trend back to stable or improving",
				TimeframeWeeks:  6,
				Metrics:         []string{KPIApprovalRate},
			})
		case trends.PatternSlowingProcessing:
			out = append(out, Recommendation{
				ID:              "address_processing_slowdown",
				Category:        CategoryProcessImprovement,
				Priority:        PriorityHigh,
				Impact:          ImpactMedium,
				Effort:          EffortMedium,
				Title:           "Address the processing slowdown",
				Description:     p.Description,
				ExpectedOutcome: "processing-time trend back to stable",
				TimeframeWeeks:  10,
				Metrics:         []string{KPIProcessingEfficiency},
			})
		case trends.PatternVolumeSurge:
			out = append(out, Recommendation{
				ID:              "scale_processing_capacity",
				Category:        CategoryTechnologyEnhancement,
				Priority:        PriorityMedium,
				Impact:          ImpactMedium,
				Effort:          EffortHigh,
				Title:           "Scale claim processing capacity",
				Description:     p.Description,
				ExpectedOutcome: "processing time held flat through the volume surge",
				TimeframeWeeks:  20,
				Metrics:         []string{KPIProcessingEfficiency},
			})
		}
	}
	return out
}

// rejectionActions maps each rejection category to its remediation.
var rejectionActions = map[string]struct {
	id       string
	category string
	title    string
	outcome  string
	metrics  []string
}{
	rejections.CategoryDocumentation: {
		id:       "documentation_compliance_training",
		category: CategoryTrainingAndEducation,
		title:    "Documentation compliance training",
		outcome:  "documentation rejections cut by half",
		metrics:  []string{KPIApprovalRate, KPIRevenueRecovery},
	},
	rejections.CategoryEligibility: {
		id:       "eligibility_verification_checks",
		category: CategoryProcessImprovement,
		title:    "Verify eligibility before submission",
		outcome:  "eligibility rejections caught pre-submission",
		metrics:  []string{KPIApprovalRate},
	},
	rejections.CategoryMedicalNecessity: {
		id:       "medical_necessity_review",
		category: CategoryPolicyOptimization,
		title:    "Strengthen medical-necessity documentation",
		outcome:  "medical-necessity rejections reduced by a third",
		metrics:  []string{KPIApprovalRate},
	},
	rejections.CategoryCoding: {
		id:       "coding_accuracy_program",
		category: CategoryTrainingAndEducation,
		title:    "Coding accuracy program",
		outcome:  "coding rejections cut by half",
		metrics:  []string{KPIApprovalRate, KPIRevenueRecovery},
	},
	rejections.CategoryAdministrative: {
		id:       "administrative_controls",
		category: CategoryProcessImprovement,
		title:    "Tighten administrative submission controls",
		outcome:  "administrative rejections near zero",
		metrics:  []string{KPICostSavings},
	},
}

// fromRejections seeds one recommendation per root cause; the severity
// tier sets the priority.
func (e *Engine) fromRejections(report *rejections.Report) []Recommendation {
	if report == nil {
		return nil
	}
	var out []Recommendation
	for _, cause := range report.RootCauses {
		action, ok := rejectionActions[cause.Category]
		if !ok {
			continue
		}
		priority := PriorityMedium
		impact := ImpactLow
		switch cause.Severity {
		case rejections.SeverityHigh:
			priority = PriorityCritical
			impact = ImpactHigh
		case rejections.SeverityMedium:
			priority = PriorityHigh
			impact = ImpactMedium
		}
		out = append(out, Recommendation{
			ID:       action.id,
			Category: action.category,
			Priority: priority,
			Impact:   impact,
			Effort:   EffortMedium,
			Title:    action.title,
			Description: fmt.Sprintf("%s accounts for %.1f%% of rejections (%d claims)",
				cause.Category, cause.Percentage, cause.Count),
			ExpectedOutcome: action.outcome,
			TimeframeWeeks:  12,
			Metrics:         action.metrics,
		})
	}
	return out
}

// fromFinance promotes priced opportunities into recommendations,
// keeping the ROI-derived priority.
func (e *Engine) fromFinance(report *finance.Report) []Recommendation {
	if report == nil {
		return nil
	}
	byID := make(map[string]finance.Opportunity, len(report.Opportunities))
	for _, opp := range report.Opportunities {
		byID[opp.ID] = opp
	}

	var out []Recommendation
	for _, roi := range report.ROI {
		opp, ok := byID[roi.OpportunityID]
		if !ok {
			continue
		}
		out = append(out, Recommendation{
			ID:       opp.ID,
			Category: CategoryCostReduction,
			Priority: roi.Priority,
			Impact:   impactForBenefit(opp.EstimatedBenefit),
			Effort:   opp.Effort,
			Title:    opp.Title,
			Description: fmt.Sprintf("%s (estimated benefit %.0f, ROI %.0f%%)",
				opp.Description, opp.EstimatedBenefit, roi.ROIPercent),
			ExpectedOutcome: fmt.Sprintf("%.0f recovered or saved over the intervention timeframe", opp.EstimatedBenefit),
			TimeframeWeeks:  timeframeWeeks(opp.Timeframe),
			Metrics:         []string{KPICostSavings, KPIRevenueRecovery},
		})
	}
	return out
}

func impactForBenefit(benefit float64) string {
	switch {
	case benefit >= 50000:
		return ImpactHigh
	case benefit >= 10000:
		return ImpactMedium
	}
	return ImpactLow
}

// timeframeWeeks converts an opportunity timeframe like "3-6 months"
// into the upper bound in weeks.
func timeframeWeeks(timeframe string) int {
	switch timeframe {
	case "3-4 months":
		return 16
	case "3-6 months":
		return 24
	case "6-9 months":
		return 36
	}
	return 24
}

// dedupe keeps the first occurrence of every recommendation ID.
func dedupe(candidates []Recommendation) []Recommendation {
	seen := make(map[string]bool, len(candidates))
	out := make([]Recommendation, 0, len(candidates))
	for _, rec := range candidates {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		out = append(out, rec)
	}
	return out
}

func compositeScore(rec Recommendation) float64 {
	score := priorityWeight*priorityScores[rec.Priority] +
		impactWeight*impactScores[rec.Impact] +
		effortWeight*effortScores[rec.Effort]
	return stats.Round2(score)
}

func successMetrics(recommendations []Recommendation) map[string]SuccessMetric {
	out := make(map[string]SuccessMetric)
	for _, rec := range recommendations {
		for _, kpi := range rec.Metrics {
			if metric, ok := successMetricTable[kpi]; ok {
				out[kpi] = metric
			}
		}
	}
	return out
}
