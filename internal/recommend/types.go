package recommend

// Recommendation categories.
const (
	CategoryProcessImprovement    = "process_improvement"
	CategoryTrainingAndEducation  = "training_and_education"
	CategoryTechnologyEnhancement = "technology_enhancement"
	CategoryPolicyOptimization    = "policy_optimization"
	CategoryProviderManagement    = "provider_management"
	CategoryCostReduction         = "cost_reduction"
)

// Priority, impact and effort levels.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"

	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"

	EffortLow    = "low"
	EffortMedium = "medium"
	EffortHigh   = "high"
)

// Score tables for the composite score. Lower effort scores higher
// because it is easier to implement.
var (
	priorityScores = map[string]float64{
		PriorityCritical: 4, PriorityHigh: 3, PriorityMedium: 2, PriorityLow: 1,
	}
	impactScores = map[string]float64{
		ImpactHigh: 3, ImpactMedium: 2, ImpactLow: 1,
	}
	effortScores = map[string]float64{
		EffortLow: 3, EffortMedium: 2, EffortHigh: 1,
	}
)

// Composite score weights.
const (
	priorityWeight = 0.4
	impactWeight   = 0.4
	effortWeight   = 0.2
)

// Recommendation is one prioritized remediation action. ID is the
// deduplication key: when several stages surface the same action, the
// first occurrence wins.
type Recommendation struct {
	ID              string   `json:"id"`
	Category        string   `json:"category"`
	Priority        string   `json:"priority"`
	Impact          string   `json:"impact"`
	Effort          string   `json:"effort"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	ExpectedOutcome string   `json:"expected_outcome"`
	CompositeScore  float64  `json:"composite_score"`
	TimeframeWeeks  int      `json:"timeframe_weeks"`
	Metrics         []string `json:"metrics,omitempty"`
}

// Phase is one step of the implementation roadmap.
type Phase struct {
	Name            string           `json:"name"`
	StartWeek       int              `json:"start_week"`
	EndWeek         int              `json:"end_week"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Roadmap is the three-phase implementation plan.
type Roadmap struct {
	Phases []Phase `json:"phases"`
}

// SuccessMetric describes how a referenced KPI is targeted and measured.
type SuccessMetric struct {
	Target      string `json:"target"`
	Measurement string `json:"measurement"`
}

// KPI keys recommendations may reference.
const (
	KPIApprovalRate         = "approval_rate"
	KPIProcessingEfficiency = "processing_efficiency"
	KPICostSavings          = "cost_savings"
	KPIRevenueRecovery      = "revenue_recovery"
)

// successMetricTable is the fixed KPI lookup. Only KPIs referenced by a
// generated recommendation appear in the report.
var successMetricTable = map[string]SuccessMetric{
	KPIApprovalRate: {
		Target:      "count approval rate at or above 90%",
		Measurement: "approved claims divided by total claims, monthly",
	},
	KPIProcessingEfficiency: {
		Target:      "mean processing time at or below 14 days",
		Measurement: "mean days from claim submission to disposition, monthly",
	},
	KPICostSavings: {
		Target:      "operational cost reduced by 15% against the baseline window",
		Measurement: "processing, appeal and rework cost model per month",
	},
	KPIRevenueRecovery: {
		Target:      "25% of currently rejected claim value recovered",
		Measurement: "approved amount on resubmitted claims per quarter",
	},
}

// Report is the Recommendation Engine output.
type Report struct {
	Recommendations []Recommendation         `json:"recommendations"`
	Roadmap         *Roadmap                 `json:"roadmap"`
	SuccessMetrics  map[string]SuccessMetric `json:"success_metrics"`
}
