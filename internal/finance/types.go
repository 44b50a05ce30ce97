package finance

// Default cost constants, in currency units. Both are overridable
// through configuration.
const (
	DefaultProcessingCost = 50.0
	DefaultAppealCost     = 200.0
)

// Cost-model ratios.
const (
	// AppealRatio estimates how many rejected claims are appealed.
	AppealRatio = 0.3
	// ReworkRatio is the extra processing fraction spent on rejected claims.
	ReworkRatio = 0.5
	// OpportunitySurcharge inflates processing waste by foregone revenue.
	OpportunitySurcharge = 0.2
)

// Metrics holds the headline financial figures. FinancialApprovalRate
// (approved amount over claimed amount) and CountApprovalRate (approved
// claims over total claims) are deliberately distinct metrics; the two
// must never be conflated.
type Metrics struct {
	TotalClaimed          float64 `json:"total_claimed"`
	TotalApproved         float64 `json:"total_approved"`
	TotalRejected         float64 `json:"total_rejected"`
	TotalPending          float64 `json:"total_pending"`
	FinancialApprovalRate float64 `json:"financial_approval_rate"`
	CountApprovalRate     float64 `json:"count_approval_rate"`
}

// PeriodRevenue is one month of claimed and approved amounts.
type PeriodRevenue struct {
	Period   string  `json:"period"`
	Claimed  float64 `json:"claimed"`
	Approved float64 `json:"approved"`
}

// ProviderRevenue ranks a provider by approved amount.
type ProviderRevenue struct {
	ProviderID string  `json:"provider_id"`
	Claimed    float64 `json:"claimed"`
	Approved   float64 `json:"approved"`
}

// OperationalCost breaks down the cost of running the claims operation
// over the snapshot window.
type OperationalCost struct {
	ProcessingCost   float64 `json:"processing_cost"`
	EstimatedAppeals float64 `json:"estimated_appeals"`
	AppealCost       float64 `json:"appeal_cost"`
	ReworkCost       float64 `json:"rework_cost"`
	Total            float64 `json:"total"`
}

// RejectionImpact is the money burned on rejected claims: the
// processing spend wasted plus an opportunity-cost surcharge.
type RejectionImpact struct {
	ProcessingWaste float64 `json:"processing_waste"`
	OpportunityCost float64 `json:"opportunity_cost"`
	Total           float64 `json:"total"`
}

// Effort tiers for candidate interventions.
const (
	EffortLow    = "low"
	EffortMedium = "medium"
	EffortHigh   = "high"
)

// Opportunity is a candidate intervention with an estimated benefit.
type Opportunity struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Effort           string  `json:"effort"`
	Timeframe        string  `json:"timeframe"`
	EstimatedBenefit float64 `json:"estimated_benefit"`
}

// OpportunityROI prices an opportunity. PaybackMonths is nil when the
// benefit is zero (payback never arrives).
type OpportunityROI struct {
	OpportunityID      string   `json:"opportunity_id"`
	Title              string   `json:"title"`
	ImplementationCost float64  `json:"implementation_cost"`
	EstimatedBenefit   float64  `json:"estimated_benefit"`
	ROIPercent         float64  `json:"roi_percent"`
	PaybackMonths      *float64 `json:"payback_months,omitempty"`
	Priority           string   `json:"priority"`
}

// Report is the Financial Impact Calculator output.
type Report struct {
	Metrics         Metrics           `json:"metrics"`
	MonthlyRevenue  []PeriodRevenue   `json:"monthly_revenue"`
	ProviderRevenue []ProviderRevenue `json:"provider_revenue"`
	OperationalCost OperationalCost   `json:"operational_cost"`
	RejectionImpact RejectionImpact   `json:"rejection_impact"`
	Opportunities   []Opportunity     `json:"opportunities"`
	ROI             []OpportunityROI  `json:"roi"`
}

// Opportunity heuristic thresholds and recovery targets.
const (
	ApprovalRateFloor        = 80.0
	ApprovalRecoveryTarget   = 0.25
	HighValueRejectionFloor  = 5000.0
	HighValueRecoveryTarget  = 0.40
	ProcessingWasteFloor     = 10000.0
	WasteReductionTarget     = 0.30
	ProviderApprovalFloor    = 60.0
	ProviderImprovementTarget = 0.20
)

// Implementation cost per effort tier, in currency units.
var effortCosts = map[string]float64{
	EffortLow:    5000,
	EffortMedium: 15000,
	EffortHigh:   50000,
}
