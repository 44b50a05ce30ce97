package analytics

import (
	"time"

	"claimsight/internal/claims"
)

// DateSpan is the claim-date range covered by the snapshot.
type DateSpan struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	Days int       `json:"days"`
}

// StatusCount is one row of the status distribution.
type StatusCount struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BasicStatistics summarizes the snapshot: counts, date span, status mix
// and how many records had coerced-to-missing fields.
type BasicStatistics struct {
	TotalClaims        int                       `json:"total_claims"`
	DateSpan           *DateSpan                 `json:"date_span,omitempty"`
	StatusDistribution map[string]StatusCount    `json:"status_distribution"`
	ClaimTypes         map[string]int            `json:"claim_types"`
	MissingFields      claims.MissingFieldCounts `json:"missing_fields"`
}

// ReasonCount is a rejection reason with its share of the rejected subset.
type ReasonCount struct {
	Reason     string  `json:"reason"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// StatusAnalysis carries the count-based rates and the most frequent
// rejection reasons. Rates are percentages of the full snapshot; reason
// percentages are of the rejected subset.
type StatusAnalysis struct {
	ApprovalRate        float64       `json:"approval_rate"`
	RejectionRate       float64       `json:"rejection_rate"`
	PendingRate         float64       `json:"pending_rate"`
	UnderReviewRate     float64       `json:"under_review_rate"`
	TopRejectionReasons []ReasonCount `json:"top_rejection_reasons"`
}

// BucketCount is one row of a fixed-range distribution.
type BucketCount struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AmountAnalysis describes the claim amount distribution over records
// that carry a parseable amount. High-value claims are those at or above
// the 95th percentile of observed amounts.
type AmountAnalysis struct {
	ValidAmounts       int           `json:"valid_amounts"`
	TotalAmount        float64       `json:"total_amount"`
	MeanAmount         float64       `json:"mean_amount"`
	MedianAmount       float64       `json:"median_amount"`
	Distribution       []BucketCount `json:"distribution"`
	HighValueThreshold float64       `json:"high_value_threshold"`
	HighValueCount     int           `json:"high_value_count"`
	HighValueTotal     float64       `json:"high_value_total"`
}

// TimeAnalysis describes processing times over records with both dates
// present. Delayed claims took longer than 30 days to disposition.
type TimeAnalysis struct {
	ProcessedClaims   int           `json:"processed_claims"`
	MeanDays          float64       `json:"mean_days"`
	MedianDays        float64       `json:"median_days"`
	Distribution      []BucketCount `json:"distribution"`
	DelayedCount      int           `json:"delayed_count"`
	DelayedPercentage float64       `json:"delayed_percentage"`
}

// ProviderStats is the per-provider aggregate.
type ProviderStats struct {
	ProviderID   string  `json:"provider_id"`
	Claims       int     `json:"claims"`
	TotalAmount  float64 `json:"total_amount"`
	ApprovalRate float64 `json:"approval_rate"`
}

// ProviderAnalysis ranks providers by volume and approval rate. The
// best/worst rankings only consider providers with at least MinProviderClaims
// claims so a provider with one lucky approval does not top the list.
type ProviderAnalysis struct {
	TotalProviders int             `json:"total_providers"`
	TopByVolume    []ProviderStats `json:"top_by_volume"`
	BestApproval   []ProviderStats `json:"best_approval"`
	WorstApproval  []ProviderStats `json:"worst_approval"`
}

// Report is the Claim Analysis Engine output.
type Report struct {
	Basic     *BasicStatistics  `json:"basic_statistics"`
	Status    *StatusAnalysis   `json:"status_analysis"`
	Amounts   *AmountAnalysis   `json:"amount_analysis"`
	Timing    *TimeAnalysis     `json:"time_analysis"`
	Providers *ProviderAnalysis `json:"provider_analysis"`
}

const (
	// MinProviderClaims is the sample-size floor for approval-rate rankings.
	MinProviderClaims = 10

	// DelayedThresholdDays marks a claim as delayed.
	DelayedThresholdDays = 30
)
