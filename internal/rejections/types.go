package rejections

// CategoryCount is one row of the category histogram. Percentage is of
// total rejections.
type CategoryCount struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ReasonCount is a raw rejection reason with its share of total
// rejections.
type ReasonCount struct {
	Reason     string  `json:"reason"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// PeriodCount is a month bucket of rejections.
type PeriodCount struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// WeekdayCount is a day-of-week bucket of rejections.
type WeekdayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// TemporalDistribution shows when rejections happen: per month, per
// day of week and the peak day.
type TemporalDistribution struct {
	Monthly []PeriodCount  `json:"monthly"`
	Weekday []WeekdayCount `json:"weekday"`
	PeakDay string         `json:"peak_day,omitempty"`
}

// ProviderRejections profiles a provider's rejections with its most
// frequent reasons.
type ProviderRejections struct {
	ProviderID string        `json:"provider_id"`
	Count      int           `json:"count"`
	TopReasons []ReasonCount `json:"top_reasons"`
}

// BandCount is one row of the amount-banded rejection distribution.
type BandCount struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// HighValueRejections is the subset of rejections at or above the 90th
// percentile of rejected claim amounts.
type HighValueRejections struct {
	Threshold float64 `json:"threshold"`
	Count     int     `json:"count"`
	Total     float64 `json:"total"`
}

// Severity tiers for root causes, driven by a category's share of total
// rejections.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"

	ClassificationCritical    = "critical"
	ClassificationSignificant = "significant"
	ClassificationModerate    = "moderate"
)

// RootCause ranks a rejection category by its severity. Percentage is
// of the rejected subset, not of all claims.
type RootCause struct {
	Category       string  `json:"category"`
	Count          int     `json:"count"`
	Percentage     float64 `json:"percentage"`
	Severity       string  `json:"severity"`
	Classification string  `json:"classification"`
}

// Report is the Rejection Pattern Detector output. A dataset with no
// rejected claims yields a zero-valued report, not a failure.
type Report struct {
	TotalRejections int                  `json:"total_rejections"`
	Categories      []CategoryCount      `json:"categories"`
	TopReasons      []ReasonCount        `json:"top_reasons"`
	Temporal        TemporalDistribution `json:"temporal"`
	Providers       []ProviderRejections `json:"providers"`
	AmountBands     []BandCount          `json:"amount_bands"`
	HighValue       HighValueRejections  `json:"high_value"`
	RootCauses      []RootCause          `json:"root_causes"`
}

// Severity thresholds as percentage of total rejections.
const (
	SeverityHighThreshold   = 30.0
	SeverityMediumThreshold = 15.0
)
