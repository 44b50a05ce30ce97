package trends

// Granularity is the period bucketing for trend analysis.
type Granularity string

const (
	Daily     Granularity = "daily"
	Weekly    Granularity = "weekly"
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
	Yearly    Granularity = "yearly"
)

// IsValid reports whether g is a recognized granularity.
func (g Granularity) IsValid() bool {
	switch g {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// Trend directions.
const (
	DirectionIncreasing       = "increasing"
	DirectionDecreasing       = "decreasing"
	DirectionStable           = "stable"
	DirectionInsufficientData = "insufficient_data"
)

// Metric names of the tracked series, in report order.
const (
	MetricVolume         = "volume"
	MetricTotalAmount    = "total_amount"
	MetricMeanAmount     = "mean_amount"
	MetricApprovalRate   = "approval_rate"
	MetricRejectionRate  = "rejection_rate"
	MetricProcessingDays = "processing_days"
)

// metricOrder fixes the order metrics appear in every report section.
var metricOrder = []string{
	MetricVolume,
	MetricTotalAmount,
	MetricMeanAmount,
	MetricApprovalRate,
	MetricRejectionRate,
	MetricProcessingDays,
}

// PeriodStats aggregates one time period of the dataset.
type PeriodStats struct {
	Period               string  `json:"period"`
	Claims               int     `json:"claims"`
	TotalAmount          float64 `json:"total_amount"`
	MeanAmount           float64 `json:"mean_amount"`
	MedianAmount         float64 `json:"median_amount"`
	ApprovalRate         float64 `json:"approval_rate"`
	RejectionRate        float64 `json:"rejection_rate"`
	MeanProcessingDays   float64 `json:"mean_processing_days"`
	MedianProcessingDays float64 `json:"median_processing_days"`
}

// Change is one period-over-period movement of a metric series. Pct is
// nil when the previous value was exactly zero; the absolute change is
// still reported.
type Change struct {
	Period   string   `json:"period"`
	Absolute float64  `json:"absolute"`
	Pct      *float64 `json:"pct,omitempty"`
}

// MetricTrend classifies one metric series over the analysis window.
type MetricTrend struct {
	Metric       string   `json:"metric"`
	Direction    string   `json:"direction"`
	MeanChange   float64  `json:"mean_change"`
	RecentChange float64  `json:"recent_change"`
	TotalChange  float64  `json:"total_change"`
	Changes      []Change `json:"changes,omitempty"`
}

// Pattern names.
const (
	PatternVolumeSurge        = "volume_surge"
	PatternVolumeDecline      = "volume_decline"
	PatternDecliningApprovals = "declining_approvals"
	PatternImprovingApprovals = "improving_approvals"
	PatternSlowingProcessing  = "slowing_processing"
)

// Pattern is a flagged movement worth the operations team's attention.
type Pattern struct {
	Name        string  `json:"name"`
	Metric      string  `json:"metric"`
	MeanChange  float64 `json:"mean_change"`
	Description string  `json:"description"`
}

// Forecast is a short-horizon linear projection of the volume series.
type Forecast struct {
	Metric       string    `json:"metric"`
	BasisPeriods int       `json:"basis_periods"`
	Projected    []float64 `json:"projected"`
}

// MetricDelta compares the current period with the previous one for a
// single metric.
type MetricDelta struct {
	Metric   string   `json:"metric"`
	Current  float64  `json:"current"`
	Previous float64  `json:"previous"`
	Absolute float64  `json:"absolute"`
	Pct      *float64 `json:"pct,omitempty"`
}

// PeriodValue names the period holding a metric's extreme value.
type PeriodValue struct {
	Metric string  `json:"metric"`
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// Comparison holds the current-vs-previous deltas and the best/worst
// period per metric over the window.
type Comparison struct {
	CurrentVsPrevious []MetricDelta `json:"current_vs_previous"`
	BestPeriods       []PeriodValue `json:"best_periods"`
	WorstPeriods      []PeriodValue `json:"worst_periods"`
}

// Report is the Trend Analyzer output. Periods are chronological after
// most-recent-first window truncation.
type Report struct {
	Granularity Granularity   `json:"granularity"`
	Window      int           `json:"window"`
	Periods     []PeriodStats `json:"periods"`
	Trends      []MetricTrend `json:"trends"`
	Patterns    []Pattern     `json:"patterns"`
	Forecast    *Forecast     `json:"forecast,omitempty"`
	Comparison  *Comparison   `json:"comparison,omitempty"`
}

// Classification and pattern thresholds, in percent.
const (
	DirectionThreshold      = 5.0
	VolumePatternThreshold  = 10.0
	ApprovalPatternThreshold = 2.0
	ProcessingPatternThreshold = 5.0

	// ForecastBasis is how many trailing periods feed the projection,
	// and ForecastHorizon how many periods it extends.
	ForecastBasis   = 3
	ForecastHorizon = 3
)
