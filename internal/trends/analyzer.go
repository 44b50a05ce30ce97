// Package trends buckets a claim snapshot into time periods and
// classifies the directionality of each metric series, flags notable
// movements and projects claim volume over a short horizon.
package trends

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"claimsight/internal/claims"
	"claimsight/internal/stats"
)

// DefaultWindow is the number of most recent periods analyzed when the
// caller does not override it.
const DefaultWindow = 12

// Analyzer buckets claims into periods and classifies metric trends.
type Analyzer struct {
	granularity Granularity
	window      int
	logger      *slog.Logger
}

// NewAnalyzer creates an analyzer. Unknown granularities fall back to
// monthly, non-positive windows to DefaultWindow.
func NewAnalyzer(granularity Granularity, window int, logger *slog.Logger) *Analyzer {
	if !granularity.IsValid() {
		granularity = Monthly
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{granularity: granularity, window: window, logger: logger}
}

// Analyze computes the trend report. Records without a claim date are
// excluded from bucketing; an empty dataset returns claims.ErrNoData.
func (a *Analyzer) Analyze(ctx context.Context, ds *claims.Dataset) (*Report, error) {
	if ds.Len() == 0 {
		return nil, claims.ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	periods := a.bucket(ds)
	a.logger.InfoContext(ctx, "bucketed claims into periods",
		"granularity", string(a.granularity),
		"periods", len(periods),
		"window", a.window,
	)

	report := &Report{
		Granularity: a.granularity,
		Window:      a.window,
		Periods:     periods,
	}

	if len(periods) < 2 {
		for _, metric := range metricOrder {
			report.Trends = append(report.Trends, MetricTrend{
				Metric:    metric,
				Direction: DirectionInsufficientData,
			})
		}
		report.Patterns = []Pattern{}
		return report, nil
	}

	for _, metric := range metricOrder {
		report.Trends = append(report.Trends, a.trendFor(metric, periods))
	}
	report.Patterns = a.detectPatterns(report.Trends)
	report.Forecast = a.forecastVolume(periods)
	report.Comparison = a.compare(periods)
	return report, nil
}

// bucket partitions records by claim date, aggregates each period and
// truncates to the most recent window periods. The result is chronological.
func (a *Analyzer) bucket(ds *claims.Dataset) []PeriodStats {
	grouped := make(map[string][]claims.Record)
	for _, r := range ds.Records() {
		if r.ClaimDate == nil {
			continue
		}
		key := a.periodKey(r)
		grouped[key] = append(grouped[key], r)
	}

	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > a.window {
		keys = keys[len(keys)-a.window:]
	}

	periods := make([]PeriodStats, 0, len(keys))
	for _, key := range keys {
		periods = append(periods, aggregatePeriod(key, grouped[key]))
	}
	return periods
}

func (a *Analyzer) periodKey(r claims.Record) string {
	t := *r.ClaimDate
	switch a.granularity {
	case Daily:
		return t.Format("2006-01-02")
	case Weekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case Quarterly:
		return fmt.Sprintf("%04d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case Yearly:
		return fmt.Sprintf("%04d", t.Year())
	default:
		return t.Format("2006-01")
	}
}

func aggregatePeriod(key string, records []claims.Record) PeriodStats {
	ps := PeriodStats{Period: key, Claims: len(records)}

	var amounts, days []float64
	var approved, rejected int
	for _, r := range records {
		if r.HasAmount() {
			amounts = append(amounts, r.AmountValue())
		}
		if d, ok := r.ProcessingDays(); ok {
			days = append(days, d)
		}
		switch r.Status {
		case claims.StatusApproved:
			approved++
		case claims.StatusRejected:
			rejected++
		}
	}

	ps.TotalAmount = stats.Sum(amounts)
	ps.MeanAmount = stats.Round2(stats.Mean(amounts))
	ps.MedianAmount = stats.Round2(stats.Median(amounts))
	ps.ApprovalRate = stats.PctOf(float64(approved), float64(len(records)))
	ps.RejectionRate = stats.PctOf(float64(rejected), float64(len(records)))
	ps.MeanProcessingDays = stats.Round2(stats.Mean(days))
	ps.MedianProcessingDays = stats.Round2(stats.Median(days))
	return ps
}

func metricValue(ps PeriodStats, metric string) float64 {
	switch metric {
	case MetricVolume:
		return float64(ps.Claims)
	case MetricTotalAmount:
		return ps.TotalAmount
	case MetricMeanAmount:
		return ps.MeanAmount
	case MetricApprovalRate:
		return ps.ApprovalRate
	case MetricRejectionRate:
		return ps.RejectionRate
	case MetricProcessingDays:
		return ps.MeanProcessingDays
	}
	return 0
}

// trendFor classifies one metric series. The direction comes from the
// mean of the defined period-over-period percentage changes: strictly
// above +5% is increasing, strictly below -5% decreasing, anything else
// stable. A previous value of exactly zero contributes no percentage
// change, only an absolute one.
func (a *Analyzer) trendFor(metric string, periods []PeriodStats) MetricTrend {
	trend := MetricTrend{Metric: metric}

	var pcts []float64
	for i := 1; i < len(periods); i++ {
		prev := metricValue(periods[i-1], metric)
		cur := metricValue(periods[i], metric)

		change := Change{
			Period:   periods[i].Period,
			Absolute: stats.Round2(cur - prev),
		}
		if pct, ok := stats.PctChange(prev, cur); ok {
			rounded := stats.Round2(pct)
			change.Pct = &rounded
			pcts = append(pcts, pct)
		}
		trend.Changes = append(trend.Changes, change)
	}

	trend.MeanChange = stats.Round2(stats.Mean(pcts))
	if len(pcts) > 0 {
		trend.RecentChange = stats.Round2(pcts[len(pcts)-1])
	}
	first := metricValue(periods[0], metric)
	last := metricValue(periods[len(periods)-1], metric)
	if pct, ok := stats.PctChange(first, last); ok {
		trend.TotalChange = stats.Round2(pct)
	}

	mean := stats.Mean(pcts)
	switch {
	case mean > DirectionThreshold:
		trend.Direction = DirectionIncreasing
	case mean < -DirectionThreshold:
		trend.Direction = DirectionDecreasing
	default:
		trend.Direction = DirectionStable
	}
	return trend
}

// detectPatterns flags movements the operations team should look at.
func (a *Analyzer) detectPatterns(metricTrends []MetricTrend) []Pattern {
	patterns := []Pattern{}
	byMetric := make(map[string]MetricTrend, len(metricTrends))
	for _, t := range metricTrends {
		byMetric[t.Metric] = t
	}

	if t, ok := byMetric[MetricVolume]; ok {
		switch {
		case t.Direction == DirectionIncreasing && t.MeanChange > VolumePatternThreshold:
			patterns = append(patterns, Pattern{
				Name:        PatternVolumeSurge,
				Metric:      MetricVolume,
				MeanChange:  t.MeanChange,
				Description: fmt.Sprintf("claim volume rising %.1f%% per period on average", t.MeanChange),
			})
		case t.Direction == DirectionDecreasing && t.MeanChange < -VolumePatternThreshold:
			patterns = append(patterns, Pattern{
				Name:        PatternVolumeDecline,
				Metric:      MetricVolume,
				MeanChange:  t.MeanChange,
				Description: fmt.Sprintf("claim volume falling %.1f%% per period on average", -t.MeanChange),
			})
		}
	}

	if t, ok := byMetric[MetricApprovalRate]; ok {
		switch {
		case t.MeanChange < -ApprovalPatternThreshold:
			patterns = append(patterns, Pattern{
				Name:        PatternDecliningApprovals,
				Metric:      MetricApprovalRate,
				MeanChange:  t.MeanChange,
				Description: fmt.Sprintf("approval rate declining %.1f%% per period on average", -t.MeanChange),
			})
		case t.MeanChange > ApprovalPatternThreshold:
			patterns = append(patterns, Pattern{
				Name:        PatternImprovingApprovals,
				Metric:      MetricApprovalRate,
				MeanChange:  t.MeanChange,
				Description: fmt.Sprintf("approval rate improving %.1f%% per period on average", t.MeanChange),
			})
		}
	}

	if t, ok := byMetric[MetricProcessingDays]; ok {
		if t.MeanChange > ProcessingPatternThreshold {
			patterns = append(patterns, Pattern{
				Name:        PatternSlowingProcessing,
				Metric:      MetricProcessingDays,
				MeanChange:  t.MeanChange,
				Description: fmt.Sprintf("processing time growing %.1f%% per period on average", t.MeanChange),
			})
		}
	}
	return patterns
}

// forecastVolume projects the volume series forward by averaging the
// consecutive deltas of the trailing basis periods. Projections are
// floored at zero; fewer than ForecastBasis periods yield no forecast.
func (a *Analyzer) forecastVolume(periods []PeriodStats) *Forecast {
	if len(periods) < ForecastBasis {
		return nil
	}
	tail := periods[len(periods)-ForecastBasis:]

	var deltas []float64
	for i := 1; i < len(tail); i++ {
		deltas = append(deltas, float64(tail[i].Claims-tail[i-1].Claims))
	}
	step := stats.Mean(deltas)

	f := &Forecast{Metric: MetricVolume, BasisPeriods: ForecastBasis}
	last := float64(tail[len(tail)-1].Claims)
	for i := 1; i <= ForecastHorizon; i++ {
		projected := last + step*float64(i)
		if projected < 0 {
			projected = 0
		}
		f.Projected = append(f.Projected, stats.Round2(projected))
	}
	return f
}

// compare builds the current-vs-previous deltas and best/worst period
// lookup per metric.
func (a *Analyzer) compare(periods []PeriodStats) *Comparison {
	cmp := &Comparison{}
	current := periods[len(periods)-1]
	previous := periods[len(periods)-2]

	for _, metric := range metricOrder {
		cur := metricValue(current, metric)
		prev := metricValue(previous, metric)
		delta := MetricDelta{
			Metric:   metric,
			Current:  cur,
			Previous: prev,
			Absolute: stats.Round2(cur - prev),
		}
		if pct, ok := stats.PctChange(prev, cur); ok {
			rounded := stats.Round2(pct)
			delta.Pct = &rounded
		}
		cmp.CurrentVsPrevious = append(cmp.CurrentVsPrevious, delta)

		best, worst := periods[0], periods[0]
		for _, ps := range periods[1:] {
			if metricValue(ps, metric) > metricValue(best, metric) {
				best = ps
			}
			if metricValue(ps, metric) < metricValue(worst, metric) {
				worst = ps
			}
		}
		cmp.BestPeriods = append(cmp.BestPeriods, PeriodValue{
			Metric: metric, Period: best.Period, Value: metricValue(best, metric),
		})
		cmp.WorstPeriods = append(cmp.WorstPeriods, PeriodValue{
			Metric: metric, Period: worst.Period, Value: metricValue(worst, metric),
		})
	}
	return cmp
}
