// Package rejections isolates rejected claims, categorizes their
// free-text reasons against a fixed priority-ordered keyword table and
// ranks root causes by severity.
package rejections

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"claimsight/internal/analytics"
	"claimsight/internal/claims"
	"claimsight/internal/stats"
)

// Detector analyzes rejection patterns in a claim snapshot.
type Detector struct {
	topN   int
	logger *slog.Logger
}

// NewDetector creates a detector. topN bounds ranked lists; values
// below 1 fall back to 10.
func NewDetector(topN int, logger *slog.Logger) *Detector {
	if topN < 1 {
		topN = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{topN: topN, logger: logger}
}

// Analyze builds the rejection report. An empty dataset returns
// claims.ErrNoData; a dataset with no rejected claims returns a
// zero-rejection report.
func (d *Detector) Analyze(ctx context.Context, ds *claims.Dataset) (*Report, error) {
	if ds.Len() == 0 {
		return nil, claims.ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rejected := ds.Rejected()
	d.logger.InfoContext(ctx, "starting rejection analysis",
		"total_claims", ds.Len(),
		"rejected_claims", len(rejected),
	)

	report := &Report{
		TotalRejections: len(rejected),
		Categories:      []CategoryCount{},
		TopReasons:      []ReasonCount{},
		Providers:       []ProviderRejections{},
		AmountBands:     []BandCount{},
		RootCauses:      []RootCause{},
	}
	if len(rejected) == 0 {
		return report, nil
	}

	report.Categories = d.categorize(rejected)
	report.TopReasons = d.topReasons(rejected)
	report.Temporal = d.temporal(rejected)
	report.Providers = d.providerProfiles(rejected)
	report.AmountBands, report.HighValue = d.amountAnalysis(rejected)
	report.RootCauses = rootCauses(report.Categories)
	return report, nil
}

func (d *Detector) categorize(rejected []claims.Record) []CategoryCount {
	counts := make(map[string]int)
	for _, r := range rejected {
		category, _ := Categorize(r.RejectionReason)
		counts[category]++
	}

	total := float64(len(rejected))
	out := []CategoryCount{}
	for _, category := range append(Categories(), CategoryUncategorized) {
		n := counts[category]
		if n == 0 {
			continue
		}
		out = append(out, CategoryCount{
			Category:   category,
			Count:      n,
			Percentage: stats.PctOf(float64(n), total),
		})
	}
	return out
}

func (d *Detector) topReasons(rejected []claims.Record) []ReasonCount {
	counts := make(map[string]int)
	for _, r := range rejected {
		if r.RejectionReason != "" {
			counts[r.RejectionReason]++
		}
	}

	ranked := make([]ReasonCount, 0, len(counts))
	for reason, n := range counts {
		ranked = append(ranked, ReasonCount{
			Reason:     reason,
			Count:      n,
			Percentage: stats.PctOf(float64(n), float64(len(rejected))),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Reason < ranked[j].Reason
	})
	if len(ranked) > d.topN {
		ranked = ranked[:d.topN]
	}
	return ranked
}

func (d *Detector) temporal(rejected []claims.Record) TemporalDistribution {
	monthly := make(map[string]int)
	weekday := make(map[time.Weekday]int)
	for _, r := range rejected {
		if r.ClaimDate == nil {
			continue
		}
		monthly[r.ClaimDate.Format("2006-01")]++
		weekday[r.ClaimDate.Weekday()]++
	}

	td := TemporalDistribution{Monthly: []PeriodCount{}, Weekday: []WeekdayCount{}}

	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		td.Monthly = append(td.Monthly, PeriodCount{Period: m, Count: monthly[m]})
	}

	peak := -1
	for day := time.Sunday; day <= time.Saturday; day++ {
		n := weekday[day]
		if n == 0 {
			continue
		}
		td.Weekday = append(td.Weekday, WeekdayCount{Day: day.String(), Count: n})
		if n > peak {
			peak = n
			td.PeakDay = day.String()
		}
	}
	return td
}

func (d *Detector) providerProfiles(rejected []claims.Record) []ProviderRejections {
	byProvider := make(map[string][]claims.Record)
	for _, r := range rejected {
		if r.ProviderID != "" {
			byProvider[r.ProviderID] = append(byProvider[r.ProviderID], r)
		}
	}

	profiles := make([]ProviderRejections, 0, len(byProvider))
	for id, records := range byProvider {
		reasonCounts := make(map[string]int)
		for _, r := range records {
			if r.RejectionReason != "" {
				reasonCounts[r.RejectionReason]++
			}
		}
		reasons := make([]ReasonCount, 0, len(reasonCounts))
		for reason, n := range reasonCounts {
			reasons = append(reasons, ReasonCount{
				Reason:     reason,
				Count:      n,
				Percentage: stats.PctOf(float64(n), float64(len(records))),
			})
		}
		sort.Slice(reasons, func(i, j int) bool {
			if reasons[i].Count != reasons[j].Count {
				return reasons[i].Count > reasons[j].Count
			}
			return reasons[i].Reason < reasons[j].Reason
		})
		if len(reasons) > 3 {
			reasons = reasons[:3]
		}
		profiles = append(profiles, ProviderRejections{
			ProviderID: id,
			Count:      len(records),
			TopReasons: reasons,
		})
	}

	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Count != profiles[j].Count {
			return profiles[i].Count > profiles[j].Count
		}
		return profiles[i].ProviderID < profiles[j].ProviderID
	})
	if len(profiles) > d.topN {
		profiles = profiles[:d.topN]
	}
	return profiles
}

func (d *Detector) amountAnalysis(rejected []claims.Record) ([]BandCount, HighValueRejections) {
	bands := make(map[string]*BandCount)
	var amounts []float64
	for _, r := range rejected {
		if !r.HasAmount() {
			continue
		}
		amount := r.AmountValue()
		amounts = append(amounts, amount)
		label := analytics.AmountBucketLabel(amount)
		b := bands[label]
		if b == nil {
			b = &BandCount{Label: label}
			bands[label] = b
		}
		b.Count++
		b.Total += amount
	}

	ordered := []BandCount{}
	for _, label := range []string{"0-1000", "1000-5000", "5000-10000", "10000+"} {
		if b, ok := bands[label]; ok {
			ordered = append(ordered, *b)
		}
	}

	hv := HighValueRejections{}
	if len(amounts) > 0 {
		hv.Threshold = stats.Round2(stats.Percentile(amounts, 90))
		for _, a := range amounts {
			if a >= hv.Threshold {
				hv.Count++
				hv.Total += a
			}
		}
	}
	return ordered, hv
}

// rootCauses assigns a severity tier to each category by its share of
// the rejected subset. Each tier seeds a recommendation downstream.
func rootCauses(categories []CategoryCount) []RootCause {
	causes := make([]RootCause, 0, len(categories))
	for _, c := range categories {
		if c.Category == CategoryUncategorized {
			continue
		}
		cause := RootCause{
			Category:   c.Category,
			Count:      c.Count,
			Percentage: c.Percentage,
		}
		switch {
		case c.Percentage > SeverityHighThreshold:
			cause.Severity = SeverityHigh
			cause.Classification = ClassificationCritical
		case c.Percentage >= SeverityMediumThreshold:
			cause.Severity = SeverityMedium
			cause.Classification = ClassificationSignificant
		default:
			cause.Severity = SeverityLow
			cause.Classification = ClassificationModerate
		}
		causes = append(causes, cause)
	}
	sort.Slice(causes, func(i, j int) bool {
		if causes[i].Count != causes[j].Count {
			return causes[i].Count > causes[j].Count
		}
		return causes[i].Category < causes[j].Category
	})
	return causes
}
