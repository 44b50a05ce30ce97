// Package analytics computes the baseline descriptive statistics of a
// claim snapshot: status mix, amount distribution, processing-time
// distribution and provider performance. It is purely computational and
// performs no I/O.
package analytics

import (
	"context"
	"log/slog"
	"sort"

	"claimsight/internal/claims"
	"claimsight/internal/stats"
)

// Engine computes the baseline claim statistics.
type Engine struct {
	topN   int
	logger *slog.Logger
}

// NewEngine creates an engine. topN bounds ranked lists (rejection
// reasons, providers by volume); values below 1 fall back to 10.
func NewEngine(topN int, logger *slog.Logger) *Engine {
	if topN < 1 {
		topN = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{topN: topN, logger: logger}
}

// Analyze computes all five analyses over the dataset. An empty dataset
// returns claims.ErrNoData so the caller can record a structured stage
// failure instead of aborting.
func (e *Engine) Analyze(ctx context.Context, ds *claims.Dataset) (*Report, error) {
	if ds.Len() == 0 {
		return nil, claims.ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "starting claim analysis",
		"total_claims", ds.Len(),
	)

	report := &Report{
		Basic:     e.basicStatistics(ds),
		Status:    e.statusAnalysis(ds),
		Amounts:   e.amountAnalysis(ds),
		Timing:    e.timeAnalysis(ds),
		Providers: e.providerAnalysis(ds),
	}

	e.logger.InfoContext(ctx, "claim analysis complete",
		"approval_rate", report.Status.ApprovalRate,
		"rejection_rate", report.Status.RejectionRate,
	)
	return report, nil
}

func (e *Engine) basicStatistics(ds *claims.Dataset) *BasicStatistics {
	total := ds.Len()

	dist := make(map[string]StatusCount)
	types := make(map[string]int)
	for _, r := range ds.Records() {
		sc := dist[string(r.Status)]
		sc.Count++
		dist[string(r.Status)] = sc
		if r.ClaimType != "" {
			types[r.ClaimType]++
		}
	}
	for status, sc := range dist {
		sc.Percentage = stats.PctOf(float64(sc.Count), float64(total))
		dist[status] = sc
	}

	bs := &BasicStatistics{
		TotalClaims:        total,
		StatusDistribution: dist,
		ClaimTypes:         types,
		MissingFields:      ds.MissingFields(),
	}

	if from, to, ok := ds.DateSpan(); ok {
		bs.DateSpan = &DateSpan{
			From: from,
			To:   to,
			Days: int(to.Sub(from).Hours() / 24),
		}
	}
	return bs
}

func (e *Engine) statusAnalysis(ds *claims.Dataset) *StatusAnalysis {
	total := float64(ds.Len())

	counts := make(map[claims.Status]int)
	reasons := make(map[string]int)
	for _, r := range ds.Records() {
		counts[r.Status]++
		if r.IsRejected() && r.RejectionReason != "" {
			reasons[r.RejectionReason]++
		}
	}

	rejected := counts[claims.StatusRejected]
	sa := &StatusAnalysis{
		ApprovalRate:    stats.PctOf(float64(counts[claims.StatusApproved]), total),
		RejectionRate:   stats.PctOf(float64(rejected), total),
		PendingRate:     stats.PctOf(float64(counts[claims.StatusPending]), total),
		UnderReviewRate: stats.PctOf(float64(counts[claims.StatusUnderReview]), total),
	}

	ranked := make([]ReasonCount, 0, len(reasons))
	for reason, count := range reasons {
		ranked = append(ranked, ReasonCount{
			Reason:     reason,
			Count:      count,
			Percentage: stats.PctOf(float64(count), float64(rejected)),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Reason < ranked[j].Reason
	})
	if len(ranked) > e.topN {
		ranked = ranked[:e.topN]
	}
	sa.TopRejectionReasons = ranked
	return sa
}

// amountBuckets are the four fixed claim amount ranges.
var amountBuckets = []struct {
	label string
	low   float64
	high  float64 // exclusive; <0 means unbounded
}{
	{"0-1000", 0, 1000},
	{"1000-5000", 1000, 5000},
	{"5000-10000", 5000, 10000},
	{"10000+", 10000, -1},
}

// AmountBucketLabel returns the fixed range label for an amount.
func AmountBucketLabel(amount float64) string {
	for _, b := range amountBuckets {
		if amount >= b.low && (b.high < 0 || amount < b.high) {
			return b.label
		}
	}
	return amountBuckets[0].label
}

func (e *Engine) amountAnalysis(ds *claims.Dataset) *AmountAnalysis {
	amounts := ds.Amounts()
	aa := &AmountAnalysis{ValidAmounts: len(amounts)}
	if len(amounts) == 0 {
		return aa
	}

	aa.TotalAmount = stats.Sum(amounts)
	aa.MeanAmount = stats.Round2(stats.Mean(amounts))
	aa.MedianAmount = stats.Round2(stats.Median(amounts))

	counts := make(map[string]int)
	for _, a := range amounts {
		counts[AmountBucketLabel(a)]++
	}
	for _, b := range amountBuckets {
		aa.Distribution = append(aa.Distribution, BucketCount{
			Label:      b.label,
			Count:      counts[b.label],
			Percentage: stats.PctOf(float64(counts[b.label]), float64(len(amounts))),
		})
	}

	aa.HighValueThreshold = stats.Round2(stats.Percentile(amounts, 95))
	for _, a := range amounts {
		if a >= aa.HighValueThreshold {
			aa.HighValueCount++
			aa.HighValueTotal += a
		}
	}
	return aa
}

// timeBuckets are the fixed processing-time ranges in days.
var timeBuckets = []struct {
	label string
	low   float64
	high  float64 // exclusive; <0 means unbounded
}{
	{"fast", 0, 7},
	{"normal", 7, 14},
	{"slow", 14, 30},
	{"very_slow", 30, -1},
}

func (e *Engine) timeAnalysis(ds *claims.Dataset) *TimeAnalysis {
	var days []float64
	for _, r := range ds.Records() {
		if d, ok := r.ProcessingDays(); ok {
			days = append(days, d)
		}
	}

	ta := &TimeAnalysis{ProcessedClaims: len(days)}
	if len(days) == 0 {
		return ta
	}

	ta.MeanDays = stats.Round2(stats.Mean(days))
	ta.MedianDays = stats.Round2(stats.Median(days))

	counts := make(map[string]int)
	for _, d := range days {
		for _, b := range timeBuckets {
			if d >= b.low && (b.high < 0 || d < b.high) {
				counts[b.label]++
				break
			}
		}
		if d > DelayedThresholdDays {
			ta.DelayedCount++
		}
	}
	for _, b := range timeBuckets {
		ta.Distribution = append(ta.Distribution, BucketCount{
			Label:      b.label,
			Count:      counts[b.label],
			Percentage: stats.PctOf(float64(counts[b.label]), float64(len(days))),
		})
	}
	ta.DelayedPercentage = stats.PctOf(float64(ta.DelayedCount), float64(len(days)))
	return ta
}

func (e *Engine) providerAnalysis(ds *claims.Dataset) *ProviderAnalysis {
	type acc struct {
		claims   int
		approved int
		amount   float64
	}
	byProvider := make(map[string]*acc)
	for _, r := range ds.Records() {
		if r.ProviderID == "" {
			continue
		}
		a := byProvider[r.ProviderID]
		if a == nil {
			a = &acc{}
			byProvider[r.ProviderID] = a
		}
		a.claims++
		a.amount += r.AmountValue()
		if r.Status == claims.StatusApproved {
			a.approved++
		}
	}

	all := make([]ProviderStats, 0, len(byProvider))
	for id, a := range byProvider {
		all = append(all, ProviderStats{
			ProviderID:   id,
			Claims:       a.claims,
			TotalAmount:  a.amount,
			ApprovalRate: stats.PctOf(float64(a.approved), float64(a.claims)),
		})
	}

	pa := &ProviderAnalysis{TotalProviders: len(all)}

	byVolume := make([]ProviderStats, len(all))
	copy(byVolume, all)
	sort.Slice(byVolume, func(i, j int) bool {
		if byVolume[i].Claims != byVolume[j].Claims {
			return byVolume[i].Claims > byVolume[j].Claims
		}
		return byVolume[i].ProviderID < byVolume[j].ProviderID
	})
	if len(byVolume) > e.topN {
		byVolume = byVolume[:e.topN]
	}
	pa.TopByVolume = byVolume

	// Approval-rate rankings need a sample-size floor to exclude
	// small-provider noise.
	var eligible []ProviderStats
	for _, p := range all {
		if p.Claims >= MinProviderClaims {
			eligible = append(eligible, p)
		}
	}
	best := make([]ProviderStats, len(eligible))
	copy(best, eligible)
	sort.Slice(best, func(i, j int) bool {
		if best[i].ApprovalRate != best[j].ApprovalRate {
			return best[i].ApprovalRate > best[j].ApprovalRate
		}
		return best[i].ProviderID < best[j].ProviderID
	})
	worst := make([]ProviderStats, len(eligible))
	copy(worst, eligible)
	sort.Slice(worst, func(i, j int) bool {
		if worst[i].ApprovalRate != worst[j].ApprovalRate {
			return worst[i].ApprovalRate < worst[j].ApprovalRate
		}
		return worst[i].ProviderID < worst[j].ProviderID
	})

	const rankSize = 5
	if len(best) > rankSize {
		best = best[:rankSize]
	}
	if len(worst) > rankSize {
		worst = worst[:rankSize]
	}
	pa.BestApproval = best
	pa.WorstApproval = worst
	return pa
}
