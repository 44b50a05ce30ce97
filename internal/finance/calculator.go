// Package finance translates the status and amount data of a claim
// snapshot into revenue, cost-of-rejection and processing-waste figures,
// and prices candidate interventions by ROI.
package finance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"claimsight/internal/claims"
	"claimsight/internal/stats"
)

// Calculator computes the financial impact of the snapshot.
type Calculator struct {
	processingCost float64
	appealCost     float64
	topN           int
	logger         *slog.Logger
}

// NewCalculator creates a calculator. Negative costs fall back to the
// defaults; topN below 1 falls back to 10.
func NewCalculator(processingCost, appealCost float64, topN int, logger *slog.Logger) *Calculator {
	if processingCost < 0 {
		processingCost = DefaultProcessingCost
	}
	if appealCost < 0 {
		appealCost = DefaultAppealCost
	}
	if topN < 1 {
		topN = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{
		processingCost: processingCost,
		appealCost:     appealCost,
		topN:           topN,
		logger:         logger,
	}
}

// Analyze computes the financial report. An empty dataset returns
// claims.ErrNoData.
func (c *Calculator) Analyze(ctx context.Context, ds *claims.Dataset) (*Report, error) {
	if ds.Len() == 0 {
		return nil, claims.ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "starting financial analysis",
		"total_claims", ds.Len(),
		"processing_cost", c.processingCost,
		"appeal_cost", c.appealCost,
	)

	report := &Report{
		Metrics:         c.metrics(ds),
		MonthlyRevenue:  c.monthlyRevenue(ds),
		ProviderRevenue: c.providerRevenue(ds),
		OperationalCost: c.operationalCost(ds),
		RejectionImpact: c.rejectionImpact(ds),
	}
	report.Opportunities = c.identifyOpportunities(ds, report)
	report.ROI = c.roiAnalysis(report.Opportunities)
	return report, nil
}

func (c *Calculator) metrics(ds *claims.Dataset) Metrics {
	var m Metrics
	var approvedClaims int
	for _, r := range ds.Records() {
		amount := r.AmountValue()
		m.TotalClaimed += amount
		switch r.Status {
		case claims.StatusApproved:
			m.TotalApproved += amount
			approvedClaims++
		case claims.StatusRejected:
			m.TotalRejected += amount
		case claims.StatusPending, claims.StatusUnderReview:
			m.TotalPending += amount
		}
	}
	m.FinancialApprovalRate = stats.PctOf(m.TotalApproved, m.TotalClaimed)
	m.CountApprovalRate = stats.PctOf(float64(approvedClaims), float64(ds.Len()))
	return m
}

func (c *Calculator) monthlyRevenue(ds *claims.Dataset) []PeriodRevenue {
	byMonth := make(map[string]*PeriodRevenue)
	for _, r := range ds.Records() {
		if r.ClaimDate == nil || !r.HasAmount() {
			continue
		}
		month := r.ClaimDate.Format("2006-01")
		pr := byMonth[month]
		if pr == nil {
			pr = &PeriodRevenue{Period: month}
			byMonth[month] = pr
		}
		pr.Claimed += r.AmountValue()
		if r.Status == claims.StatusApproved {
			pr.Approved += r.AmountValue()
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]PeriodRevenue, 0, len(months))
	for _, m := range months {
		out = append(out, *byMonth[m])
	}
	return out
}

func (c *Calculator) providerRevenue(ds *claims.Dataset) []ProviderRevenue {
	byProvider := make(map[string]*ProviderRevenue)
	for _, r := range ds.Records() {
		if r.ProviderID == "" || !r.HasAmount() {
			continue
		}
		pr := byProvider[r.ProviderID]
		if pr == nil {
			pr = &ProviderRevenue{ProviderID: r.ProviderID}
			byProvider[r.ProviderID] = pr
		}
		pr.Claimed += r.AmountValue()
		if r.Status == claims.StatusApproved {
			pr.Approved += r.AmountValue()
		}
	}

	ranked := make([]ProviderRevenue, 0, len(byProvider))
	for _, pr := range byProvider {
		ranked = append(ranked, *pr)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Approved != ranked[j].Approved {
			return ranked[i].Approved > ranked[j].Approved
		}
		return ranked[i].ProviderID < ranked[j].ProviderID
	})
	if len(ranked) > c.topN {
		ranked = ranked[:c.topN]
	}
	return ranked
}

func (c *Calculator) operationalCost(ds *claims.Dataset) OperationalCost {
	total := float64(ds.Len())
	rejected := float64(len(ds.Rejected()))

	oc := OperationalCost{
		ProcessingCost:   total * c.processingCost,
		EstimatedAppeals: stats.Round2(rejected * AppealRatio),
		ReworkCost:       rejected * ReworkRatio * c.processingCost,
	}
	oc.AppealCost = oc.EstimatedAppeals * c.appealCost
	oc.Total = oc.ProcessingCost + oc.AppealCost + oc.ReworkCost
	return oc
}

func (c *Calculator) rejectionImpact(ds *claims.Dataset) RejectionImpact {
	waste := float64(len(ds.Rejected())) * c.processingCost
	ri := RejectionImpact{
		ProcessingWaste: waste,
		OpportunityCost: stats.Round2(waste * OpportunitySurcharge),
	}
	ri.Total = ri.ProcessingWaste + ri.OpportunityCost
	return ri
}

// identifyOpportunities applies the fixed intervention heuristics. The
// result order is fixed so repeated runs produce identical reports.
func (c *Calculator) identifyOpportunities(ds *claims.Dataset, report *Report) []Opportunity {
	opportunities := []Opportunity{}

	if report.Metrics.CountApprovalRate < ApprovalRateFloor {
		opportunities = append(opportunities, Opportunity{
			ID:    "approval_rate_improvement",
			Title: "Improve first-pass approval rate",
			Description: fmt.Sprintf(
				"count approval rate is %.1f%%; recovering %.0f%% of the current rejection loss is achievable",
				report.Metrics.CountApprovalRate, ApprovalRecoveryTarget*100),
			Effort:           EffortMedium,
			Timeframe:        "3-6 months",
			EstimatedBenefit: stats.Round2(report.Metrics.TotalRejected * ApprovalRecoveryTarget),
		})
	}

	var highValueRejected float64
	var highValueCount int
	for _, r := range ds.Rejected() {
		if r.HasAmount() && r.AmountValue() > HighValueRejectionFloor {
			highValueRejected += r.AmountValue()
			highValueCount++
		}
	}
	if highValueCount > 0 {
		opportunities = append(opportunities, Opportunity{
			ID:    "high_value_claim_focus",
			Title: "Dedicated review for high-value rejections",
			Description: fmt.Sprintf(
				"%d rejected claims above %.0f hold %.0f in claimed value",
				highValueCount, HighValueRejectionFloor, highValueRejected),
			Effort:           EffortHigh,
			Timeframe:        "6-9 months",
			EstimatedBenefit: stats.Round2(highValueRejected * HighValueRecoveryTarget),
		})
	}

	if report.RejectionImpact.ProcessingWaste > ProcessingWasteFloor {
		opportunities = append(opportunities, Opportunity{
			ID:    "processing_efficiency",
			Title: "Invest in processing efficiency",
			Description: fmt.Sprintf(
				"%.0f of processing spend is wasted on rejected claims",
				report.RejectionImpact.ProcessingWaste),
			Effort:           EffortMedium,
			Timeframe:        "3-6 months",
			EstimatedBenefit: stats.Round2(report.RejectionImpact.ProcessingWaste * WasteReductionTarget),
		})
	}

	if opp := c.providerEducation(ds); opp != nil {
		opportunities = append(opportunities, *opp)
	}
	return opportunities
}

// providerEducation aggregates every provider whose count approval rate
// sits under the floor into a single education opportunity targeting a
// share of their combined claimed amount.
func (c *Calculator) providerEducation(ds *claims.Dataset) *Opportunity {
	type acc struct {
		claims   int
		approved int
		claimed  float64
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
		a.claimed += r.AmountValue()
		if r.Status == claims.StatusApproved {
			a.approved++
		}
	}

	var qualifying int
	var claimed float64
	for _, a := range byProvider {
		if a.claims < 1 {
			continue
		}
		rate := float64(a.approved) / float64(a.claims) * 100
		if rate < ProviderApprovalFloor {
			qualifying++
			claimed += a.claimed
		}
	}
	if qualifying == 0 {
		return nil
	}
	return &Opportunity{
		ID:    "provider_education",
		Title: "Provider education program",
		Description: fmt.Sprintf(
			"%d providers approve under %.0f%% of their claims; education targets %.0f%% of their claimed amount",
			qualifying, ProviderApprovalFloor, ProviderImprovementTarget*100),
		Effort:           EffortLow,
		Timeframe:        "3-4 months",
		EstimatedBenefit: stats.Round2(claimed * ProviderImprovementTarget),
	}
}

// roiAnalysis prices each opportunity, sorts by descending ROI and
// assigns priority tiers by rank: the top two are high, the next two
// medium, the rest low.
func (c *Calculator) roiAnalysis(opportunities []Opportunity) []OpportunityROI {
	out := make([]OpportunityROI, 0, len(opportunities))
	for _, opp := range opportunities {
		cost := effortCosts[opp.Effort]
		roi := OpportunityROI{
			OpportunityID:      opp.ID,
			Title:              opp.Title,
			ImplementationCost: cost,
			EstimatedBenefit:   opp.EstimatedBenefit,
			ROIPercent:         stats.Round2((opp.EstimatedBenefit - cost) / cost * 100),
		}
		if opp.EstimatedBenefit > 0 {
			payback := stats.Round2(cost / (opp.EstimatedBenefit / 12))
			roi.PaybackMonths = &payback
		}
		out = append(out, roi)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ROIPercent != out[j].ROIPercent {
			return out[i].ROIPercent > out[j].ROIPercent
		}
		return out[i].OpportunityID < out[j].OpportunityID
	})
	for i := range out {
		switch {
		case i < 2:
			out[i].Priority = "high"
		case i < 4:
			out[i].Priority = "medium"
		default:
			out[i].Priority = "low"
		}
	}
	return out
}
