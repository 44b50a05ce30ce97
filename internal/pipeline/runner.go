// Package pipeline orchestrates the claims analytics run: it fans the
// four analysis stages out over one immutable dataset snapshot, isolates
// their failures, joins at the recommendation engine and assembles the
// layered report. The dataset is read-only for the duration of a run, so
// the stages share no mutable state and need no locks.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"claimsight/internal/analytics"
	"claimsight/internal/claims"
	"claimsight/internal/finance"
	"claimsight/internal/recommend"
	"claimsight/internal/rejections"
	"claimsight/internal/trends"
)

// DefaultStageTimeout bounds a single analysis stage. A stage that does
// not complete in time is a failed stage, not a fatal pipeline error.
const DefaultStageTimeout = 30 * time.Second

// Options configures one pipeline run.
type Options struct {
	Granularity    trends.Granularity
	WindowPeriods  int
	ProcessingCost float64
	AppealCost     float64
	TopN           int
	StageTimeout   time.Duration
}

// DefaultOptions returns the documented defaults: monthly bucketing over
// 12 periods, processing cost 50, appeal cost 200, top-10 rankings.
func DefaultOptions() Options {
	return Options{
		Granularity:    trends.Monthly,
		WindowPeriods:  trends.DefaultWindow,
		ProcessingCost: finance.DefaultProcessingCost,
		AppealCost:     finance.DefaultAppealCost,
		TopN:           10,
		StageTimeout:   DefaultStageTimeout,
	}
}

// Runner executes the claims analytics pipeline.
type Runner struct {
	opts        Options
	engine      *analytics.Engine
	trends      *trends.Analyzer
	rejections  *rejections.Detector
	finance     *finance.Calculator
	recommender *recommend.Engine
	tracer      *Tracer
	logger      *slog.Logger
}

// NewRunner builds a runner and its stage components from options.
func NewRunner(opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.StageTimeout <= 0 {
		opts.StageTimeout = DefaultStageTimeout
	}
	return &Runner{
		opts:        opts,
		engine:      analytics.NewEngine(opts.TopN, logger),
		trends:      trends.NewAnalyzer(opts.Granularity, opts.WindowPeriods, logger),
		rejections:  rejections.NewDetector(opts.TopN, logger),
		finance:     finance.NewCalculator(opts.ProcessingCost, opts.AppealCost, opts.TopN, logger),
		recommender: recommend.NewEngine(logger),
		logger:      logger,
	}
}

// SetTracer attaches OpenTelemetry instrumentation. A nil tracer (the
// default) disables tracing.
func (r *Runner) SetTracer(t *Tracer) {
	r.tracer = t
}

// Run executes the four analysis stages concurrently against the
// snapshot, waits for all of them to complete or fail, then synthesizes
// recommendations from whichever subset succeeded. The returned report
// is always non-nil; its Success flag is false only when no stage at
// all produced output.
func (r *Runner) Run(ctx context.Context, ds *claims.Dataset) (*Report, error) {
	report := &Report{
		RunID:        uuid.NewString(),
		AnalysisDate: time.Now().UTC(),
		ClaimCount:   ds.Len(),
	}

	runCtx, span := r.tracer.StartRun(ctx, report.RunID, report.ClaimCount)
	if span != nil {
		defer span.End()
	}

	r.logger.InfoContext(runCtx, "pipeline run started",
		"run_id", report.RunID,
		"claims", report.ClaimCount,
		"stage_timeout", r.opts.StageTimeout,
	)
	start := time.Now()

	var (
		analysisOut  *analytics.Report
		trendsOut    *trends.Report
		rejectionOut *rejections.Report
		financeOut   *finance.Report
	)
	failures := make([]*StageError, 4)

	g := new(errgroup.Group)
	g.Go(func() error {
		failures[0] = r.runStage(runCtx, report.RunID, StageClaimAnalysis, func(ctx context.Context) error {
			out, err := r.engine.Analyze(ctx, ds)
			analysisOut = out
			return err
		})
		return nil
	})
	g.Go(func() error {
		failures[1] = r.runStage(runCtx, report.RunID, StageTrendAnalysis, func(ctx context.Context) error {
			out, err := r.trends.Analyze(ctx, ds)
			trendsOut = out
			return err
		})
		return nil
	})
	g.Go(func() error {
		failures[2] = r.runStage(runCtx, report.RunID, StageRejectionAnalysis, func(ctx context.Context) error {
			out, err := r.rejections.Analyze(ctx, ds)
			rejectionOut = out
			return err
		})
		return nil
	})
	g.Go(func() error {
		failures[3] = r.runStage(runCtx, report.RunID, StageFinancialAnalysis, func(ctx context.Context) error {
			out, err := r.finance.Analyze(ctx, ds)
			financeOut = out
			return err
		})
		return nil
	})
	// Stage failures are collected per slot; the group error is always nil.
	_ = g.Wait()

	for _, failure := range failures {
		if failure != nil {
			report.recordFailure(failure)
		}
	}

	if analysisOut != nil {
		report.BasicStatistics = analysisOut.Basic
		report.StatusAnalysis = analysisOut.Status
		report.AmountAnalysis = analysisOut.Amounts
		report.TimeAnalysis = analysisOut.Timing
		report.ProviderAnalysis = analysisOut.Providers
	}
	if trendsOut != nil {
		report.TrendData = trendsOut.Periods
		report.TrendMetrics = trendsOut.Trends
		report.Patterns = trendsOut.Patterns
		report.Forecast = trendsOut.Forecast
		report.TrendComparison = trendsOut.Comparison
	}
	if rejectionOut != nil {
		report.RejectionStatistics = rejectionOut
		report.RootCauses = rejectionOut.RootCauses
	}
	if financeOut != nil {
		report.FinancialMetrics = &financeOut.Metrics
		report.Opportunities = financeOut.Opportunities
		report.ROIAnalysis = financeOut.ROI
	}

	// Join point: synthesize from whichever stages completed. Missing
	// stages are skipped, never a hard failure.
	if failure := r.runStage(runCtx, report.RunID, StageRecommendations, func(ctx context.Context) error {
		out, err := r.recommender.Build(ctx, recommend.Inputs{
			Analysis:   analysisOut,
			Trends:     trendsOut,
			Rejections: rejectionOut,
			Finance:    financeOut,
		})
		if err != nil {
			return err
		}
		report.Recommendations = out.Recommendations
		report.ImplementationRoadmap = out.Roadmap
		report.SuccessMetrics = out.SuccessMetrics
		return nil
	}); failure != nil {
		if failure.Type == FailureExecution {
			failure.Type = FailureAggregation
		}
		report.recordFailure(failure)
	}

	report.Success = report.hasAnyOutput()
	r.logger.InfoContext(runCtx, "pipeline run finished",
		"run_id", report.RunID,
		"success", report.Success,
		"failed_stages", len(report.Errors),
		"duration", time.Since(start),
	)
	return report, nil
}

// runStage executes one stage under its timeout with panic isolation
// and returns the classified failure, or nil on success.
func (r *Runner) runStage(ctx context.Context, runID, stage string, fn func(context.Context) error) (failure *StageError) {
	stageCtx, cancel := context.WithTimeout(ctx, r.opts.StageTimeout)
	defer cancel()

	stageCtx, span := r.tracer.StartStage(stageCtx, runID, stage)
	start := time.Now()

	defer func() {
		if recovered := recover(); recovered != nil {
			failure = newPanicError(stage, recovered)
		}
		if r.tracer != nil {
			var err error
			if failure != nil {
				err = failure
			}
			r.tracer.EndStage(span, time.Since(start), err)
		}
		if failure != nil {
			r.logger.WarnContext(ctx, "stage failed",
				"run_id", runID,
				"stage", stage,
				"failure_type", string(failure.Type),
				"error", failure.Message,
			)
		} else {
			r.logger.InfoContext(ctx, "stage completed",
				"run_id", runID,
				"stage", stage,
				"duration", time.Since(start),
			)
		}
	}()

	if err := fn(stageCtx); err != nil {
		return classifyStageError(stage, err)
	}
	return nil
}
