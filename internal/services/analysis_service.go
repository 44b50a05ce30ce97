// Package services hosts the application services sitting between the
// HTTP transport and the analysis pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"claimsight/internal/claims"
	"claimsight/internal/config"
	"claimsight/internal/pipeline"
	"claimsight/internal/trends"
)

// AnalysisService runs the claims analytics pipeline on behalf of the
// transport layer. Each request gets its own runner so per-request
// option overrides never leak between runs.
type AnalysisService struct {
	defaults config.AnalysisConfig
	tracer   *pipeline.Tracer
	logger   *slog.Logger
}

// NewAnalysisService creates the service with pipeline defaults from
// configuration.
func NewAnalysisService(defaults config.AnalysisConfig, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{defaults: defaults, logger: logger}
}

// SetTracer attaches OpenTelemetry instrumentation to subsequent runs.
func (s *AnalysisService) SetTracer(t *pipeline.Tracer) {
	s.tracer = t
}

// RunOverrides are the per-request option overrides. Zero values fall
// back to the configured defaults.
type RunOverrides struct {
	Granularity    string
	WindowPeriods  int
	ProcessingCost float64
	AppealCost     float64
	TopN           int
}

// Analyze runs the full pipeline over the given records and returns
// the layered report. The records are snapshotted into an immutable
// dataset before any stage runs.
func (s *AnalysisService) Analyze(ctx context.Context, records []claims.Record, overrides RunOverrides) (*pipeline.Report, error) {
	opts, err := s.options(overrides)
	if err != nil {
		return nil, err
	}

	ds := claims.NewDataset(records)
	s.logger.InfoContext(ctx, "analysis requested",
		"claims", ds.Len(),
		"granularity", string(opts.Granularity),
	)

	runner := pipeline.NewRunner(opts, s.logger)
	if s.tracer != nil {
		runner.SetTracer(s.tracer)
	}
	return runner.Run(ctx, ds)
}

// options merges configured defaults with request overrides.
func (s *AnalysisService) options(o RunOverrides) (pipeline.Options, error) {
	opts := pipeline.Options{
		Granularity:    trends.Granularity(s.defaults.Granularity),
		WindowPeriods:  s.defaults.WindowPeriods,
		ProcessingCost: s.defaults.ProcessingCost,
		AppealCost:     s.defaults.AppealCost,
		TopN:           s.defaults.TopN,
		StageTimeout:   s.defaults.StageTimeout,
	}
	if o.Granularity != "" {
		g := trends.Granularity(o.Granularity)
		if !g.IsValid() {
			return pipeline.Options{}, fmt.Errorf("invalid granularity %q", o.Granularity)
		}
		opts.Granularity = g
	}
	if o.WindowPeriods > 0 {
		opts.WindowPeriods = o.WindowPeriods
	}
	if o.ProcessingCost > 0 {
		opts.ProcessingCost = o.ProcessingCost
	}
	if o.AppealCost > 0 {
		opts.AppealCost = o.AppealCost
	}
	if o.TopN > 0 {
		opts.TopN = o.TopN
	}
	if opts.StageTimeout <= 0 {
		opts.StageTimeout = pipeline.DefaultStageTimeout
	}
	return opts, nil
}

// HealthService reports process liveness for the health endpoint.
type HealthService struct {
	startedAt time.Time
	version   string
}

// NewHealthService records the process start time.
func NewHealthService(version string) *HealthService {
	return &HealthService{startedAt: time.Now().UTC(), version: version}
}

// Health is the health endpoint payload.
type Health struct {
	Status        string    `json:"status"`
	Version       string    `json:"version"`
	StartedAt     time.Time `json:"started_at"`
	UptimeSeconds float64   `json:"uptime_seconds"`
}

// Check returns the current health snapshot.
func (h *HealthService) Check() Health {
	return Health{
		Status:        "healthy",
		Version:       h.version,
		StartedAt:     h.startedAt,
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
	}
}
