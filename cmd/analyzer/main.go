// Command analyzer runs the claims analytics pipeline over a CSV or
// Excel claims file and writes the JSON report plus a CSV summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"claimsight/internal/config"
	"claimsight/internal/exporter"
	"claimsight/internal/infrastructure"
	"claimsight/internal/loader"
	"claimsight/internal/pipeline"
	"claimsight/internal/trends"
)

func main() {
	input := flag.String("input", "", "claims file to analyze (.csv, .xlsx)")
	configFile := flag.String("config", "", "optional YAML config file")
	outputDir := flag.String("out", "reports", "output directory for the report files")
	granularity := flag.String("granularity", "", "trend bucketing: daily, weekly, monthly, quarterly or yearly")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: analyzer -input claims.csv [-config config.yaml] [-out reports]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *granularity != "" {
		cfg.Analysis.Granularity = *granularity
		if err := cfg.Validate(); err != nil {
			slog.Error("invalid granularity", "error", err)
			os.Exit(1)
		}
	}

	logger, err := infrastructure.InitLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := loader.Load(*input, logger)
	if err != nil {
		logger.Error("failed to load claims", "path", *input, "error", err)
		os.Exit(1)
	}

	opts := pipeline.Options{
		Granularity:    trends.Granularity(cfg.Analysis.Granularity),
		WindowPeriods:  cfg.Analysis.WindowPeriods,
		ProcessingCost: cfg.Analysis.ProcessingCost,
		AppealCost:     cfg.Analysis.AppealCost,
		TopN:           cfg.Analysis.TopN,
		StageTimeout:   cfg.Analysis.StageTimeout,
	}
	report, err := pipeline.NewRunner(opts, logger).Run(ctx, ds)
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	name := fmt.Sprintf("claims_analysis_%s", time.Now().UTC().Format("20060102_150405"))
	writer := exporter.NewWriter(*outputDir, logger)
	jsonPath, err := writer.WriteJSON(report, name)
	if err != nil {
		logger.Error("failed to write report", "error", err)
		os.Exit(1)
	}
	if _, err := writer.WriteCSVSummary(report, name); err != nil {
		logger.Error("failed to write summary", "error", err)
		os.Exit(1)
	}

	logger.Info("analysis complete",
		"report", jsonPath,
		"success", report.Success,
		"failed_stages", len(report.Errors),
	)
	if !report.Success {
		os.Exit(1)
	}
}
