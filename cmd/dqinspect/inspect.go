package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dqcli/internal/config"
	"dqcli/internal/exporter"
	"dqcli/internal/infrastructure"
	"dqcli/internal/quality"
	"dqcli/internal/services"
	"dqcli/internal/validation"
	"dqcli/pkg/contracts/domain"
)

// inspectOptions are the inspect flags. Flags left unset keep the value from
// the config file or environment.
type inspectOptions struct {
	out           string
	keys          []string
	expect        []string
	types         map[string]string
	formatColumns []string
	outlierCols   []string
	method        string
	threshold     float64
	parallel      bool
	sheet         string
	delimiter     string
	logLevel      string
	failOnIssues  bool
	quiet         bool
}

func newInspectCmd(root *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Inspect a CSV or Excel file and report quality issues",
		Long: `Loads a table from a .csv, .tsv, .txt, .xlsx or .xlsm file, runs every
quality scan over it and prints a summary. With --out the full report is
also written as JSON, CSV (one line per issue) or XLSX (one sheet per scan),
chosen by the file extension.

Exit status is 2 when the configuration is malformed and 3 when
--fail-on-issues is set and the report contains issues.

Example:
  dqinspect inspect customers.csv --key customer_id \
    --expect customer_id --expect name --expect email --out report.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runInspect(ctx, cfg, args[0], opts, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.out, "out", "o", "", "write the full report to this file (.json, .csv or .xlsx)")
	f.StringSliceVarP(&opts.keys, "key", "k", nil, "key column for the duplicate-key scan (repeatable)")
	f.StringSliceVarP(&opts.expect, "expect", "e", nil, "expected column, in order (repeatable)")
	f.StringToStringVarP(&opts.types, "type", "t", nil, "declared column type, e.g. age=numeric (repeatable)")
	f.StringSliceVar(&opts.formatColumns, "format-column", nil, "text column to check for whitespace and casing (repeatable)")
	f.StringSliceVar(&opts.outlierCols, "outlier-column", nil, "numeric column to score for outliers (repeatable)")
	f.StringVar(&opts.method, "method", "", "outlier method: zscore or modified_zscore")
	f.Float64Var(&opts.threshold, "threshold", 0, "outlier z-score threshold (0 means the default 3)")
	f.BoolVarP(&opts.parallel, "parallel", "p", false, "run scans concurrently")
	f.StringVar(&opts.sheet, "sheet", "", "worksheet to read from an Excel file (default: first with data)")
	f.StringVarP(&opts.delimiter, "delimiter", "d", "", "CSV field delimiter")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.BoolVar(&opts.failOnIssues, "fail-on-issues", false, "exit with status 3 when any issue is found")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the summary")

	return cmd
}

// apply copies the flags the user set onto cfg and revalidates it
func (o *inspectOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	in := &cfg.Inspection

	if f.Changed("key") {
		in.KeyColumns = o.keys
	}
	if f.Changed("expect") {
		in.ExpectedColumns = o.expect
	}
	if f.Changed("type") {
		in.ExpectedTypes = o.types
	}
	if f.Changed("format-column") {
		in.FormatColumns = o.formatColumns
	}
	if f.Changed("outlier-column") {
		in.OutlierColumns = o.outlierCols
	}
	if f.Changed("method") {
		in.OutlierMethod = quality.OutlierMethod(o.method)
	}
	if f.Changed("threshold") {
		in.ZScoreThreshold = o.threshold
	}
	if f.Changed("parallel") {
		in.Parallel = o.parallel
	}
	if f.Changed("sheet") {
		cfg.Ingest.Sheet = o.sheet
	}
	if f.Changed("delimiter") {
		cfg.Ingest.Delimiter = o.delimiter
	}
	if f.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}

	return cfg.Validate()
}

func runInspect(ctx context.Context, cfg *config.Config, path string, opts *inspectOptions, stdout, stderr io.Writer) error {
	logger, logFile, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger = infrastructure.WithComponent(logger, "cli")
	ctx = infrastructure.EnsureTraceID(ctx)

	shutdown, err := initTracing(cfg.Telemetry, stderr, logger)
	if err != nil {
		return err
	}
	defer shutdown()

	validator := validation.NewFileValidator(cfg.Ingest.MaxFileBytes, logger)
	if err := validator.ValidateInputFile(path); err != nil {
		return err
	}
	if opts.out != "" {
		if err := validator.ValidateOutputPath(opts.out); err != nil {
			return err
		}
	}

	service := services.NewInspectionService(
		quality.NewInspector(logger),
		cfg.Inspection,
		cfg.Ingest.Options(),
		logger,
	)

	start := time.Now()
	report, err := service.InspectFile(ctx, path, cfg.Inspection)
	if err != nil {
		return err
	}

	if !opts.quiet {
		if err := writeSummary(stdout, path, report, time.Since(start)); err != nil {
			return err
		}
	}

	if opts.out != "" {
		if err := exporter.NewExporter(logger).Export(opts.out, report); err != nil {
			return err
		}
		if !opts.quiet {
			fmt.Fprintf(stdout, "\nReport written to %s\n", opts.out)
		}
	}

	if opts.failOnIssues && report.Summary.TotalIssues > 0 {
		return fmt.Errorf("%w: %d", errIssuesFound, report.Summary.TotalIssues)
	}
	return nil
}

// initTracing exports inspection spans to w when a trace exporter is
// configured. Metrics are left to the server.
func initTracing(cfg config.TelemetryConfig, w io.Writer, logger *slog.Logger) (func(), error) {
	if !cfg.EnableTracing || cfg.TraceExporter == "" || cfg.TraceExporter == "none" {
		return func() {}, nil
	}

	otelCfg := infrastructure.OTelConfigFrom(cfg)
	otelCfg.EnableMetrics = false
	otelCfg.TraceWriter = w

	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			logger.Warn("telemetry_shutdown_failed", slog.String("error", err.Error()))
		}
	}, nil
}

// scanTitles label scans in the human summary
var scanTitles = map[domain.ScanName]string{
	domain.ScanMissing:       "Missing values",
	domain.ScanTypes:         "Type consistency",
	domain.ScanDuplicateRows: "Duplicate rows",
	domain.ScanDuplicateKeys: "Duplicate keys",
	domain.ScanFormat:        "Format consistency",
	domain.ScanColumns:       "Constant/empty columns",
	domain.ScanOutliers:      "Outliers",
	domain.ScanRules:         "Domain rules",
	domain.ScanStructure:     "Structure",
}
