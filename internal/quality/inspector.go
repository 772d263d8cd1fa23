package quality

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "dqcli/internal/errors"
	"dqcli/pkg/contracts/domain"
)

const (
	TracerName = "dqcli.quality"
)

// Recorder receives inspection measurements. The infrastructure package
// provides an OpenTelemetry implementation.
type Recorder interface {
	RecordScan(ctx context.Context, scan domain.ScanName, duration time.Duration, issues int)
	RecordInspection(ctx context.Context, duration time.Duration, report *domain.Report, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordScan(context.Context, domain.ScanName, time.Duration, int)        {}
func (nopRecorder) RecordInspection(context.Context, time.Duration, *domain.Report, error) {}

// Inspector runs the scan suite over a table
type Inspector struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	recorder Recorder
}

// Option configures an Inspector
type Option func(*Inspector)

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(i *Inspector) {
		if r != nil {
			i.recorder = r
		}
	}
}

// NewInspector creates an inspector. A nil logger falls back to slog.Default.
func NewInspector(logger *slog.Logger, opts ...Option) *Inspector {
	if logger == nil {
		logger = slog.Default()
	}
	i := &Inspector{
		logger:   logger.With(slog.String("component", "inspector")),
		tracer:   otel.Tracer(TracerName),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// scanJob fills one report section and returns that scan's issues
type scanJob struct {
	name domain.ScanName
	run  func(r *domain.Report) []domain.Issue
}

func scanJobs(t *domain.Table, p *plan) []scanJob {
	return []scanJob{
		{domain.ScanMissing, func(r *domain.Report) (issues []domain.Issue) {
			r.Missing, issues = ScanMissingValues(t)
			return issues
		}},
		{domain.ScanTypes, func(r *domain.Report) (issues []domain.Issue) {
			r.Types, issues = ScanTypes(t, p.typeColumns, p.expectedTypes)
			return issues
		}},
		{domain.ScanDuplicateRows, func(r *domain.Report) (issues []domain.Issue) {
			r.DuplicateRows, issues = ScanDuplicateRows(t)
			return issues
		}},
		{domain.ScanDuplicateKeys, func(r *domain.Report) (issues []domain.Issue) {
			r.DuplicateKeys, issues = ScanDuplicateKeys(t, p.keyColumns)
			return issues
		}},
		{domain.ScanFormat, func(r *domain.Report) (issues []domain.Issue) {
			r.Format, issues = ScanFormat(t, p.formatColumns)
			return issues
		}},
		{domain.ScanColumns, func(r *domain.Report) (issues []domain.Issue) {
			r.Columns, issues = ScanColumnProfiles(t)
			return issues
		}},
		{domain.ScanOutliers, func(r *domain.Report) (issues []domain.Issue) {
			r.Outliers, issues = ScanOutliers(t, p.outlierColumns, p.method, p.threshold)
			return issues
		}},
		{domain.ScanRules, func(r *domain.Report) (issues []domain.Issue) {
			r.Rules, issues = ScanDomainRules(t, p.rules)
			return issues
		}},
		{domain.ScanStructure, func(r *domain.Report) (issues []domain.Issue) {
			r.Structure, issues = ScanStructure(t, p.expectedColumns)
			return issues
		}},
	}
}

// Inspect validates cfg against the table and runs every scan. Scans only
// read the table and each writes its own report section, so the parallel
// and sequential modes produce the same report. A malformed configuration
// fails before any scan runs. The context is checked between scans.
func (i *Inspector) Inspect(ctx context.Context, t *domain.Table, cfg Config) (*domain.Report, error) {
	if t == nil {
		return nil, apperrors.NewValidationError("table is required", nil)
	}
	start := time.Now()

	ctx, span := i.tracer.Start(ctx, "quality.inspect",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("table.rows", t.NumRows()),
			attribute.Int("table.columns", t.NumColumns()),
			attribute.Bool("inspection.parallel", cfg.Parallel),
		),
	)
	defer span.End()

	report, err := i.inspect(ctx, t, cfg)
	duration := time.Since(start)
	i.recorder.RecordInspection(ctx, duration, report, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		i.logger.WarnContext(ctx, "inspection_failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		return nil, err
	}

	span.SetAttributes(attribute.Int("inspection.issues", report.Summary.TotalIssues))
	span.SetStatus(codes.Ok, "inspection completed")
	i.logger.InfoContext(ctx, "inspection_complete",
		slog.Int("rows", report.Summary.Rows),
		slog.Int("columns", report.Summary.Columns),
		slog.Int("issues", report.Summary.TotalIssues),
		slog.Duration("duration", duration))
	return report, nil
}

func (i *Inspector) inspect(ctx context.Context, t *domain.Table, cfg Config) (*domain.Report, error) {
	p, err := resolve(cfg, t)
	if err != nil {
		return nil, err
	}

	i.logger.InfoContext(ctx, "inspection_start",
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumColumns()),
		slog.Bool("parallel", p.parallel))

	jobs := scanJobs(t, p)
	results := make([][]domain.Issue, len(jobs))
	report := &domain.Report{}

	if p.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for idx, job := range jobs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[idx] = i.runScan(gctx, job, report)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for idx, job := range jobs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[idx] = i.runScan(ctx, job, report)
		}
	}

	report.Issues = make([]domain.Issue, 0)
	for _, issues := range results {
		report.Issues = append(report.Issues, issues...)
	}
	report.Summary = summarize(t, report)
	return report, nil
}

func (i *Inspector) runScan(ctx context.Context, job scanJob, report *domain.Report) []domain.Issue {
	ctx, span := i.tracer.Start(ctx, "quality.scan."+string(job.name),
		trace.WithAttributes(attribute.String("scan.name", string(job.name))))
	defer span.End()

	start := time.Now()
	issues := job.run(report)
	duration := time.Since(start)

	span.SetAttributes(attribute.Int("scan.issues", len(issues)))
	i.recorder.RecordScan(ctx, job.name, duration, len(issues))
	i.logger.DebugContext(ctx, "scan_complete",
		slog.String("scan", string(job.name)),
		slog.Int("issues", len(issues)),
		slog.Duration("duration", duration))
	return issues
}

func summarize(t *domain.Table, r *domain.Report) domain.ReportSummary {
	s := domain.ReportSummary{
		Rows:          t.NumRows(),
		Columns:       t.NumColumns(),
		MissingCells:  r.Missing.TotalMissing,
		DuplicateRows: r.DuplicateRows.Count,
		TotalIssues:   len(r.Issues),
		IssuesByKind:  make(map[domain.IssueKind]int),
		IssuesByScan:  make(map[domain.ScanName]int, len(domain.ScanOrder)),
	}
	for _, scan := range domain.ScanOrder {
		s.IssuesByScan[scan] = 0
	}
	for _, is := range r.Issues {
		s.IssuesByKind[is.Kind]++
		s.IssuesByScan[is.Scan]++
	}
	return s
}
