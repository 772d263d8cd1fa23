package services

import (
	"context"
	"log/slog"
	"time"

	apperrors "dqcli/internal/errors"
	"dqcli/internal/ingest"
	"dqcli/internal/quality"
	"dqcli/pkg/contracts/domain"
)

// InspectionService turns files or submitted rows into tables and inspects
// them
type InspectionService struct {
	inspector *quality.Inspector
	defaults  quality.Config
	ingest    ingest.Options
	logger    *slog.Logger
}

// NewInspectionService creates the service. defaults apply when a caller
// supplies no configuration of its own.
func NewInspectionService(inspector *quality.Inspector, defaults quality.Config, opts ingest.Options, logger *slog.Logger) *InspectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InspectionService{
		inspector: inspector,
		defaults:  defaults,
		ingest:    opts,
		logger:    logger.With(slog.String("service", "inspection")),
	}
}

// Defaults returns the configuration used when none is supplied
func (s *InspectionService) Defaults() quality.Config {
	return s.defaults
}

// InspectTable inspects positional rows. A nil cfg means the defaults.
func (s *InspectionService) InspectTable(ctx context.Context, columns []string, rows [][]domain.Value, cfg *quality.Config) (*domain.Report, error) {
	table, err := domain.NewTable(columns, rows)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid table", err)
	}
	return s.inspector.Inspect(ctx, table, s.config(cfg))
}

// InspectFile loads a CSV or XLSX file and inspects it with cfg
func (s *InspectionService) InspectFile(ctx context.Context, path string, cfg quality.Config) (*domain.Report, error) {
	start := time.Now()
	table, err := ingest.LoadFile(path, s.ingest)
	if err != nil {
		s.logger.ErrorContext(ctx, "file_load_failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}
	s.logger.InfoContext(ctx, "file_loaded",
		slog.String("path", path),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumColumns()),
		slog.Duration("duration", time.Since(start)))

	return s.inspector.Inspect(ctx, table, cfg)
}

func (s *InspectionService) config(cfg *quality.Config) quality.Config {
	if cfg == nil {
		return s.defaults
	}
	return *cfg
}
