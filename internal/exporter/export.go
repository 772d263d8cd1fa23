package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "dqcli/internal/errors"
	"dqcli/pkg/contracts/domain"
)

// Format is an output encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", apperrors.NewValidationError(fmt.Sprintf("unsupported report format %q", filepath.Ext(path)), nil)
	}
}

// Exporter writes reports to files
type Exporter struct {
	logger *slog.Logger
}

// NewExporter creates an exporter. A nil logger falls back to slog.Default.
func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger.With(slog.String("component", "exporter"))}
}

// Write encodes the report to w
func (e *Exporter) Write(w io.Writer, format Format, r *domain.Report) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatCSV:
		return WriteIssuesCSV(w, r, WriteOptions{BOMPrefix: true})
	case FormatXLSX:
		return WriteXLSX(w, r)
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unsupported report format %q", format), nil)
	}
}

// Export writes the report to path, creating parent directories. The format
// follows the extension.
func (e *Exporter) Export(path string, r *domain.Report) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	e.logger.Info("Writing report",
		slog.String("file_path", path),
		slog.String("format", string(format)),
		slog.Int("issue_count", len(r.Issues)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}

	if err := e.Write(file, format, r); err != nil {
		file.Close()
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := file.Close(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to close %s", path), err)
	}
	return nil
}
