package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "dqcli/internal/errors"
	"dqcli/internal/exporter"
	"dqcli/internal/ingest"
)

// FileValidator checks input and output paths before the CLI touches them
type FileValidator struct {
	maxBytes int64
	logger   *slog.Logger
}

// NewFileValidator creates a new file validator. maxBytes <= 0 disables the
// size check.
func NewFileValidator(maxBytes int64, logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateFile checks that path exists, is a regular file and can be opened
func (v *FileValidator) ValidateFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("file_not_found", slog.String("file", path))
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("file %s", path))
	}
	if err != nil {
		v.logger.Error("file_stat_failed",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("file_not_readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return nil, apperrors.NewStorageError(fmt.Sprintf("file %s is not readable", path), err)
	}
	file.Close()

	return info, nil
}

// ValidateInputFile checks a dataset before loading: it must be readable,
// have an extension the loader understands, not be an Excel lock file and
// fit within the size limit.
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := v.ValidateFile(path)
	if err != nil {
		return err
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		return apperrors.NewValidationError(fmt.Sprintf("file %s is a temporary Excel file", path), nil)
	}
	if !ingest.Supported(path) {
		return apperrors.NewValidationError(
			fmt.Sprintf("file %s is not a CSV or Excel file (extension: %s)", path, filepath.Ext(path)), nil)
	}
	if v.maxBytes > 0 && info.Size() > v.maxBytes {
		v.logger.Warn("file_too_large",
			slog.String("file", path),
			slog.Int64("size", info.Size()),
			slog.Int64("limit", v.maxBytes))
		return apperrors.NewValidationError(
			fmt.Sprintf("file %s is %d bytes, limit is %d", path, info.Size(), v.maxBytes), nil)
	}

	v.logger.Debug("input_file_validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputPath checks that path names a known report format and that
// its directory exists or can be created and is writable
func (v *FileValidator) ValidateOutputPath(path string) error {
	if _, err := exporter.FormatFromPath(path); err != nil {
		return err
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("output_directory_create_failed",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("output_directory_not_writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
