package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "dqcli/internal/errors"
	"dqcli/pkg/contracts/domain"
)

// Supported reports whether LoadFile understands the file extension
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt", ".xlsx", ".xlsm":
		return true
	}
	return false
}

// LoadFile reads a table from disk, choosing the reader by extension.
// .tsv files default to a tab delimiter.
func LoadFile(path string, opts Options) (*domain.Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, opts)

	case ".csv", ".tsv", ".txt":
		if ext == ".tsv" && opts.Delimiter == 0 {
			opts.Delimiter = '\t'
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
		}
		defer f.Close()
		return ReadCSV(f, opts)

	default:
		return nil, apperrors.NewParsingError(fmt.Sprintf("unsupported file type %q", ext), nil)
	}
}
