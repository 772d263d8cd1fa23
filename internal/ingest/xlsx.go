package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "dqcli/internal/errors"
	"dqcli/pkg/contracts/domain"
)

// ReadXLSX loads a sheet of an Excel workbook from disk
func ReadXLSX(path string, opts Options) (*domain.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	return readWorkbook(f, opts)
}

// ReadXLSXFrom loads a workbook from a stream, such as an upload body
func ReadXLSXFrom(r io.Reader, opts Options) (*domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read workbook", err)
	}
	defer f.Close()

	return readWorkbook(f, opts)
}

func readWorkbook(f *excelize.File, opts Options) (*domain.Table, error) {
	sheet, rows, err := selectSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	// skip leading blank rows so the first row with content is the header
	start := 0
	for start < len(rows) && blank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, apperrors.NewParsingError(fmt.Sprintf("sheet %q has no header row", sheet), nil)
	}

	table, err := newInferrer(opts).build(rows[start], rows[start+1:], start+2)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("invalid table in sheet %q", sheet), err)
	}

	slog.Debug("workbook parsed",
		slog.String("sheet_name", sheet),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumColumns()))
	return table, nil
}

// selectSheet returns the named sheet, or the first sheet holding any row.
// Raw cell values are read so number formats do not leak into the data.
func selectSheet(f *excelize.File, name string) (string, [][]string, error) {
	raw := excelize.Options{RawCellValue: true}

	if name != "" {
		rows, err := f.GetRows(name, raw)
		if err != nil {
			return "", nil, apperrors.NewNotFoundError(fmt.Sprintf("sheet %q", name))
		}
		return name, rows, nil
	}

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, raw)
		if err == nil && len(rows) > 0 {
			return sheet, rows, nil
		}
	}
	return "", nil, apperrors.NewParsingError("workbook has no sheet with data", nil)
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
