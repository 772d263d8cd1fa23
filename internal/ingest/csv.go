package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"

	apperrors "dqcli/internal/errors"
	"dqcli/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses delimited text. A leading UTF-8 byte order mark is ignored.
func ReadCSV(r io.Reader, opts Options) (*domain.Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	// ragged rows are padded in build, not rejected here
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewParsingError("csv input is empty", nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read csv header", err)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read csv records", err)
	}

	table, err := newInferrer(opts).build(header, records, 2)
	if err != nil {
		return nil, apperrors.NewParsingError("invalid csv table", err)
	}

	slog.Debug("csv parsed",
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumColumns()))
	return table, nil
}
