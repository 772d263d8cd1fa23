package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"dqcli/pkg/contracts/domain"
)

// DefaultMissingTokens are the cell spellings read as Missing
var DefaultMissingTokens = []string{"", "NA", "N/A", "null", "None", "NaN"}

// Options control how raw cells become values
type Options struct {
	// Delimiter separates CSV fields. Zero means ','.
	Delimiter rune

	// Sheet selects a workbook sheet. Empty means the first sheet with data.
	Sheet string

	// MissingTokens replaces DefaultMissingTokens when non-nil. Tokens are
	// compared against the trimmed cell.
	MissingTokens []string

	// TextColumns are never parsed as numbers
	TextColumns []string
}

// DefaultOptions returns comma-delimited options with the default tokens
func DefaultOptions() Options {
	return Options{Delimiter: ',', MissingTokens: append([]string(nil), DefaultMissingTokens...)}
}

// inferrer classifies raw cells for one table
type inferrer struct {
	missing map[string]struct{}
	text    map[string]struct{}
}

func newInferrer(opts Options) *inferrer {
	tokens := opts.MissingTokens
	if tokens == nil {
		tokens = DefaultMissingTokens
	}
	inf := &inferrer{
		missing: make(map[string]struct{}, len(tokens)),
		text:    make(map[string]struct{}, len(opts.TextColumns)),
	}
	for _, tok := range tokens {
		inf.missing[tok] = struct{}{}
	}
	for _, c := range opts.TextColumns {
		inf.text[c] = struct{}{}
	}
	return inf
}

// Infer classifies a single raw cell using the default options
func Infer(raw string) domain.Value {
	return newInferrer(Options{}).value("", raw)
}

func (inf *inferrer) value(column, raw string) domain.Value {
	if _, ok := inf.missing[strings.TrimSpace(raw)]; ok {
		return domain.Missing()
	}
	if _, ok := inf.text[column]; ok {
		return domain.Text(raw)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return domain.Int(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return domain.Float(f)
	}
	return domain.Text(raw)
}

// build converts a header and raw records into a table. Short records are
// padded with missing cells; longer ones are rejected.
func (inf *inferrer) build(header []string, records [][]string, firstLine int) (*domain.Table, error) {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	rows := make([][]domain.Value, 0, len(records))
	for n, rec := range records {
		if len(rec) > len(columns) {
			return nil, &RowError{Line: firstLine + n, Got: len(rec), Want: len(columns)}
		}
		row := make([]domain.Value, len(columns))
		for i := range columns {
			if i < len(rec) {
				row[i] = inf.value(columns[i], rec[i])
			}
		}
		rows = append(rows, row)
	}
	return domain.NewTable(columns, rows)
}

// RowError reports a record wider than the header
type RowError struct {
	Line int
	Got  int
	Want int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %d fields, header has %d", e.Line, e.Got, e.Want)
}
