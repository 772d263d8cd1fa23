package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"dqcli/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IssueHeaders is the header row of the issue list
var IssueHeaders = []string{"scan", "kind", "column", "row", "value", "description"}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// IssueRecords flattens the report issues into string records. Missing row
// and value fields are left empty.
func IssueRecords(r *domain.Report) [][]string {
	records := make([][]string, 0, len(r.Issues))
	for _, is := range r.Issues {
		row := ""
		if is.Row != nil {
			row = strconv.Itoa(*is.Row)
		}
		records = append(records, []string{
			string(is.Scan),
			string(is.Kind),
			is.Column,
			row,
			cellText(is.Value),
			is.Description,
		})
	}
	return records
}

// WriteIssuesCSV writes the issue list with a header row
func WriteIssuesCSV(w io.Writer, r *domain.Report, opts WriteOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(IssueHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range IssueRecords(r) {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellText(v *domain.Value) string {
	if v == nil || v.IsMissing() {
		return ""
	}
	return v.String()
}
