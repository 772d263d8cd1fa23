package exporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"dqcli/pkg/contracts/domain"
)

// Workbook sheet names
const (
	SheetSummary   = "Summary"
	SheetIssues    = "Issues"
	SheetMissing   = "Missing"
	SheetTypes     = "Types"
	SheetOutliers  = "Outliers"
	SheetRules     = "Rules"
	SheetStructure = "Structure"
)

// WriteXLSX writes the report as an Excel workbook
func WriteXLSX(w io.Writer, r *domain.Report) error {
	f, err := buildWorkbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

type sheetWriter struct {
	f      *excelize.File
	header int
}

func buildWorkbook(r *domain.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	sw := &sheetWriter{f: f, header: style}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]interface{}
	}{
		{SheetSummary, []string{"metric", "value"}, summaryRows(r)},
		{SheetIssues, IssueHeaders, issueRows(r)},
		{SheetMissing, []string{"column", "missing", "percent"}, missingRows(r)},
		{SheetTypes, []string{"column", "declared", "dominant", "mixed", "kinds", "mismatched_rows"}, typeRows(r)},
		{SheetOutliers, []string{"column", "row", "value", "score", "outlier"}, outlierRows(r)},
		{SheetRules, []string{"column", "row", "value", "rule", "label"}, ruleRows(r)},
		{SheetStructure, []string{"expected", "actual", "status"}, structureRows(r)},
	}

	for _, s := range sheets {
		if err := sw.write(s.name, s.header, s.rows); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func (sw *sheetWriter) write(sheet string, header []string, rows [][]interface{}) error {
	if idx, _ := sw.f.GetSheetIndex(sheet); idx < 0 {
		if _, err := sw.f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	hdr := make([]interface{}, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := sw.f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := sw.f.SetCellStyle(sheet, "A1", last, sw.header); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func summaryRows(r *domain.Report) [][]interface{} {
	s := r.Summary
	rows := [][]interface{}{
		{"rows", s.Rows},
		{"columns", s.Columns},
		{"missing_cells", s.MissingCells},
		{"duplicate_rows", s.DuplicateRows},
		{"total_issues", s.TotalIssues},
	}
	for _, scan := range domain.ScanOrder {
		rows = append(rows, []interface{}{"scan:" + string(scan), s.IssuesByScan[scan]})
	}

	kinds := make([]string, 0, len(s.IssuesByKind))
	for k := range s.IssuesByKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		rows = append(rows, []interface{}{"kind:" + k, s.IssuesByKind[domain.IssueKind(k)]})
	}

	if dk := r.DuplicateKeys; len(dk.Key) > 0 {
		rows = append(rows, []interface{}{"unique_keys", fmt.Sprintf("%d of %d", dk.UniqueKeys, dk.TotalRows)})
	}
	for _, d := range r.Columns.Diversity {
		rows = append(rows, []interface{}{"distinct:" + d.Column, d.Distinct})
	}
	return rows
}

func issueRows(r *domain.Report) [][]interface{} {
	records := IssueRecords(r)
	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		rows[i] = row
	}
	return rows
}

func missingRows(r *domain.Report) [][]interface{} {
	rows := make([][]interface{}, 0, len(r.Missing.Columns))
	for _, c := range r.Missing.Columns {
		rows = append(rows, []interface{}{c.Column, c.Count, c.Percent})
	}
	return rows
}

func typeRows(r *domain.Report) [][]interface{} {
	rows := make([][]interface{}, 0, len(r.Types.Columns))
	for _, c := range r.Types.Columns {
		kinds := make([]string, 0, len(c.KindCounts))
		for _, k := range []domain.Kind{domain.KindInteger, domain.KindFloat, domain.KindText} {
			if n := c.KindCounts[k]; n > 0 {
				kinds = append(kinds, fmt.Sprintf("%s=%d", k, n))
			}
		}
		mismatched := make([]string, len(c.Mismatched))
		for i, row := range c.Mismatched {
			mismatched[i] = fmt.Sprint(row)
		}
		rows = append(rows, []interface{}{
			c.Column, string(c.Declared), string(c.Dominant), c.Mixed,
			strings.Join(kinds, " "), strings.Join(mismatched, " "),
		})
	}
	return rows
}

func outlierRows(r *domain.Report) [][]interface{} {
	var rows [][]interface{}
	for _, c := range r.Outliers.Columns {
		if !c.Computable {
			rows = append(rows, []interface{}{c.Column, nil, nil, nil, c.Reason})
			continue
		}
		for _, z := range c.Cells {
			rows = append(rows, []interface{}{c.Column, z.Row, z.Value, z.Z, z.Outlier})
		}
	}
	return rows
}

func ruleRows(r *domain.Report) [][]interface{} {
	var rows [][]interface{}
	for _, c := range r.Rules.Columns {
		for _, hit := range c.Violations {
			v := hit.Value
			rows = append(rows, []interface{}{c.Column, hit.Row, cellText(&v), hit.Rule, hit.Label})
		}
	}
	return rows
}

// structureRows lists expected and actual columns side by side
func structureRows(r *domain.Report) [][]interface{} {
	s := r.Structure
	n := len(s.Expected)
	if len(s.Actual) > n {
		n = len(s.Actual)
	}
	rows := make([][]interface{}, 0, n)
	for i := 0; i < n; i++ {
		var expected, actual string
		if i < len(s.Expected) {
			expected = s.Expected[i]
		}
		if i < len(s.Actual) {
			actual = s.Actual[i]
		}
		status := "ok"
		switch {
		case len(s.Expected) == 0:
			status = ""
		case expected != actual:
			status = "differs"
		}
		rows = append(rows, []interface{}{expected, actual, status})
	}
	return rows
}
