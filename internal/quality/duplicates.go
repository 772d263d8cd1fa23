package quality

import (
	"fmt"
	"strings"

	"dqcli/pkg/contracts/domain"
)

// ScanDuplicateRows flags every row identical to an earlier one. The first
// occurrence is canonical and never flagged.
func ScanDuplicateRows(t *domain.Table) (domain.DuplicateRowSection, []domain.Issue) {
	section := domain.DuplicateRowSection{Rows: []int{}}
	var issues []domain.Issue

	first := make(map[string]int, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		key := domain.TupleKey(t.Row(r))
		orig, seen := first[key]
		if !seen {
			first[key] = r
			continue
		}
		section.Rows = append(section.Rows, r)
		issues = append(issues, domain.RowIssue(domain.ScanDuplicateRows, domain.IssueDuplicateRow, r,
			fmt.Sprintf("row %d duplicates row %d", r, orig)))
	}
	section.Count = len(section.Rows)
	return section, issues
}

// ScanDuplicateKeys groups rows by their key tuple and reports every group
// with more than one row, all rows included. Groups keep first-occurrence
// order. An empty key skips the scan.
func ScanDuplicateKeys(t *domain.Table, key []string) (domain.DuplicateKeySection, []domain.Issue) {
	section := domain.DuplicateKeySection{
		Key:       append([]string{}, key...),
		TotalRows: t.NumRows(),
		Groups:    []domain.KeyGroup{},
	}
	if len(key) == 0 {
		section.Skipped = true
		return section, nil
	}

	type group struct {
		values []domain.Value
		rows   []int
	}
	var order []string
	groups := make(map[string]*group)

	for r := 0; r < t.NumRows(); r++ {
		values := make([]domain.Value, len(key))
		for i, c := range key {
			values[i], _ = t.Cell(r, c)
		}
		k := domain.TupleKey(values)
		g, ok := groups[k]
		if !ok {
			g = &group{values: values}
			groups[k] = g
			order = append(order, k)
		}
		g.rows = append(g.rows, r)
	}

	section.UniqueKeys = len(order)

	var issues []domain.Issue
	label := strings.Join(key, ", ")
	for _, k := range order {
		g := groups[k]
		if len(g.rows) < 2 {
			continue
		}
		section.Groups = append(section.Groups, domain.KeyGroup{Values: g.values, Rows: g.rows})
		desc := fmt.Sprintf("key (%s) = (%s) shared by rows %s", label, formatValues(g.values), formatRows(g.rows))
		for _, r := range g.rows {
			issues = append(issues, domain.RowIssue(domain.ScanDuplicateKeys, domain.IssueDuplicateKey, r, desc))
		}
	}
	return section, issues
}

func formatValues(values []domain.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func formatRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprint(r)
	}
	return strings.Join(parts, ", ")
}
