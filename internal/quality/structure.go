package quality

import (
	"fmt"
	"strings"

	"dqcli/pkg/contracts/domain"
)

// ScanStructure compares the table's column sequence with the expected one.
// Without an expected schema only the shape is reported.
func ScanStructure(t *domain.Table, expected []string) (domain.StructureSection, []domain.Issue) {
	actual := t.Columns()
	section := domain.StructureSection{
		Actual:     actual,
		Missing:    []string{},
		Unexpected: []string{},
		Rows:       t.NumRows(),
		Columns:    t.NumColumns(),
	}
	if len(expected) == 0 {
		return section, nil
	}
	section.Expected = append([]string(nil), expected...)

	var issues []domain.Issue
	section.Missing = difference(expected, actual)
	for _, c := range section.Missing {
		issues = append(issues, domain.ColumnIssue(domain.ScanStructure, domain.IssueMissingColumn, c,
			"expected column not present"))
	}
	section.Unexpected = difference(actual, expected)
	for _, c := range section.Unexpected {
		issues = append(issues, domain.ColumnIssue(domain.ScanStructure, domain.IssueUnexpectedColumn, c,
			"column not in expected schema"))
	}

	section.OrderMismatch = orderMismatch(actual, expected)
	if section.OrderMismatch {
		issues = append(issues, domain.Issue{
			Scan: domain.ScanStructure,
			Kind: domain.IssueColumnOrder,
			Description: fmt.Sprintf("column order [%s] does not match expected [%s]",
				strings.Join(actual, ", "), strings.Join(expected, ", ")),
		})
	}
	return section, issues
}

// difference returns the elements of a not in b, in a's order
func difference(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	out := []string{}
	for _, s := range a {
		if _, ok := in[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// orderMismatch truncates actual to len(expected) and compares element-wise.
// An actual sequence shorter than expected is a mismatch.
func orderMismatch(actual, expected []string) bool {
	if len(actual) < len(expected) {
		return true
	}
	for i, e := range expected {
		if actual[i] != e {
			return true
		}
	}
	return false
}
