package quality

import (
	"fmt"
	"strconv"
	"strings"

	"dqcli/pkg/contracts/domain"
)

// ScanTypes checks that each column holds values of one class. A column is
// judged against its dominant class; on a tie it is judged against the
// declared class, or numeric when nothing is declared.
func ScanTypes(t *domain.Table, columns []string, declared map[string]domain.Class) (domain.TypeSection, []domain.Issue) {
	section := domain.TypeSection{Columns: make([]domain.ColumnTypes, 0, len(columns))}
	var issues []domain.Issue

	for _, name := range columns {
		values, ok := t.Column(name)
		if !ok {
			continue
		}

		ct := domain.ColumnTypes{
			Column:     name,
			Declared:   declared[name],
			KindCounts: make(map[domain.Kind]int),
			Mismatched: []int{},
		}
		for _, v := range values {
			if !v.IsMissing() {
				ct.KindCounts[v.Kind()]++
			}
		}

		counts := classCounts(values)
		if counts[domain.ClassNumeric]+counts[domain.ClassText] == 0 {
			section.Columns = append(section.Columns, ct)
			continue
		}

		expected, ok := dominantClass(counts)
		if ok {
			ct.Dominant = expected
			if ct.Declared != domain.ClassNone && ct.Declared != expected {
				issues = append(issues, domain.ColumnIssue(domain.ScanTypes, domain.IssueTypeMismatch, name,
					fmt.Sprintf("declared %s but most values are %s", ct.Declared, expected)))
			}
		} else {
			ct.Mixed = true
			expected = ct.Declared
			if expected == domain.ClassNone {
				expected = domain.ClassNumeric
			}
			issues = append(issues, domain.ColumnIssue(domain.ScanTypes, domain.IssueMixedTypes, name,
				fmt.Sprintf("no dominant type: %d numeric and %d text values",
					counts[domain.ClassNumeric], counts[domain.ClassText])))
		}

		for row, v := range values {
			class := v.Kind().Class()
			if class == domain.ClassNone || class == expected {
				continue
			}
			ct.Mismatched = append(ct.Mismatched, row)
			issues = append(issues, domain.CellIssue(domain.ScanTypes, domain.IssueTypeMismatch, name, row, v,
				mismatchDescription(v, expected)))
		}
		section.Columns = append(section.Columns, ct)
	}
	return section, issues
}

func mismatchDescription(v domain.Value, expected domain.Class) string {
	desc := fmt.Sprintf("expected %s, found %s %s", expected, v.Kind(), quoted(v))
	if looksNumeric(v) {
		desc += " (numeric-looking text)"
	}
	return desc
}

// looksNumeric reports whether a text value would parse as a number
func looksNumeric(v domain.Value) bool {
	s, ok := v.Str()
	if !ok {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

func quoted(v domain.Value) string {
	if s, ok := v.Str(); ok {
		return strconv.Quote(s)
	}
	return v.String()
}
