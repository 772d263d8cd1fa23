package quality

import (
	"fmt"
	"strconv"
	"strings"

	"dqcli/pkg/contracts/domain"
)

// ScanFormat looks at the text cells of the given columns for surrounding
// whitespace and for values that only differ by case or padding.
func ScanFormat(t *domain.Table, columns []string) (domain.FormatSection, []domain.Issue) {
	section := domain.FormatSection{Columns: make([]domain.ColumnFormat, 0, len(columns))}
	var issues []domain.Issue

	for _, name := range columns {
		values, ok := t.Column(name)
		if !ok {
			continue
		}
		cf := domain.ColumnFormat{Column: name, WhitespaceRows: []int{}, CaseVariants: []domain.CaseVariant{}}

		var order []string
		spellings := make(map[string][]string)

		for row, v := range values {
			s, ok := v.Str()
			if !ok {
				continue
			}
			trimmed := strings.TrimSpace(s)
			if s != trimmed {
				cf.WhitespaceRows = append(cf.WhitespaceRows, row)
				issues = append(issues, domain.CellIssue(domain.ScanFormat, domain.IssueWhitespace, name, row, v,
					fmt.Sprintf("%s has leading or trailing whitespace", strconv.Quote(s))))
			}

			norm := strings.ToLower(trimmed)
			known, seen := spellings[norm]
			if !seen {
				order = append(order, norm)
			}
			if !contains(known, s) {
				spellings[norm] = append(known, s)
			}
		}

		for _, norm := range order {
			variants := spellings[norm]
			if len(variants) < 2 {
				continue
			}
			cf.CaseVariants = append(cf.CaseVariants, domain.CaseVariant{Normalized: norm, Spellings: variants})
			issues = append(issues, domain.ColumnIssue(domain.ScanFormat, domain.IssueCaseVariant, name,
				fmt.Sprintf("%s is spelled %d ways: %s", strconv.Quote(norm), len(variants), quoteAll(variants))))
		}
		section.Columns = append(section.Columns, cf)
	}
	return section, issues
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func quoteAll(list []string) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = strconv.Quote(s)
	}
	return strings.Join(parts, ", ")
}
