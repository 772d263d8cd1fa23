package quality

import (
	"fmt"

	"dqcli/pkg/contracts/domain"
)

// ScanColumnProfiles reports columns that are entirely missing (empty) or
// hold a single distinct non-missing value (constant). The two are disjoint.
// It also counts distinct values per column, missing counted as one value.
func ScanColumnProfiles(t *domain.Table) (domain.ColumnProfileSection, []domain.Issue) {
	section := domain.ColumnProfileSection{
		Empty:     []string{},
		Constant:  []domain.ConstantColumn{},
		Diversity: make([]domain.ColumnDistinct, 0, t.NumColumns()),
	}
	var issues []domain.Issue

	for _, name := range t.Columns() {
		values, _ := t.Column(name)

		distinct := make(map[domain.Value]struct{})
		var only domain.Value
		hasMissing := false
		for _, v := range values {
			if v.IsMissing() {
				hasMissing = true
				continue
			}
			if _, ok := distinct[v]; !ok {
				distinct[v] = struct{}{}
				only = v
			}
		}

		diversity := len(distinct)
		if hasMissing {
			diversity++
		}
		section.Diversity = append(section.Diversity, domain.ColumnDistinct{
			Column: name, Distinct: diversity, Rows: len(values),
		})

		switch len(distinct) {
		case 0:
			section.Empty = append(section.Empty, name)
			issues = append(issues, domain.ColumnIssue(domain.ScanColumns, domain.IssueEmptyColumn, name,
				"every value is missing"))
		case 1:
			section.Constant = append(section.Constant, domain.ConstantColumn{Column: name, Value: only})
			issues = append(issues, domain.ColumnIssue(domain.ScanColumns, domain.IssueConstantColumn, name,
				fmt.Sprintf("every non-missing value is %s", quoted(only))))
		}
	}
	return section, issues
}
