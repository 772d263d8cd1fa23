package quality

import (
	"fmt"

	"dqcli/pkg/contracts/domain"
)

// ScanMissingValues counts missing cells per column in table order
func ScanMissingValues(t *domain.Table) (domain.MissingSection, []domain.Issue) {
	section := domain.MissingSection{Columns: make([]domain.ColumnMissing, 0, t.NumColumns())}
	var issues []domain.Issue

	rows := t.NumRows()
	for _, name := range t.Columns() {
		values, _ := t.Column(name)
		count := 0
		for _, v := range values {
			if v.IsMissing() {
				count++
			}
		}

		pct := 0.0
		if rows > 0 {
			pct = float64(count) / float64(rows) * 100
		}
		section.Columns = append(section.Columns, domain.ColumnMissing{Column: name, Count: count, Percent: pct})
		section.TotalMissing += count

		if count > 0 {
			issues = append(issues, domain.ColumnIssue(domain.ScanMissing, domain.IssueMissingValues, name,
				fmt.Sprintf("%d of %d values missing (%.1f%%)", count, rows, pct)))
		}
	}
	return section, issues
}
