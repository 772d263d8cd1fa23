package quality

import (
	"fmt"

	"dqcli/pkg/contracts/domain"
)

// ScanDomainRules applies each column's rules in order. The first matching
// rule labels the cell and later rules are not evaluated.
func ScanDomainRules(t *domain.Table, sets []RuleSet) (domain.RuleSection, []domain.Issue) {
	section := domain.RuleSection{Columns: make([]domain.ColumnRules, 0, len(sets))}
	var issues []domain.Issue

	for _, set := range sets {
		values, ok := t.Column(set.Column)
		if !ok {
			continue
		}
		cr := domain.ColumnRules{Column: set.Column, Violations: []domain.RuleHit{}}

		for row, v := range values {
			if v.IsMissing() {
				continue
			}
			cr.Checked++
			rule, hit := firstMatch(set.Rules, v)
			if !hit {
				continue
			}
			cr.Violations = append(cr.Violations, domain.RuleHit{Row: row, Value: v, Rule: rule.Name, Label: rule.Label})
			issues = append(issues, domain.CellIssue(domain.ScanRules, domain.IssueRuleViolation, set.Column, row, v,
				fmt.Sprintf("%s: %s (%s)", quoted(v), rule.Label, rule.Name)))
		}
		section.Columns = append(section.Columns, cr)
	}
	return section, issues
}

func firstMatch(rules []Rule, v domain.Value) (Rule, bool) {
	for _, r := range rules {
		if r.Predicate != nil && r.Predicate(v) {
			return r, true
		}
	}
	return Rule{}, false
}
