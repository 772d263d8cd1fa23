package quality

import (
	"fmt"
	"math"

	"dqcli/pkg/contracts/domain"
)

// OutlierMethod selects how a cell's distance from the centre is scored
type OutlierMethod string

const (
	// MethodZScore scores (v - mean) / sample stddev
	MethodZScore OutlierMethod = "zscore"
	// MethodModifiedZScore scores 0.6745 (v - median) / MAD
	MethodModifiedZScore OutlierMethod = "modified_zscore"
)

// madScale makes the MAD a consistent estimator of the standard deviation
// for normal data (Iglewicz and Hoaglin)
const madScale = 0.6745

// ScanOutliers scores every numeric cell of the given columns and flags those
// whose absolute score exceeds threshold. Text and missing cells are ignored.
func ScanOutliers(t *domain.Table, columns []string, method OutlierMethod, threshold float64) (domain.OutlierSection, []domain.Issue) {
	if method == "" {
		method = MethodZScore
	}
	section := domain.OutlierSection{
		Method:    string(method),
		Threshold: threshold,
		Columns:   make([]domain.ColumnOutlier, 0, len(columns)),
	}
	var issues []domain.Issue

	for _, name := range columns {
		values, ok := t.Column(name)
		if !ok {
			continue
		}

		var rows []int
		var xs []float64
		for r, v := range values {
			if n, ok := v.Number(); ok {
				rows = append(rows, r)
				xs = append(xs, n)
			}
		}

		co := domain.ColumnOutlier{Column: name, Count: len(xs)}
		if len(xs) < 2 {
			co.Reason = fmt.Sprintf("need at least 2 numeric values, found %d", len(xs))
			section.Columns = append(section.Columns, co)
			issues = append(issues, domain.ColumnIssue(domain.ScanOutliers, domain.IssueNotComputable, name, co.Reason))
			continue
		}

		if n := nonFinite(xs); n > 0 {
			co.Reason = fmt.Sprintf("%d non-finite numeric values (NaN or infinity)", n)
			section.Columns = append(section.Columns, co)
			issues = append(issues, domain.ColumnIssue(domain.ScanOutliers, domain.IssueNotComputable, name, co.Reason))
			continue
		}

		co.Mean = mean(xs)
		co.Median = median(xs)
		co.StdDev = sampleStdDev(xs, co.Mean)

		centre, spread, scale := co.Mean, co.StdDev, 1.0
		if method == MethodModifiedZScore {
			co.MAD = medianAbsDeviation(xs, co.Median)
			centre, spread, scale = co.Median, co.MAD, madScale
		}

		if spread == 0 || math.IsNaN(spread) {
			co.Reason = "zero spread: all numeric values are identical"
			if method == MethodModifiedZScore {
				co.Reason = "zero median absolute deviation"
			}
			section.Columns = append(section.Columns, co)
			issues = append(issues, domain.ColumnIssue(domain.ScanOutliers, domain.IssueNotComputable, name, co.Reason))
			continue
		}

		co.Computable = true
		co.Cells = make([]domain.ZScore, 0, len(xs))
		for i, x := range xs {
			z := scale * (x - centre) / spread
			flagged := math.Abs(z) > threshold
			co.Cells = append(co.Cells, domain.ZScore{Row: rows[i], Value: x, Z: z, Outlier: flagged})
			if flagged {
				v, _ := t.Cell(rows[i], name)
				issues = append(issues, domain.CellIssue(domain.ScanOutliers, domain.IssueOutlier, name, rows[i], v,
					fmt.Sprintf("score %.2f exceeds %g", z, threshold)))
			}
		}
		section.Columns = append(section.Columns, co)
	}
	return section, issues
}
