package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"dqcli/pkg/contracts/domain"
)

// maxListedIssues caps the issue lines printed per scan
const maxListedIssues = 5

// writeSummary prints a human-readable digest of the report
func writeSummary(w io.Writer, path string, r *domain.Report, elapsed time.Duration) error {
	s := r.Summary

	fmt.Fprintf(w, "Data quality report: %s\n", path)
	fmt.Fprintf(w, "%d rows x %d columns, %d missing cells, %d duplicate rows (%s)\n",
		s.Rows, s.Columns, s.MissingCells, s.DuplicateRows, elapsed.Round(time.Millisecond))
	if dk := r.DuplicateKeys; len(dk.Key) > 0 {
		fmt.Fprintf(w, "Key (%s): %d unique of %d rows\n", strings.Join(dk.Key, ", "), dk.UniqueKeys, dk.TotalRows)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCAN\tISSUES")
	for _, scan := range domain.ScanOrder {
		fmt.Fprintf(tw, "%s\t%d\n", scanTitles[scan], s.IssuesByScan[scan])
	}
	fmt.Fprintf(tw, "Total\t%d\n", s.TotalIssues)
	if err := tw.Flush(); err != nil {
		return err
	}

	if s.TotalIssues == 0 {
		fmt.Fprintln(w, "\nNo issues found.")
		return nil
	}

	for _, scan := range domain.ScanOrder {
		issues := r.IssuesFor(scan)
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", scanTitles[scan])
		for i, is := range issues {
			if i == maxListedIssues {
				fmt.Fprintf(w, "  ... and %d more\n", len(issues)-maxListedIssues)
				break
			}
			fmt.Fprintf(w, "  - %s\n", issueLine(is))
		}
	}
	return nil
}

func issueLine(is domain.Issue) string {
	var scope []string
	if is.Column != "" {
		scope = append(scope, is.Column)
	}
	if is.Row != nil {
		scope = append(scope, fmt.Sprintf("row %d", *is.Row))
	}
	if len(scope) == 0 {
		return is.Description
	}
	return fmt.Sprintf("[%s] %s", strings.Join(scope, ", "), is.Description)
}
