// Package quality detects data-quality problems in a table without changing it.
//
// Nine independent scans cover missing values, type consistency, duplicate
// rows, duplicate keys, text formatting, constant and empty columns, numeric
// outliers, domain rules and the column schema. The Inspector validates a
// Config against the table, runs the scans sequentially or concurrently and
// assembles a domain.Report whose issues follow domain.ScanOrder.
//
// Each scan is also exported as a plain function so it can be used on its own:
//
//	section, issues := quality.ScanDuplicateRows(table)
package quality
