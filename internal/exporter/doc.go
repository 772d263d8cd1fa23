// Package exporter writes inspection reports to disk or any io.Writer.
//
// Three formats are supported:
//
//   - JSON: the full report, indented, byte-identical for identical reports
//   - CSV: the flat issue list, optionally prefixed with a UTF-8 BOM so Excel
//     detects the encoding
//   - XLSX: a workbook with a summary sheet, the issue list and one sheet per
//     scan with tabular output
//
// Example usage:
//
//	exp := exporter.NewExporter(logger)
//	if err := exp.Export("reports/customers.xlsx", report); err != nil {
//		return err
//	}
package exporter
