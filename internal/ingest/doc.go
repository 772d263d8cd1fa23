// Package ingest loads delimited text and Excel workbooks into domain tables.
//
// The first row is the header. Every other cell is classified independently:
// configured missing tokens become Missing, integers become Integer, other
// finite numbers become Float and anything else is kept verbatim as Text, so
// padding and casing problems survive for the format scan.
package ingest
