// Package shared holds helpers used across dqcli packages.
//
// The testutil subpackage provides a capturing slog handler and the customer
// fixture table used by the quality, ingest, exporter and transport tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	table := testutil.CustomerTable()
//
// Nothing here contains inspection logic.
package shared
