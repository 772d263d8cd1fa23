// Package services sits between the transports (HTTP handlers, the CLI) and
// the quality engine.
//
// InspectionService converts input into a domain.Table, either by loading a
// CSV/XLSX file through the ingest package or from rows submitted over HTTP,
// and runs the configured inspector over it. HealthService backs the health
// endpoint.
//
// Services take a *slog.Logger by injection and return *errors.AppError
// values that handlers map onto HTTP status codes.
package services
