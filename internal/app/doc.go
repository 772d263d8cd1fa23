// Package app wires the inspection HTTP service together.
//
// NewApplication initializes OpenTelemetry from the telemetry section,
// creates the inspection metrics and an inspector that records to them, and
// builds the chi router:
//
//	RequestID → RealIP → OTel → StructuredLogger → Recoverer
//	    /metrics                 Prometheus exposition
//	    /api/health              health status
//	    /api/v1/inspections      rate limited, body limited
//
// Run serves until its context is cancelled and then shuts the server and
// the telemetry providers down within the configured shutdown timeout.
package app
