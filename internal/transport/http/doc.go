// Package http implements the HTTP handlers of the inspection service.
//
// Handlers stay thin: they decode and validate the request, call a service
// and render the result. Errors are passed to errors.ErrorHandler, which
// writes RFC 7807 problem bodies:
//
//	CONFIG, VALIDATION  -> 422 Unprocessable Entity
//	PARSING             -> 400 Bad Request
//	anything else       -> 500 Internal Server Error
//
// Routes:
//
//	POST /api/v1/inspections   inspect submitted rows
//	GET  /api/health           service health
package http
