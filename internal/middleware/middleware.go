// Package middleware holds the Echo middleware: request ids, the request
// scoped logger, bearer token authentication, signup rate limiting, New Relic
// tracing and the global error handler.
package middleware
