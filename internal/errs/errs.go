// Package errs defines the error types returned to API clients.
//
// Every rejection the API produces (schema failures, missing records,
// ownership violations, duplicate emails, elapsed meetups) ends up as an
// *HTTPError so the global error handler can write one consistent JSON shape.
package errs
