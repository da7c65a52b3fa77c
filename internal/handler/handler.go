// Package handler is the HTTP edge of the service. Handlers bind the request
// into a payload, resolve the acting user and hand both to a service, whose
// request gate validates and authorizes before anything is persisted.
package handler
