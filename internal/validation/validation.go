// Package validation contains the logic for validating
// request data.
//
// Request payloads declare their schema with `validate` struct tags
// (required fields, email format, minimum length) and may add cross-field
// rules in their Validate method. Failures are converted into field errors
// the request gate can log and reject on.
package validation
