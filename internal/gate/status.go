package gate

import "net/http"

// Kind classifies why a request was rejected.
type Kind string

const (
	// KindValidation: the payload is malformed, incomplete or inconsistent.
	KindValidation Kind = "VALIDATION_FAILED"
	// KindNotFound: the referenced record does not exist.
	KindNotFound Kind = "NOT_FOUND"
	// KindForbidden: the actor is not the owner of the record.
	KindForbidden Kind = "FORBIDDEN"
	// KindUnauthorized: the actor failed a credential check (e.g. old password).
	KindUnauthorized Kind = "UNAUTHORIZED"
	// KindConflict: the change collides with another record (duplicate email).
	KindConflict Kind = "CONFLICT"
	// KindBusinessRule: a domain constraint forbids the change (past dates).
	KindBusinessRule Kind = "BUSINESS_RULE"
)

// StatusMode selects how rejection kinds translate into HTTP statuses.
type StatusMode string

const (
	// ModeLegacy keeps the statuses existing clients depend on: everything
	// that is not a validation or conflict failure is a 401.
	ModeLegacy StatusMode = "legacy"
	// ModeConventional uses the conventional status for each kind.
	ModeConventional StatusMode = "conventional"
)

// StatusTable maps rejection kinds to HTTP statuses.
type StatusTable map[Kind]int

// Statuses returns the table for mode. Unknown modes get the legacy table.
func Statuses(mode StatusMode) StatusTable {
	if mode == ModeConventional {
		return StatusTable{
			KindValidation:   http.StatusBadRequest,
			KindNotFound:     http.StatusNotFound,
			KindForbidden:    http.StatusForbidden,
			KindUnauthorized: http.StatusUnauthorized,
			KindConflict:     http.StatusConflict,
			KindBusinessRule: http.StatusUnprocessableEntity,
		}
	}

	return StatusTable{
		KindValidation:   http.StatusBadRequest,
		KindNotFound:     http.StatusUnauthorized,
		KindForbidden:    http.StatusUnauthorized,
		KindUnauthorized: http.StatusUnauthorized,
		KindConflict:     http.StatusBadRequest,
		KindBusinessRule: http.StatusUnauthorized,
	}
}

// Status returns the status for kind, 400 when the kind is not in the table.
func (t StatusTable) Status(kind Kind) int {
	if status, ok := t[kind]; ok {
		return status
	}
	return http.StatusBadRequest
}

// With returns a copy of t where kind maps to status.
func (t StatusTable) With(kind Kind, status int) StatusTable {
	out := make(StatusTable, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[kind] = status
	return out
}
