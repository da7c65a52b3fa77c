// Package model holds the persisted entities and the request payloads that
// describe changes to them.
package model

import "time"

// Base carries the columns every table has. IDs are snowflakes and travel as
// JSON strings so JavaScript clients do not lose precision.
type Base struct {
	ID        int64     `json:"id,string" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Present reports whether an optional string field was supplied with a
// non-empty value.
func Present(s *string) bool {
	return s != nil && *s != ""
}
