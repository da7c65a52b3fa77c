// Package sqlerr handles database driver errors.
//
// It turns PostgreSQL errors (SQLSTATE codes) into client-facing HTTP errors,
// e.g. a unique violation on users.email becomes a 400 "User already exists".
package sqlerr
