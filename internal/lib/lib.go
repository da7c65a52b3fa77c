// Package lib groups helpers that do not belong to a single layer:
// id generation, password hashing, bearer tokens, background jobs and email.
package lib
