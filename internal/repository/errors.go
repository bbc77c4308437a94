// Package repository defines error values that are shared across
// repositories.  These sentinels let higher layers branch on failure
// modes with errors.Is instead of string matching.  ErrSeatConflict in
// particular is the normal outcome of losing a race for a seat, not an
// exceptional condition: every claim path must expect it.
package repository

import "errors"

// ErrSeatConflict is returned when a conditional seat update matched no
// row: the seat was already reserved, blocked, or released by someone
// else between the caller reading it and claiming it.  Handlers should
// translate this into an HTTP 409 response.
var ErrSeatConflict = errors.New("seat conflict")

// ErrLayoutNotConfigured is returned when a schedule's flight has no
// seat layout assigned, so no inventory can be materialized for it.
// This is a provisioning mistake, surfaced to the passenger as
// "seating unavailable" rather than silently defaulting to zero seats.
var ErrLayoutNotConfigured = errors.New("flight has no seat layout configured")
