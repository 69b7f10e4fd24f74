// Package service implements the booking rules and their orchestration
// against the repository layer. Handlers translate the two sentinel
// errors below into HTTP statuses; every deny path raises exactly one
// of them and performs no write.
package service

import "errors"

// ErrNotFound is returned when a required entity (enrollment, room,
// booking) does not exist. Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller is not entitled to the
// action: unpaid, remote or non-hotel ticket, ownership mismatch,
// room at capacity, or nothing to transfer. Handlers translate it
// into HTTP 403.
var ErrForbidden = errors.New("forbidden")
