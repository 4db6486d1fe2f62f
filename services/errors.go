package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Typed errors so handlers can map service failures onto HTTP statuses without
// string matching. State is never mutated when one of these is returned.

// ValidationError covers bad input: date ordering, past dates, ambiguous or
// missing asset, missing price fields.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

// ConflictError means an overlapping booking already holds the range.
type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

// PermissionError means the caller is not allowed to drive this transition.
type PermissionError struct{ Message string }

func (e *PermissionError) Error() string { return e.Message }

// StateError means a transition guard failed, e.g. confirming a booking that
// is no longer pending.
type StateError struct{ Message string }

func (e *StateError) Error() string { return e.Message }

// StatusCode maps a service error onto the HTTP status handlers should return.
// Unknown errors are treated as storage failures.
func StatusCode(err error) int {
	var ve *ValidationError
	var ce *ConflictError
	var pe *PermissionError
	var se *StateError
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest
	case errors.As(err, &ce):
		return fiber.StatusConflict
	case errors.As(err, &pe):
		return fiber.StatusForbidden
	case errors.As(err, &se):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
