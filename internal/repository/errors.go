// Package repository contains the data access layer.  This file defines
// error values shared across repositories so that handlers can translate
// failures into HTTP statuses without inspecting driver errors themselves.
// The taxonomy is: ErrConflict for uniqueness violations (409),
// ErrInvalidTransition and ErrValidation for bad input (400/422),
// per-entity not-found sentinels (404), and ErrConstraint for referential
// violations that would orphan a required foreign key (409).
package repository

import (
	"errors"
	"strings"
)

// ErrConflict signals that a uniqueness invariant would be violated
// (duplicate slug, reference URL, (event,email) pair or (event,film) pair).
// The storage-layer unique index is the source of truth; callers retry
// with different input, never automatically.
var ErrConflict = errors.New("conflict")

// ErrConstraint signals a referential-integrity failure, such as deleting
// a user still referenced as an event's creator.
var ErrConstraint = errors.New("constraint violation")

// ErrInvalidTransition is returned when a status change is not allowed by
// the entity's transition table.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrValidation covers malformed or out-of-range input that reaches the
// repository layer, e.g. a negative plus-ones count.
var ErrValidation = errors.New("validation failed")

// Not-found sentinels, one per entity, so handlers can report which
// reference was dangling.
var (
	ErrEventNotFound          = errors.New("event not found")
	ErrFilmNotFound           = errors.New("film not found")
	ErrLineupEntryNotFound    = errors.New("film is not in the event lineup")
	ErrInvitationNotFound     = errors.New("invitation not found")
	ErrFeatureRequestNotFound = errors.New("feature request not found")
)

// isDuplicateKey reports whether err is a unique-index violation.  MySQL
// reports errno 1062; the SQLite driver used by the in-memory tests says
// "UNIQUE constraint failed".  Matching the message keeps the repositories
// driver-agnostic.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "1062") || strings.Contains(msg, "UNIQUE constraint failed")
}

// isDuplicateOn narrows a duplicate-key error to a specific column or key
// name, for tables carrying more than one unique index.
func isDuplicateOn(err error, key string) bool {
	return isDuplicateKey(err) && strings.Contains(err.Error(), key)
}

// isFKViolation reports whether err is a foreign-key failure (MySQL 1451
// on delete / 1452 on insert, SQLite's generic message).
func isFKViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "1451") || strings.Contains(msg, "1452") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}
