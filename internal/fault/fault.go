// Package fault defines the typed error taxonomy for the plank core.
// Services return these instead of stringly-typed errors so callers can
// branch on the failure class; the CLI adapters own human rendering.
package fault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/plank/internal/models"
)

// NotFoundError reports a missing record, state, or parent.
type NotFoundError struct {
	Kind string // "record", "state", "parent", "change log entry", ...
	ID   string
	Msg  string // optional detail overriding the default message
}

func (e *NotFoundError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NotFound constructs a NotFoundError.
func NotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// ValidationError reports a malformed field, missing required field,
// invalid enum value, or dangling reference.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Validation constructs a ValidationError.
func Validation(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// ScopeViolationError is raised by strict-mode scope enforcement. It carries
// the full violation list; nothing is persisted when it is returned.
type ScopeViolationError struct {
	RecordID   string
	Violations []models.ScopeViolation
}

func (e *ScopeViolationError) Error() string {
	types := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		types[i] = v.Type
	}
	return fmt.Sprintf("record %s violates its scope contract (%d violations: %s)",
		e.RecordID, len(e.Violations), strings.Join(types, ", "))
}

// ConflictError reports a rollback blocked by one or more conflicts.
type ConflictError struct {
	RollbackID string
	Conflicts  []models.RollbackConflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("rollback %s blocked by %d conflict(s)", e.RollbackID, len(e.Conflicts))
}

// BusyError reports lock contention: another operation holds the record
// lock and the bounded wait expired.
type BusyError struct {
	RecordID string
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("record %s is busy: another operation holds its lock", e.RecordID)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsScopeViolation reports whether err wraps a ScopeViolationError.
func IsScopeViolation(err error) bool {
	var sv *ScopeViolationError
	return errors.As(err, &sv)
}

// IsConflict reports whether err wraps a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsBusy reports whether err wraps a BusyError.
func IsBusy(err error) bool {
	var be *BusyError
	return errors.As(err, &be)
}
