package primary

import (
	"context"

	"github.com/example/plank/internal/models"
)

// Enforcement mode constants.
const (
	EnforceStrict = "strict"
	EnforceWarn   = "warn"
	EnforceAuto   = "auto"
)

// ValidEnforceMode reports whether m is a known enforcement mode.
func ValidEnforceMode(m string) bool {
	return m == EnforceStrict || m == EnforceWarn || m == EnforceAuto
}

// ScopeService defines the primary port for scope operations.
type ScopeService interface {
	// AssignScope assigns a scope to a record if it has none: inherited
	// from the parent when one exists, the tier default otherwise.
	// Idempotent.
	AssignScope(ctx context.Context, ns, recordID string) (*models.Record, error)

	// CheckScope validates a record's scope without mutating anything.
	CheckScope(ctx context.Context, ns, recordID string) (*ScopeCheckResult, error)

	// EnforceScope applies the given enforcement mode. strict returns a
	// fault.ScopeViolationError without persisting; warn reports
	// violations and leaves the record unchanged; auto redacts forbidden
	// description spans and persists.
	EnforceScope(ctx context.Context, req EnforceScopeRequest) (*EnforceScopeResponse, error)
}

// ScopeCheckResult is the structured outcome of a scope validation.
type ScopeCheckResult struct {
	RecordID   string
	Valid      bool
	Errors     []string
	Violations []models.ScopeViolation
}

// EnforceScopeRequest contains parameters for scope enforcement.
type EnforceScopeRequest struct {
	Namespace string
	RecordID  string
	Mode      string
	Author    string
}

// EnforceScopeResponse contains the enforcement outcome.
type EnforceScopeResponse struct {
	Record     *models.Record
	Violations []models.ScopeViolation
	// Redacted reports whether auto mode rewrote the description.
	Redacted bool
}
