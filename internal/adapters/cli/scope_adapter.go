package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/example/plank/internal/fault"
	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/ports/primary"
)

// ScopeAdapter is a thin adapter that translates CLI operations to ScopeService calls.
type ScopeAdapter struct {
	service primary.ScopeService
	out     io.Writer
}

// NewScopeAdapter creates a new ScopeAdapter with the given service.
func NewScopeAdapter(service primary.ScopeService, out io.Writer) *ScopeAdapter {
	return &ScopeAdapter{
		service: service,
		out:     out,
	}
}

// Assign assigns a scope to a record that has none.
func (a *ScopeAdapter) Assign(ctx context.Context, ns, recordID string) error {
	rec, err := a.service.AssignScope(ctx, ns, recordID)
	if err != nil {
		return fmt.Errorf("failed to assign scope: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Scope for %s: abstraction=%s detail=%s\n",
		rec.ID, rec.Scope.Abstraction, rec.Scope.DetailLevel)
	if rec.Scope.InheritedFrom != "" {
		fmt.Fprintf(a.out, "  Inherited from %s\n", rec.Scope.InheritedFrom)
	}
	return nil
}

// Check validates a record's scope and reports violations without mutating.
func (a *ScopeAdapter) Check(ctx context.Context, ns, recordID string) error {
	result, err := a.service.CheckScope(ctx, ns, recordID)
	if err != nil {
		return fmt.Errorf("failed to check scope: %w", err)
	}

	if result.Valid {
		fmt.Fprintf(a.out, "✓ Scope of %s is valid\n", result.RecordID)
		return nil
	}

	fmt.Fprintf(a.out, "✗ Scope of %s has problems\n", result.RecordID)
	for _, e := range result.Errors {
		fmt.Fprintf(a.out, "  error: %s\n", e)
	}
	printViolations(a.out, result.Violations)
	return nil
}

// Enforce applies an enforcement mode (strict, warn, auto) to a record.
func (a *ScopeAdapter) Enforce(ctx context.Context, ns, recordID, mode, author string) error {
	resp, err := a.service.EnforceScope(ctx, primary.EnforceScopeRequest{
		Namespace: ns,
		RecordID:  recordID,
		Mode:      mode,
		Author:    author,
	})
	if err != nil {
		var sv *fault.ScopeViolationError
		if errors.As(err, &sv) {
			fmt.Fprintf(a.out, "✗ Record %s rejected: %d scope violation(s)\n", sv.RecordID, len(sv.Violations))
			printViolations(a.out, sv.Violations)
		}
		return err
	}

	switch {
	case resp.Redacted:
		fmt.Fprintf(a.out, "✓ Record %s redacted: %d violation(s) removed from description\n",
			resp.Record.ID, len(resp.Violations))
	case len(resp.Violations) > 0:
		fmt.Fprintf(a.out, "⚠ Record %s has %d scope violation(s) (not modified)\n",
			resp.Record.ID, len(resp.Violations))
		printViolations(a.out, resp.Violations)
	default:
		fmt.Fprintf(a.out, "✓ Record %s is within scope\n", resp.Record.ID)
	}
	return nil
}

func printViolations(out io.Writer, violations []models.ScopeViolation) {
	for _, v := range violations {
		fmt.Fprintf(out, "  [%s] %s in %s: %s\n",
			severityLabel(v.Severity), v.Type, v.Location, v.Description)
	}
}
