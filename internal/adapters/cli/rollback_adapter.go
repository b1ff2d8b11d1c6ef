package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/plank/internal/fault"
	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/ports/primary"
)

// RollbackAdapter is a thin adapter that translates CLI operations to RollbackService calls.
type RollbackAdapter struct {
	service primary.RollbackService
	out     io.Writer
}

// NewRollbackAdapter creates a new RollbackAdapter with the given service.
func NewRollbackAdapter(service primary.RollbackService, out io.Writer) *RollbackAdapter {
	return &RollbackAdapter{
		service: service,
		out:     out,
	}
}

// States lists the snapshots a record can be rolled back to.
func (a *RollbackAdapter) States(ctx context.Context, ns, recordID string) error {
	states, err := a.service.GetAvailableStates(ctx, ns, recordID)
	if err != nil {
		return fmt.Errorf("failed to list states: %w", err)
	}

	if len(states) == 0 {
		fmt.Fprintf(a.out, "No previous states for %s\n", recordID)
		return nil
	}

	fmt.Fprintf(a.out, "\nPrevious states for %s:\n", recordID)
	for _, s := range states {
		fmt.Fprintf(a.out, "  %s  %s", s.ID, s.Timestamp.Format("2006-01-02 15:04"))
		if s.Reason != "" {
			fmt.Fprintf(a.out, "  (%s)", s.Reason)
		}
		fmt.Fprintln(a.out)
	}
	fmt.Fprintln(a.out)
	return nil
}

// RollbackTo restores every field of a record from a named snapshot.
func (a *RollbackAdapter) RollbackTo(ctx context.Context, ns, recordID, stateID, reason, author string) error {
	rb, err := a.service.RollbackToState(ctx, primary.RollbackRequest{
		Namespace: ns,
		RecordID:  recordID,
		StateID:   stateID,
		Reason:    reason,
		Author:    author,
	})
	return a.report(rb, err)
}

// RollbackFields restores only the named fields from a snapshot.
func (a *RollbackAdapter) RollbackFields(ctx context.Context, ns, recordID, stateID string, fields []string, reason, author string) error {
	rb, err := a.service.RollbackFields(ctx, primary.RollbackFieldsRequest{
		Namespace: ns,
		RecordID:  recordID,
		StateID:   stateID,
		Fields:    fields,
		Reason:    reason,
		Author:    author,
	})
	return a.report(rb, err)
}

// History lists past rollbacks for a record.
func (a *RollbackAdapter) History(ctx context.Context, ns, recordID string) error {
	rollbacks, err := a.service.GetRollbackHistory(ctx, ns, recordID)
	if err != nil {
		return fmt.Errorf("failed to get rollback history: %w", err)
	}

	if len(rollbacks) == 0 {
		fmt.Fprintf(a.out, "No rollbacks for %s\n", recordID)
		return nil
	}

	fmt.Fprintf(a.out, "\n%-38s %-10s %-10s %s\n", "ID", "TYPE", "STATUS", "ROLLED BACK TO")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────")
	for _, rb := range rollbacks {
		fmt.Fprintf(a.out, "%-38s %-10s %-10s %s\n", rb.ID, rb.Type, rollbackStatusLabel(rb.Status), rb.RolledBackTo)
		if rb.Type == models.RollbackTypeSelective && len(rb.Fields) > 0 {
			fmt.Fprintf(a.out, "  fields: %s\n", strings.Join(rb.Fields, ", "))
		}
	}
	fmt.Fprintln(a.out)
	return nil
}

// Cancel cancels a pending or conflicted rollback.
func (a *RollbackAdapter) Cancel(ctx context.Context, ns, rollbackID string) error {
	rb, err := a.service.CancelRollback(ctx, ns, rollbackID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Rollback %s cancelled\n", rb.ID)
	return nil
}

// report renders the outcome of a rollback attempt. A conflicted rollback
// is still persisted, so it is printed even when err is non-nil.
func (a *RollbackAdapter) report(rb *models.Rollback, err error) error {
	if err != nil {
		var ce *fault.ConflictError
		if errors.As(err, &ce) && rb != nil {
			fmt.Fprintf(a.out, "✗ Rollback %s blocked (status: %s)\n", rb.ID, rollbackStatusLabel(rb.Status))
			printConflicts(a.out, rb.Conflicts)
			fmt.Fprintln(a.out, "Resolve the conflicts, then cancel or retry the rollback")
		}
		return err
	}

	switch rb.Status {
	case models.RollbackStatusCompleted:
		fmt.Fprintf(a.out, "✓ Rollback %s applied: %s restored to %s\n", rb.ID, rb.RecordID, rb.RolledBackTo)
	case models.RollbackStatusConflict:
		fmt.Fprintf(a.out, "⚠ Rollback %s recorded with conflicts (record not modified)\n", rb.ID)
		printConflicts(a.out, rb.Conflicts)
	default:
		fmt.Fprintf(a.out, "Rollback %s: %s\n", rb.ID, rollbackStatusLabel(rb.Status))
	}
	return nil
}

func printConflicts(out io.Writer, conflicts []models.RollbackConflict) {
	for _, c := range conflicts {
		fmt.Fprintf(out, "  [%s] %s: %s\n", severityLabel(c.Severity), c.Type, c.Description)
	}
}
