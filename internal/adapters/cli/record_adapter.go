// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/parse"
	"github.com/example/plank/internal/ports/primary"
)

// RecordAdapter is a thin adapter that translates CLI operations to RecordService calls.
// It depends only on the RecordService interface, enabling easy testing with mocks.
type RecordAdapter struct {
	service primary.RecordService
	out     io.Writer
}

// NewRecordAdapter creates a new RecordAdapter with the given service.
func NewRecordAdapter(service primary.RecordService, out io.Writer) *RecordAdapter {
	return &RecordAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new record from parsed components.
func (a *RecordAdapter) Create(ctx context.Context, ns, id, author string, components parse.ParsedComponents) error {
	rec, err := a.service.CreateRecord(ctx, primary.CreateRecordRequest{
		Namespace:  ns,
		ID:         id,
		Components: components,
		Author:     author,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created %s %s: %s\n", rec.Tier, rec.ID, rec.Title)
	if rec.ParentID != "" {
		fmt.Fprintf(a.out, "  Parent: %s\n", rec.ParentID)
	}
	if rec.Scope != nil {
		fmt.Fprintf(a.out, "  Scope:  %s / %s\n", rec.Scope.Abstraction, rec.Scope.DetailLevel)
	}
	return nil
}

// Show displays details for a single record.
func (a *RecordAdapter) Show(ctx context.Context, ns, id string) error {
	rec, err := a.service.GetRecord(ctx, ns, id)
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}

	fmt.Fprintf(a.out, "\nRecord: %s\n", rec.ID)
	fmt.Fprintf(a.out, "Tier:   %s\n", rec.Tier)
	fmt.Fprintf(a.out, "Title:  %s\n", rec.Title)
	fmt.Fprintf(a.out, "Status: %s\n", statusLabel(rec.Status))
	if rec.ParentID != "" {
		fmt.Fprintf(a.out, "Parent: %s\n", rec.ParentID)
	}
	if rec.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", rec.Description)
	}
	if len(rec.Tags) > 0 {
		fmt.Fprintf(a.out, "Tags: %s\n", strings.Join(rec.Tags, ", "))
	}
	if len(rec.BlockedBy) > 0 {
		fmt.Fprintf(a.out, "Blocked by: %s\n", strings.Join(rec.BlockedBy, ", "))
	}
	if rec.PlanningDocPath != "" {
		fmt.Fprintf(a.out, "Planning doc: %s", rec.PlanningDocPath)
		if rec.PlanningDocSection != "" {
			fmt.Fprintf(a.out, "#%s", rec.PlanningDocSection)
		}
		fmt.Fprintln(a.out)
	}
	if rec.Scope != nil {
		fmt.Fprintf(a.out, "Scope: abstraction=%s detail=%s", rec.Scope.Abstraction, rec.Scope.DetailLevel)
		if rec.Scope.InheritedFrom != "" {
			fmt.Fprintf(a.out, " (inherited from %s)", rec.Scope.InheritedFrom)
		}
		fmt.Fprintln(a.out)
	}
	fmt.Fprintf(a.out, "Created: %s\n", rec.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(a.out, "Updated: %s\n", rec.UpdatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(a.out)

	return nil
}

// List lists records in a namespace, optionally filtered by tier or status.
func (a *RecordAdapter) List(ctx context.Context, ns, tier, status string) error {
	records, err := a.service.ListRecords(ctx, ns)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	var filtered []*models.Record
	for _, r := range records {
		if tier != "" && string(r.Tier) != tier {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		filtered = append(filtered, r)
	}

	if len(filtered) == 0 {
		fmt.Fprintln(a.out, "No records found")
		return nil
	}

	a.printTable(filtered)
	return nil
}

// Children lists the direct children of a record.
func (a *RecordAdapter) Children(ctx context.Context, ns, parentID string) error {
	children, err := a.service.ListChildren(ctx, ns, parentID)
	if err != nil {
		return fmt.Errorf("failed to list children: %w", err)
	}

	if len(children) == 0 {
		fmt.Fprintf(a.out, "No children under %s\n", parentID)
		return nil
	}

	a.printTable(children)
	return nil
}

// Progress displays aggregated child status counts under a parent.
func (a *RecordAdapter) Progress(ctx context.Context, ns, parentID string) error {
	p, err := a.service.ChildProgress(ctx, ns, parentID)
	if err != nil {
		return fmt.Errorf("failed to compute progress: %w", err)
	}

	fmt.Fprintf(a.out, "\nProgress for %s (%d children)\n", p.ParentID, p.Total)
	if p.Total == 0 {
		fmt.Fprintln(a.out)
		return nil
	}
	fmt.Fprintf(a.out, "  completed:   %d\n", p.Completed)
	fmt.Fprintf(a.out, "  in_progress: %d\n", p.InProgress)
	fmt.Fprintf(a.out, "  pending:     %d\n", p.Pending)
	fmt.Fprintf(a.out, "  blocked:     %d\n", p.Blocked)
	fmt.Fprintf(a.out, "  cancelled:   %d\n", p.Cancelled)
	fmt.Fprintf(a.out, "  %d%% complete\n\n", p.Completed*100/p.Total)
	return nil
}

// SetStatus transitions a record's status.
func (a *RecordAdapter) SetStatus(ctx context.Context, ns, id, status, reason, author string) error {
	rec, err := a.service.UpdateStatus(ctx, primary.UpdateStatusRequest{
		Namespace: ns,
		RecordID:  id,
		Status:    status,
		Reason:    reason,
		Author:    author,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Record %s is now %s\n", rec.ID, statusLabel(rec.Status))
	return nil
}

// History displays the change log entries for a record, most recent first.
func (a *RecordAdapter) History(ctx context.Context, ns, id string) error {
	entries, err := a.service.GetHistory(ctx, ns, id)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintf(a.out, "No history for %s\n", id)
		return nil
	}

	fmt.Fprintf(a.out, "\nHistory for %s:\n", id)
	for _, e := range entries {
		printLogEntry(a.out, e)
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *RecordAdapter) printTable(records []*models.Record) {
	fmt.Fprintf(a.out, "\n%-25s %-9s %-12s %s\n", "ID", "TIER", "STATUS", "TITLE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, r := range records {
		fmt.Fprintf(a.out, "%-25s %-9s %-12s %s\n", r.ID, r.Tier, statusLabel(r.Status), r.Title)
	}
	fmt.Fprintln(a.out)
}

// printLogEntry renders one change log line plus an optional reason line.
func printLogEntry(out io.Writer, e *models.ChangeLogEntry) {
	marker := ""
	if e.Provisional {
		marker = " [provisional]"
	}
	fmt.Fprintf(out, "  %s  %-17s %s by %s%s\n",
		e.Timestamp.Format("2006-01-02 15:04"), e.ChangeType, e.ID, e.Author, marker)
	if e.Reason != "" {
		fmt.Fprintf(out, "    reason: %s\n", e.Reason)
	}
}
