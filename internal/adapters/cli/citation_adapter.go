package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/ports/primary"
)

// CitationAdapter is a thin adapter that translates CLI operations to CitationService calls.
type CitationAdapter struct {
	service primary.CitationService
	out     io.Writer
}

// NewCitationAdapter creates a new CitationAdapter with the given service.
func NewCitationAdapter(service primary.CitationService, out io.Writer) *CitationAdapter {
	return &CitationAdapter{
		service: service,
		out:     out,
	}
}

// Create links a change log entry to a record as a citation.
func (a *CitationAdapter) Create(ctx context.Context, req primary.CreateCitationRequest) error {
	c, err := a.service.CreateCitation(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created citation %s (%s, priority %s) on %s\n",
		c.ID, c.Type, c.Priority, c.RecordID)
	return nil
}

// List lists citations for a record, optionally narrowed to a context tag.
func (a *CitationAdapter) List(ctx context.Context, ns, recordID, contextTag string) error {
	citations, err := a.service.LookupCitations(ctx, ns, recordID, contextTag)
	if err != nil {
		return fmt.Errorf("failed to list citations: %w", err)
	}

	if len(citations) == 0 {
		fmt.Fprintf(a.out, "No citations for %s\n", recordID)
		return nil
	}

	a.printTable(citations)
	return nil
}

// Query lists citations matching every supplied filter.
func (a *CitationAdapter) Query(ctx context.Context, q primary.CitationQuery) error {
	citations, err := a.service.QueryCitations(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to query citations: %w", err)
	}

	if len(citations) == 0 {
		fmt.Fprintln(a.out, "No citations found")
		return nil
	}

	a.printTable(citations)
	return nil
}

// Review marks a citation reviewed.
func (a *CitationAdapter) Review(ctx context.Context, ns, recordID, citationID string) error {
	c, err := a.service.ReviewCitation(ctx, ns, recordID, citationID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Citation %s reviewed at %s\n", c.ID, c.ReviewedAt.Format("2006-01-02 15:04"))
	return nil
}

// Dismiss marks a citation dismissed.
func (a *CitationAdapter) Dismiss(ctx context.Context, ns, recordID, citationID string) error {
	c, err := a.service.DismissCitation(ctx, ns, recordID, citationID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Citation %s dismissed\n", c.ID)
	return nil
}

func (a *CitationAdapter) printTable(citations []*models.Citation) {
	fmt.Fprintf(a.out, "\n%-38s %-20s %-9s %-10s %s\n", "ID", "TYPE", "PRIORITY", "STATE", "CONTEXT")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────────────")
	for _, c := range citations {
		state := "open"
		switch {
		case c.Dismissed:
			state = "dismissed"
		case c.Reviewed():
			state = "reviewed"
		}
		fmt.Fprintf(a.out, "%-38s %-20s %-9s %-10s %s\n",
			c.ID, c.Type, priorityLabel(c.Priority), state, strings.Join(c.Context, ","))
	}
	fmt.Fprintln(a.out)
}
