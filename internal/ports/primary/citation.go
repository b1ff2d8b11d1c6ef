package primary

import (
	"context"

	"github.com/example/plank/internal/models"
)

// CitationService defines the primary port for audit citations.
type CitationService interface {
	// CreateCitation links a change log entry to a record. The entry
	// must exist.
	CreateCitation(ctx context.Context, req CreateCitationRequest) (*models.Citation, error)

	// LookupCitations retrieves citations for a record carrying an exact
	// context tag.
	LookupCitations(ctx context.Context, ns, recordID, context string) ([]*models.Citation, error)

	// QueryCitations retrieves citations matching every supplied filter.
	QueryCitations(ctx context.Context, q CitationQuery) ([]*models.Citation, error)

	// ReviewCitation marks a citation reviewed. Idempotent; a review is
	// never cleared.
	ReviewCitation(ctx context.Context, ns, recordID, citationID string) (*models.Citation, error)

	// DismissCitation marks a citation dismissed, a terminal state
	// mutually exclusive with review.
	DismissCitation(ctx context.Context, ns, recordID, citationID string) (*models.Citation, error)
}

// CreateCitationRequest contains parameters for creating a citation.
type CreateCitationRequest struct {
	Namespace   string
	RecordID    string
	ChangeLogID string
	Type        string
	Context     []string
	Priority    string
	Reason      string
	Impact      string
}

// CitationQuery contains conjunctive filters for citation queries.
type CitationQuery struct {
	Namespace   string
	RecordID    string
	ChangeLogID string
	Type        string
	Priority    string
	Context     string
	Unreviewed  bool
}
