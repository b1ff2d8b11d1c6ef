// Package secondary defines the secondary ports (driven adapters) for the
// application: the repository interfaces through which the core reaches
// durable storage. Implementations live in internal/adapters/sqlite.
package secondary

import (
	"context"
	"time"

	"github.com/example/plank/internal/models"
)

// RecordRepository is the durable store for planning records, keyed by
// (namespace, id).
type RecordRepository interface {
	// Get retrieves a record by ID within a feature namespace.
	// Returns fault.NotFound when missing.
	Get(ctx context.Context, ns, id string) (*models.Record, error)

	// Put persists a record as a full overwrite. No partial merge is
	// performed; callers must read-modify-write.
	Put(ctx context.Context, rec *models.Record) error

	// Exists reports whether a record exists without loading it.
	Exists(ctx context.Context, ns, id string) (bool, error)

	// ListChildren retrieves the direct children of a parent record.
	ListChildren(ctx context.Context, ns, parentID string) ([]*models.Record, error)

	// ListAll retrieves every record in a namespace.
	ListAll(ctx context.Context, ns string) ([]*models.Record, error)
}

// ChangeLogRepository is the append-only change history. Entries are never
// mutated or removed; the sole permitted state change is finalizing a
// provisional entry after its paired record write commits.
type ChangeLogRepository interface {
	// Append writes a new entry and assigns its sequence number.
	Append(ctx context.Context, entry *models.ChangeLogEntry) error

	// GetByID retrieves an entry by ID.
	GetByID(ctx context.Context, ns, id string) (*models.ChangeLogEntry, error)

	// ListByRecord retrieves entries for a record, most recent first.
	ListByRecord(ctx context.Context, ns, recordID string) ([]*models.ChangeLogEntry, error)

	// ListAll retrieves every entry in a namespace in append order.
	ListAll(ctx context.Context, ns string) ([]*models.ChangeLogEntry, error)

	// MarkFinal clears the provisional marker on an entry.
	MarkFinal(ctx context.Context, id string) error
}

// ApplyRestoreRequest carries the three writes of a completed rollback.
type ApplyRestoreRequest struct {
	// Restored is the post-rollback record state.
	Restored *models.Record
	// LogEntry is the rollback_applied change log entry.
	LogEntry *models.ChangeLogEntry
	// Rollback is the history row, already marked completed.
	Rollback *models.Rollback
}

// RollbackRepository stores the per-feature rollback history and applies
// restores.
type RollbackRepository interface {
	// Append records a rollback operation, whatever its outcome.
	Append(ctx context.Context, rb *models.Rollback) error

	// GetByID retrieves a rollback by ID.
	GetByID(ctx context.Context, ns, id string) (*models.Rollback, error)

	// ListByRecord retrieves rollbacks for a record, most recent first.
	ListByRecord(ctx context.Context, ns, recordID string) ([]*models.Rollback, error)

	// UpdateStatus transitions a rollback's status.
	UpdateStatus(ctx context.Context, ns, id, status string) error

	// ApplyRestore commits the record overwrite, the rollback_applied
	// change log entry, and the rollback history row in one transaction.
	// Either all three land or none do.
	ApplyRestore(ctx context.Context, req ApplyRestoreRequest) error
}

// CitationFilters contains conjunctive filter options for citation queries.
// Zero values mean "any".
type CitationFilters struct {
	Namespace   string
	RecordID    string
	ChangeLogID string
	Type        string
	Priority    string
	Context     string
	Unreviewed  bool
}

// CitationRepository stores audit citations.
type CitationRepository interface {
	// Create persists a new citation.
	Create(ctx context.Context, c *models.Citation) error

	// GetByID retrieves a citation by ID.
	GetByID(ctx context.Context, ns, id string) (*models.Citation, error)

	// Query retrieves citations matching every supplied filter.
	Query(ctx context.Context, f CitationFilters) ([]*models.Citation, error)

	// MarkReviewed sets ReviewedAt. It must never clear a prior review.
	MarkReviewed(ctx context.Context, ns, id string, at time.Time) error

	// MarkDismissed sets the terminal dismissal flag.
	MarkDismissed(ctx context.Context, ns, id string) error
}
