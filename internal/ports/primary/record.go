// Package primary defines the primary ports (driving adapters) for the
// application: the service interfaces the CLI layer calls into, plus their
// request/response types. Services return structured results only; human
// rendering lives in the presentation adapters.
package primary

import (
	"context"

	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/parse"
)

// RecordService defines the primary port for record operations.
type RecordService interface {
	// CreateRecord runs the creation pipeline output through the scope
	// engine and persists the new record plus its created log entry.
	CreateRecord(ctx context.Context, req CreateRecordRequest) (*models.Record, error)

	// GetRecord retrieves a record by ID.
	GetRecord(ctx context.Context, ns, id string) (*models.Record, error)

	// ListRecords lists every record in a namespace.
	ListRecords(ctx context.Context, ns string) ([]*models.Record, error)

	// ListChildren lists the direct children of a record.
	ListChildren(ctx context.Context, ns, parentID string) ([]*models.Record, error)

	// UpdateStatus transitions a record's status and appends the change
	// log entry for it.
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*models.Record, error)

	// ChildProgress aggregates child counts per status under a parent.
	ChildProgress(ctx context.Context, ns, parentID string) (*models.ChildProgress, error)

	// GetHistory lists the change log entries for a record, most recent
	// first.
	GetHistory(ctx context.Context, ns, recordID string) ([]*models.ChangeLogEntry, error)

	// GetLog lists every change log entry in a namespace in append order.
	GetLog(ctx context.Context, ns string) ([]*models.ChangeLogEntry, error)
}

// CreateRecordRequest contains parameters for creating a record.
type CreateRecordRequest struct {
	Namespace  string
	ID         string // optional; generated from the title when empty
	Components parse.ParsedComponents
	Author     string
}

// UpdateStatusRequest contains parameters for a status transition.
type UpdateStatusRequest struct {
	Namespace string
	RecordID  string
	Status    string
	Reason    string
	Author    string
}
