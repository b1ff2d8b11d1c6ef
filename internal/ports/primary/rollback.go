package primary

import (
	"context"

	"github.com/example/plank/internal/models"
)

// RollbackService defines the primary port for rollback operations.
type RollbackService interface {
	// StorePreviousState constructs a snapshot tied to an existing change
	// log entry. It performs no writes; the caller owns the log entry.
	StorePreviousState(rec *models.Record, changeLogID, reason string) *models.PreviousState

	// GetAvailableStates derives the addressable snapshots for a record
	// from the change log, most recent first.
	GetAvailableStates(ctx context.Context, ns, recordID string) ([]*models.PreviousState, error)

	// RollbackToState restores every field of a record from a snapshot,
	// subject to conflict detection.
	RollbackToState(ctx context.Context, req RollbackRequest) (*models.Rollback, error)

	// RollbackFields restores only the named fields from a snapshot;
	// conflict detection is scoped to those fields.
	RollbackFields(ctx context.Context, req RollbackFieldsRequest) (*models.Rollback, error)

	// GetRollbackHistory lists rollbacks for a record, most recent first.
	GetRollbackHistory(ctx context.Context, ns, recordID string) ([]*models.Rollback, error)

	// CancelRollback cancels a pending or conflicted rollback.
	CancelRollback(ctx context.Context, ns, rollbackID string) (*models.Rollback, error)
}

// RollbackRequest contains parameters for a full rollback.
type RollbackRequest struct {
	Namespace string
	RecordID  string
	StateID   string
	Reason    string
	Author    string
}

// RollbackFieldsRequest contains parameters for a selective rollback.
type RollbackFieldsRequest struct {
	Namespace string
	RecordID  string
	StateID   string
	Fields    []string
	Reason    string
	Author    string
}
