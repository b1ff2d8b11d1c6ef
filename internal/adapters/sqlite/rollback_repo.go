package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/plank/internal/fault"
	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/ports/secondary"
)

// RollbackRepository implements secondary.RollbackRepository with SQLite.
type RollbackRepository struct {
	db *sql.DB
}

// NewRollbackRepository creates a new SQLite rollback repository.
func NewRollbackRepository(db *sql.DB) *RollbackRepository {
	return &RollbackRepository{db: db}
}

const rollbackSelectCols = "id, ns, record_id, timestamp, author, rolled_back_to, rolled_back_from, type, fields, reason, conflicts, status"

// scanRollback scans a rollback row into a models.Rollback.
func scanRollback(scanner interface {
	Scan(dest ...any) error
}) (*models.Rollback, error) {
	var (
		rb        models.Rollback
		author    sql.NullString
		from      sql.NullString
		fields    sql.NullString
		reason    sql.NullString
		conflicts sql.NullString
	)

	err := scanner.Scan(
		&rb.ID, &rb.Namespace, &rb.RecordID, &rb.Timestamp, &author,
		&rb.RolledBackTo, &from, &rb.Type, &fields, &reason, &conflicts, &rb.Status,
	)
	if err != nil {
		return nil, err
	}

	rb.Author = author.String
	rb.RolledBackFrom = from.String
	rb.Reason = reason.String

	if rb.Fields, err = decodeStrings(fields); err != nil {
		return nil, err
	}
	if rb.Conflicts, err = decodeConflicts(conflicts); err != nil {
		return nil, err
	}

	return &rb, nil
}

// Append records a rollback operation, whatever its outcome.
func (r *RollbackRepository) Append(ctx context.Context, rb *models.Rollback) error {
	return insertRollback(ctx, r.db, rb)
}

func insertRollback(ctx context.Context, e execContexter, rb *models.Rollback) error {
	fields, err := encodeStrings(rb.Fields)
	if err != nil {
		return err
	}
	conflicts, err := encodeConflicts(rb.Conflicts)
	if err != nil {
		return err
	}

	_, err = e.ExecContext(ctx, `
		INSERT INTO rollbacks (id, ns, record_id, timestamp, author, rolled_back_to, rolled_back_from, type, fields, reason, conflicts, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rb.ID, rb.Namespace, rb.RecordID, rb.Timestamp, rb.Author,
		rb.RolledBackTo, rb.RolledBackFrom, rb.Type, fields, rb.Reason, conflicts, rb.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to append rollback: %w", err)
	}

	return nil
}

// GetByID retrieves a rollback by ID.
func (r *RollbackRepository) GetByID(ctx context.Context, ns, id string) (*models.Rollback, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+rollbackSelectCols+" FROM rollbacks WHERE ns = ? AND id = ?",
		ns, id,
	)

	rb, err := scanRollback(row)
	if err == sql.ErrNoRows {
		return nil, fault.NotFound("rollback", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rollback: %w", err)
	}

	return rb, nil
}

// ListByRecord retrieves rollbacks for a record, most recent first.
func (r *RollbackRepository) ListByRecord(ctx context.Context, ns, recordID string) ([]*models.Rollback, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+rollbackSelectCols+" FROM rollbacks WHERE ns = ? AND record_id = ? ORDER BY timestamp DESC, id DESC",
		ns, recordID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rollbacks: %w", err)
	}
	defer rows.Close()

	var rbs []*models.Rollback
	for rows.Next() {
		rb, err := scanRollback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rollback: %w", err)
		}
		rbs = append(rbs, rb)
	}
	return rbs, rows.Err()
}

// UpdateStatus transitions a rollback's status.
func (r *RollbackRepository) UpdateStatus(ctx context.Context, ns, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE rollbacks SET status = ? WHERE ns = ? AND id = ?",
		status, ns, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update rollback status: %w", err)
	}

	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return fault.NotFound("rollback", id)
	}

	return nil
}

// ApplyRestore commits the restored record, the rollback_applied change
// log entry, and the rollback history row in one transaction. A crash
// between the record write and the log append can never leave a partial
// restore behind.
func (r *RollbackRepository) ApplyRestore(ctx context.Context, req secondary.ApplyRestoreRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin restore transaction: %w", err)
	}
	defer tx.Rollback()

	if err := putRecord(ctx, tx, req.Restored); err != nil {
		return err
	}
	if err := appendEntry(ctx, tx, req.LogEntry); err != nil {
		return err
	}
	if err := insertRollback(ctx, tx, req.Rollback); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit restore: %w", err)
	}

	return nil
}

// Ensure RollbackRepository implements the interface
var _ secondary.RollbackRepository = (*RollbackRepository)(nil)
