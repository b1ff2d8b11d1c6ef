package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/plank/internal/fault"
	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/ports/secondary"
)

// ChangeLogRepository implements secondary.ChangeLogRepository with SQLite.
// The table is append-only: no UPDATE or DELETE is issued here except
// clearing the provisional marker.
type ChangeLogRepository struct {
	db *sql.DB
}

// NewChangeLogRepository creates a new SQLite change log repository.
func NewChangeLogRepository(db *sql.DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: db}
}

const changeLogSelectCols = "seq, id, ns, record_id, timestamp, author, change_type, tier, before_state, after_state, reason, propagation_triggered, related_changes, provisional"

// scanEntry scans a change log row into a models.ChangeLogEntry.
func scanEntry(scanner interface {
	Scan(dest ...any) error
}) (*models.ChangeLogEntry, error) {
	var (
		entry       models.ChangeLogEntry
		author      sql.NullString
		tier        sql.NullString
		before      sql.NullString
		after       sql.NullString
		reason      sql.NullString
		related     sql.NullString
		propagation bool
		provisional bool
	)

	err := scanner.Scan(
		&entry.Seq, &entry.ID, &entry.Namespace, &entry.RecordID, &entry.Timestamp,
		&author, &entry.ChangeType, &tier, &before, &after, &reason,
		&propagation, &related, &provisional,
	)
	if err != nil {
		return nil, err
	}

	entry.Author = author.String
	entry.Tier = models.Tier(tier.String)
	entry.Reason = reason.String
	entry.PropagationTriggered = propagation
	entry.Provisional = provisional

	if entry.Before, err = decodeSnapshot(before); err != nil {
		return nil, err
	}
	if entry.After, err = decodeSnapshot(after); err != nil {
		return nil, err
	}
	if entry.RelatedChanges, err = decodeStrings(related); err != nil {
		return nil, err
	}

	return &entry, nil
}

// Append writes a new entry and assigns its sequence number.
func (r *ChangeLogRepository) Append(ctx context.Context, entry *models.ChangeLogEntry) error {
	return appendEntry(ctx, r.db, entry)
}

func appendEntry(ctx context.Context, e execContexter, entry *models.ChangeLogEntry) error {
	before, err := encodeSnapshot(entry.Before)
	if err != nil {
		return err
	}
	after, err := encodeSnapshot(entry.After)
	if err != nil {
		return err
	}
	related, err := encodeStrings(entry.RelatedChanges)
	if err != nil {
		return err
	}

	res, err := e.ExecContext(ctx, `
		INSERT INTO change_log (id, ns, record_id, timestamp, author, change_type, tier, before_state, after_state, reason, propagation_triggered, related_changes, provisional)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Namespace, entry.RecordID, entry.Timestamp, entry.Author,
		entry.ChangeType, string(entry.Tier), before, after, entry.Reason,
		entry.PropagationTriggered, related, entry.Provisional,
	)
	if err != nil {
		return fmt.Errorf("failed to append change log entry: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read change log sequence: %w", err)
	}
	entry.Seq = seq

	return nil
}

// GetByID retrieves an entry by ID within a namespace.
func (r *ChangeLogRepository) GetByID(ctx context.Context, ns, id string) (*models.ChangeLogEntry, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+changeLogSelectCols+" FROM change_log WHERE ns = ? AND id = ?",
		ns, id,
	)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, fault.NotFound("change log entry", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get change log entry: %w", err)
	}

	return entry, nil
}

// ListByRecord retrieves entries for a record, most recent first.
func (r *ChangeLogRepository) ListByRecord(ctx context.Context, ns, recordID string) ([]*models.ChangeLogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+changeLogSelectCols+" FROM change_log WHERE ns = ? AND record_id = ? ORDER BY seq DESC",
		ns, recordID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list change log entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListAll retrieves every entry in a namespace in append order.
func (r *ChangeLogRepository) ListAll(ctx context.Context, ns string) ([]*models.ChangeLogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+changeLogSelectCols+" FROM change_log WHERE ns = ? ORDER BY seq ASC",
		ns,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list change log entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// MarkFinal clears the provisional marker on an entry.
func (r *ChangeLogRepository) MarkFinal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE change_log SET provisional = 0 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize change log entry: %w", err)
	}

	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return fault.NotFound("change log entry", id)
	}

	return nil
}

func collectEntries(rows *sql.Rows) ([]*models.ChangeLogEntry, error) {
	var entries []*models.ChangeLogEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change log entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Ensure ChangeLogRepository implements the interface
var _ secondary.ChangeLogRepository = (*ChangeLogRepository)(nil)
