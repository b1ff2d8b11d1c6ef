package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/plank/internal/fault"
	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/ports/secondary"
)

// RecordRepository implements secondary.RecordRepository with SQLite.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new SQLite record repository.
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

const recordSelectCols = "ns, id, tier, parent_id, title, description, status, tags, blocked_by, planning_doc_path, planning_doc_section, scope, created_at, updated_at"

// scanRecord scans a record row into a models.Record.
func scanRecord(scanner interface {
	Scan(dest ...any) error
}) (*models.Record, error) {
	var (
		rec        models.Record
		tier       string
		parentID   sql.NullString
		desc       sql.NullString
		tags       sql.NullString
		blockedBy  sql.NullString
		docPath    sql.NullString
		docSection sql.NullString
		scopeCol   sql.NullString
	)

	err := scanner.Scan(
		&rec.Namespace, &rec.ID, &tier, &parentID, &rec.Title, &desc, &rec.Status,
		&tags, &blockedBy, &docPath, &docSection, &scopeCol,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Tier = models.Tier(tier)
	rec.ParentID = parentID.String
	rec.Description = desc.String
	rec.PlanningDocPath = docPath.String
	rec.PlanningDocSection = docSection.String

	if rec.Tags, err = decodeStrings(tags); err != nil {
		return nil, err
	}
	if rec.BlockedBy, err = decodeStrings(blockedBy); err != nil {
		return nil, err
	}
	if rec.Scope, err = decodeScopeColumn(scopeCol); err != nil {
		return nil, err
	}

	return &rec, nil
}

// Get retrieves a record by ID within a namespace.
func (r *RecordRepository) Get(ctx context.Context, ns, id string) (*models.Record, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+recordSelectCols+" FROM records WHERE ns = ? AND id = ?",
		ns, id,
	)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fault.NotFound("record", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return rec, nil
}

// Exists reports whether a record exists.
func (r *RecordRepository) Exists(ctx context.Context, ns, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM records WHERE ns = ? AND id = ?", ns, id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check record existence: %w", err)
	}
	return count > 0, nil
}

// Put persists a record as a full overwrite.
func (r *RecordRepository) Put(ctx context.Context, rec *models.Record) error {
	return putRecord(ctx, r.db, rec)
}

// execContexter is satisfied by both *sql.DB and *sql.Tx, letting the
// rollback repository reuse the record upsert inside its transaction.
type execContexter interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putRecord(ctx context.Context, e execContexter, rec *models.Record) error {
	tags, err := encodeStrings(rec.Tags)
	if err != nil {
		return err
	}
	blockedBy, err := encodeStrings(rec.BlockedBy)
	if err != nil {
		return err
	}
	scopeCol, err := encodeScopeColumn(rec.Scope)
	if err != nil {
		return err
	}

	var parentID, desc, docPath, docSection sql.NullString
	if rec.ParentID != "" {
		parentID = sql.NullString{String: rec.ParentID, Valid: true}
	}
	if rec.Description != "" {
		desc = sql.NullString{String: rec.Description, Valid: true}
	}
	if rec.PlanningDocPath != "" {
		docPath = sql.NullString{String: rec.PlanningDocPath, Valid: true}
	}
	if rec.PlanningDocSection != "" {
		docSection = sql.NullString{String: rec.PlanningDocSection, Valid: true}
	}

	_, err = e.ExecContext(ctx, `
		INSERT INTO records (ns, id, tier, parent_id, title, description, status, tags, blocked_by, planning_doc_path, planning_doc_section, scope, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ns, id) DO UPDATE SET
			tier = excluded.tier,
			parent_id = excluded.parent_id,
			title = excluded.title,
			description = excluded.description,
			status = excluded.status,
			tags = excluded.tags,
			blocked_by = excluded.blocked_by,
			planning_doc_path = excluded.planning_doc_path,
			planning_doc_section = excluded.planning_doc_section,
			scope = excluded.scope,
			updated_at = excluded.updated_at`,
		rec.Namespace, rec.ID, string(rec.Tier), parentID, rec.Title, desc, rec.Status,
		tags, blockedBy, docPath, docSection, scopeCol, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put record: %w", err)
	}

	return nil
}

// ListChildren retrieves the direct children of a parent record.
func (r *RecordRepository) ListChildren(ctx context.Context, ns, parentID string) ([]*models.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+recordSelectCols+" FROM records WHERE ns = ? AND parent_id = ? ORDER BY created_at ASC",
		ns, parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListAll retrieves every record in a namespace.
func (r *RecordRepository) ListAll(ctx context.Context, ns string) ([]*models.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+recordSelectCols+" FROM records WHERE ns = ? ORDER BY created_at ASC",
		ns,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func collectRecords(rows *sql.Rows) ([]*models.Record, error) {
	var recs []*models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Ensure RecordRepository implements the interface
var _ secondary.RecordRepository = (*RecordRepository)(nil)
