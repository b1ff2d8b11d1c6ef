package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/plank/internal/fault"
	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/ports/secondary"
)

// CitationRepository implements secondary.CitationRepository with SQLite.
type CitationRepository struct {
	db *sql.DB
}

// NewCitationRepository creates a new SQLite citation repository.
func NewCitationRepository(db *sql.DB) *CitationRepository {
	return &CitationRepository{db: db}
}

const citationSelectCols = "id, ns, record_id, change_log_id, type, context, priority, created_at, reviewed_at, dismissed, reason, impact"

// scanCitation scans a citation row into a models.Citation.
func scanCitation(scanner interface {
	Scan(dest ...any) error
}) (*models.Citation, error) {
	var (
		c          models.Citation
		contextCol sql.NullString
		reviewedAt sql.NullTime
		reason     sql.NullString
		impact     sql.NullString
	)

	err := scanner.Scan(
		&c.ID, &c.Namespace, &c.RecordID, &c.ChangeLogID, &c.Type,
		&contextCol, &c.Priority, &c.CreatedAt, &reviewedAt, &c.Dismissed,
		&reason, &impact,
	)
	if err != nil {
		return nil, err
	}

	if reviewedAt.Valid {
		t := reviewedAt.Time
		c.ReviewedAt = &t
	}
	c.Metadata.Reason = reason.String
	c.Metadata.Impact = impact.String

	if c.Context, err = decodeStrings(contextCol); err != nil {
		return nil, err
	}

	return &c, nil
}

// Create persists a new citation.
func (r *CitationRepository) Create(ctx context.Context, c *models.Citation) error {
	contextCol, err := encodeStrings(c.Context)
	if err != nil {
		return err
	}

	var reason, impact sql.NullString
	if c.Metadata.Reason != "" {
		reason = sql.NullString{String: c.Metadata.Reason, Valid: true}
	}
	if c.Metadata.Impact != "" {
		impact = sql.NullString{String: c.Metadata.Impact, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO citations (id, ns, record_id, change_log_id, type, context, priority, created_at, dismissed, reason, impact)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Namespace, c.RecordID, c.ChangeLogID, c.Type, contextCol,
		c.Priority, c.CreatedAt, c.Dismissed, reason, impact,
	)
	if err != nil {
		return fmt.Errorf("failed to create citation: %w", err)
	}

	return nil
}

// GetByID retrieves a citation by ID.
func (r *CitationRepository) GetByID(ctx context.Context, ns, id string) (*models.Citation, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+citationSelectCols+" FROM citations WHERE ns = ? AND id = ?",
		ns, id,
	)

	c, err := scanCitation(row)
	if err == sql.ErrNoRows {
		return nil, fault.NotFound("citation", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get citation: %w", err)
	}

	return c, nil
}

// Query retrieves citations matching every supplied filter.
func (r *CitationRepository) Query(ctx context.Context, f secondary.CitationFilters) ([]*models.Citation, error) {
	query := "SELECT " + citationSelectCols + " FROM citations WHERE 1=1"
	args := []any{}

	if f.Namespace != "" {
		query += " AND ns = ?"
		args = append(args, f.Namespace)
	}
	if f.RecordID != "" {
		query += " AND record_id = ?"
		args = append(args, f.RecordID)
	}
	if f.ChangeLogID != "" {
		query += " AND change_log_id = ?"
		args = append(args, f.ChangeLogID)
	}
	if f.Type != "" {
		query += " AND type = ?"
		args = append(args, f.Type)
	}
	if f.Priority != "" {
		query += " AND priority = ?"
		args = append(args, f.Priority)
	}
	if f.Context != "" {
		query += " AND EXISTS (SELECT 1 FROM json_each(citations.context) WHERE json_each.value = ?)"
		args = append(args, f.Context)
	}
	if f.Unreviewed {
		query += " AND reviewed_at IS NULL AND dismissed = 0"
	}

	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query citations: %w", err)
	}
	defer rows.Close()

	var cs []*models.Citation
	for rows.Next() {
		c, err := scanCitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan citation: %w", err)
		}
		cs = append(cs, c)
	}
	return cs, rows.Err()
}

// MarkReviewed sets ReviewedAt. The guard in the WHERE clause keeps a
// prior review timestamp intact, making the operation idempotent.
func (r *CitationRepository) MarkReviewed(ctx context.Context, ns, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE citations SET reviewed_at = ? WHERE ns = ? AND id = ? AND reviewed_at IS NULL",
		at, ns, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark citation reviewed: %w", err)
	}

	// Zero rows is fine: either already reviewed (idempotent) or missing.
	// Callers verify existence before calling.
	_, _ = res.RowsAffected()
	return nil
}

// MarkDismissed sets the terminal dismissal flag.
func (r *CitationRepository) MarkDismissed(ctx context.Context, ns, id string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE citations SET dismissed = 1 WHERE ns = ? AND id = ?",
		ns, id,
	)
	if err != nil {
		return fmt.Errorf("failed to dismiss citation: %w", err)
	}

	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return fault.NotFound("citation", id)
	}

	return nil
}

// Ensure CitationRepository implements the interface
var _ secondary.CitationRepository = (*CitationRepository)(nil)
