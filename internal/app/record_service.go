package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/plank/internal/core/record"
	"github.com/example/plank/internal/core/scope"
	"github.com/example/plank/internal/fault"
	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/ports/primary"
	"github.com/example/plank/internal/ports/secondary"
)

// RecordServiceImpl implements the RecordService interface.
type RecordServiceImpl struct {
	records   secondary.RecordRepository
	changeLog secondary.ChangeLogRepository
	logger    *zap.Logger
}

// NewRecordService creates a new RecordService with injected dependencies.
func NewRecordService(
	records secondary.RecordRepository,
	changeLog secondary.ChangeLogRepository,
	logger *zap.Logger,
) *RecordServiceImpl {
	return &RecordServiceImpl{
		records:   records,
		changeLog: changeLog,
		logger:    logger,
	}
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugFromTitle derives a record ID from a title.
func slugFromTitle(title string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// CreateRecord runs the already-parsed creation components through the
// hierarchy guards and the scope engine, then persists the record and its
// created change log entry.
func (s *RecordServiceImpl) CreateRecord(ctx context.Context, req primary.CreateRecordRequest) (*models.Record, error) {
	if req.Namespace == "" {
		return nil, fault.Validation("namespace", "required")
	}
	if err := req.Components.Validate(); err != nil {
		return nil, fault.Validation("components", err.Error())
	}

	tier := models.Tier(req.Components.Tier)

	// Resolve the parent before the guard so unresolvable parents fail
	// with NotFound, not a validation error.
	var parent *models.Record
	if req.Components.ParentID != "" {
		p, err := s.records.Get(ctx, req.Namespace, req.Components.ParentID)
		if err != nil {
			if fault.IsNotFound(err) {
				return nil, &fault.NotFoundError{Kind: "parent", ID: req.Components.ParentID}
			}
			return nil, fmt.Errorf("failed to resolve parent: %w", err)
		}
		parent = p
	}

	guardCtx := record.CreateContext{
		Tier:         tier,
		ParentID:     req.Components.ParentID,
		ParentExists: parent != nil,
	}
	if parent != nil {
		guardCtx.ParentTier = parent.Tier
	}
	if result := record.CanCreate(guardCtx); !result.Allowed {
		return nil, fault.Validation("parent", result.Reason)
	}

	id := req.ID
	if id == "" {
		id = slugFromTitle(req.Components.Title)
	}
	if id == "" {
		return nil, fault.Validation("id", "cannot derive an id from the title")
	}

	exists, err := s.records.Exists(ctx, req.Namespace, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check record existence: %w", err)
	}
	if exists {
		return nil, fault.Validation("id", fmt.Sprintf("record %s already exists", id))
	}

	status := req.Components.Status
	if status == "" {
		status = models.StatusPending
	}

	now := time.Now().UTC()
	rec := &models.Record{
		ID:          id,
		Namespace:   req.Namespace,
		Tier:        tier,
		ParentID:    req.Components.ParentID,
		Title:       req.Components.Title,
		Description: req.Components.Description,
		Status:      status,
		Tags:        append([]string(nil), req.Components.Tags...),
		BlockedBy:   append([]string(nil), req.Components.Dependencies...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var sc models.Scope
	if parent != nil {
		parentScope := parent.Scope
		if parentScope == nil {
			def := scope.Default(parent.Tier)
			parentScope = &def
		}
		sc = scope.Inherit(*parentScope, parent.ID, tier)
	} else {
		sc = scope.Default(tier)
	}
	rec.Scope = &sc

	// Write-ahead order: provisional log entry, record commit, finalize.
	// A crash in between leaves a provisional entry for replay instead of
	// an unlogged record.
	entry := &models.ChangeLogEntry{
		ID:          uuid.NewString(),
		Namespace:   req.Namespace,
		RecordID:    rec.ID,
		Timestamp:   now,
		Author:      req.Author,
		ChangeType:  models.ChangeTypeCreated,
		Tier:        rec.Tier,
		After:       rec.Clone(),
		Provisional: true,
	}
	if err := s.changeLog.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to log record creation: %w", err)
	}
	if err := s.records.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	if err := s.changeLog.MarkFinal(ctx, entry.ID); err != nil {
		return nil, fmt.Errorf("failed to finalize change log entry: %w", err)
	}

	s.logger.Info("record created",
		zap.String("namespace", req.Namespace),
		zap.String("record", rec.ID),
		zap.String("tier", string(rec.Tier)),
	)

	return rec, nil
}

// GetRecord retrieves a record by ID.
func (s *RecordServiceImpl) GetRecord(ctx context.Context, ns, id string) (*models.Record, error) {
	return s.records.Get(ctx, ns, id)
}

// ListRecords lists every record in a namespace.
func (s *RecordServiceImpl) ListRecords(ctx context.Context, ns string) ([]*models.Record, error) {
	return s.records.ListAll(ctx, ns)
}

// ListChildren lists the direct children of a record.
func (s *RecordServiceImpl) ListChildren(ctx context.Context, ns, parentID string) ([]*models.Record, error) {
	return s.records.ListChildren(ctx, ns, parentID)
}

// UpdateStatus transitions a record's status and appends the status_change
// log entry.
func (s *RecordServiceImpl) UpdateStatus(ctx context.Context, req primary.UpdateStatusRequest) (*models.Record, error) {
	rec, err := s.records.Get(ctx, req.Namespace, req.RecordID)
	if err != nil {
		return nil, err
	}

	if result := record.CanTransitionStatus(rec.Status, req.Status); !result.Allowed {
		return nil, fault.Validation("status", result.Reason)
	}
	if rec.Status == req.Status {
		return rec, nil
	}

	before := rec.Clone()
	rec.Status = req.Status
	rec.UpdatedAt = time.Now().UTC()

	entry := &models.ChangeLogEntry{
		ID:          uuid.NewString(),
		Namespace:   req.Namespace,
		RecordID:    rec.ID,
		Timestamp:   rec.UpdatedAt,
		Author:      req.Author,
		ChangeType:  models.ChangeTypeStatusChange,
		Tier:        rec.Tier,
		Before:      before,
		After:       rec.Clone(),
		Reason:      req.Reason,
		Provisional: true,
	}
	if err := s.changeLog.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to log status change: %w", err)
	}
	if err := s.records.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update record status: %w", err)
	}
	if err := s.changeLog.MarkFinal(ctx, entry.ID); err != nil {
		return nil, fmt.Errorf("failed to finalize change log entry: %w", err)
	}

	s.logger.Info("record status changed",
		zap.String("namespace", req.Namespace),
		zap.String("record", rec.ID),
		zap.String("from", before.Status),
		zap.String("to", rec.Status),
	)

	return rec, nil
}

// ChildProgress aggregates child counts per status under a parent.
func (s *RecordServiceImpl) ChildProgress(ctx context.Context, ns, parentID string) (*models.ChildProgress, error) {
	if _, err := s.records.Get(ctx, ns, parentID); err != nil {
		return nil, err
	}

	children, err := s.records.ListChildren(ctx, ns, parentID)
	if err != nil {
		return nil, err
	}

	progress := &models.ChildProgress{ParentID: parentID, Total: len(children)}
	for _, c := range children {
		switch c.Status {
		case models.StatusCompleted:
			progress.Completed++
		case models.StatusInProgress:
			progress.InProgress++
		case models.StatusPending:
			progress.Pending++
		case models.StatusBlocked:
			progress.Blocked++
		case models.StatusCancelled:
			progress.Cancelled++
		}
	}
	return progress, nil
}

// GetHistory lists the change log entries for a record, most recent first.
func (s *RecordServiceImpl) GetHistory(ctx context.Context, ns, recordID string) ([]*models.ChangeLogEntry, error) {
	if _, err := s.records.Get(ctx, ns, recordID); err != nil {
		return nil, err
	}
	return s.changeLog.ListByRecord(ctx, ns, recordID)
}

// GetLog lists every change log entry in a namespace in append order.
func (s *RecordServiceImpl) GetLog(ctx context.Context, ns string) ([]*models.ChangeLogEntry, error) {
	return s.changeLog.ListAll(ctx, ns)
}

// Ensure RecordServiceImpl implements the interface
var _ primary.RecordService = (*RecordServiceImpl)(nil)
