package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/plank/internal/core/rollback"
	"github.com/example/plank/internal/fault"
	"github.com/example/plank/internal/locks"
	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/ports/primary"
	"github.com/example/plank/internal/ports/secondary"
)

// statePrefix turns a change log entry ID into an addressable state ID.
const statePrefix = "PS-"

// RollbackServiceImpl implements the RollbackService interface.
type RollbackServiceImpl struct {
	records   secondary.RecordRepository
	changeLog secondary.ChangeLogRepository
	rollbacks secondary.RollbackRepository
	locks     *locks.Manager
	lockWait  time.Duration
	logger    *zap.Logger
}

// NewRollbackService creates a new RollbackService with injected
// dependencies. lockWait bounds how long an operation waits for a
// contended record lock before surfacing fault.Busy.
func NewRollbackService(
	records secondary.RecordRepository,
	changeLog secondary.ChangeLogRepository,
	rollbacks secondary.RollbackRepository,
	lockMgr *locks.Manager,
	lockWait time.Duration,
	logger *zap.Logger,
) *RollbackServiceImpl {
	if lockWait <= 0 {
		lockWait = 5 * time.Second
	}
	return &RollbackServiceImpl{
		records:   records,
		changeLog: changeLog,
		rollbacks: rollbacks,
		locks:     lockMgr,
		lockWait:  lockWait,
		logger:    logger,
	}
}

// StorePreviousState constructs a snapshot tied to an existing change log
// entry. The caller owns the log write; the snapshot usually represents
// the pre-change state of an already-logged mutation.
func (s *RollbackServiceImpl) StorePreviousState(rec *models.Record, changeLogID, reason string) *models.PreviousState {
	return &models.PreviousState{
		ID:          statePrefix + changeLogID,
		RecordID:    rec.ID,
		Timestamp:   rec.UpdatedAt,
		Snapshot:    rec.Clone(),
		ChangeLogID: changeLogID,
		Reason:      reason,
	}
}

// GetAvailableStates derives the addressable snapshots for a record from
// change log entries carrying a Before snapshot, most recent first.
func (s *RollbackServiceImpl) GetAvailableStates(ctx context.Context, ns, recordID string) ([]*models.PreviousState, error) {
	entries, err := s.changeLog.ListByRecord(ctx, ns, recordID)
	if err != nil {
		return nil, err
	}

	var states []*models.PreviousState
	for _, entry := range entries {
		if entry.Before == nil {
			continue
		}
		states = append(states, &models.PreviousState{
			ID:          statePrefix + entry.ID,
			RecordID:    entry.RecordID,
			Timestamp:   entry.Timestamp,
			Snapshot:    entry.Before,
			ChangeLogID: entry.ID,
			Reason:      entry.Reason,
		})
	}
	return states, nil
}

// resolveState resolves a state ID and verifies it belongs to the record
// in the given namespace.
func (s *RollbackServiceImpl) resolveState(ctx context.Context, ns, recordID, stateID string) (*models.PreviousState, error) {
	changeLogID := strings.TrimPrefix(stateID, statePrefix)
	entry, err := s.changeLog.GetByID(ctx, ns, changeLogID)
	if err != nil {
		if fault.IsNotFound(err) {
			return nil, fault.NotFound("state", stateID)
		}
		return nil, err
	}
	if entry.Before == nil {
		return nil, fault.NotFound("state", stateID)
	}
	if entry.RecordID != recordID {
		return nil, &fault.NotFoundError{
			Kind: "state",
			ID:   stateID,
			Msg:  fmt.Sprintf("state %s does not belong to record %s", stateID, recordID),
		}
	}

	return &models.PreviousState{
		ID:          statePrefix + entry.ID,
		RecordID:    entry.RecordID,
		Timestamp:   entry.Timestamp,
		Snapshot:    entry.Before,
		ChangeLogID: entry.ID,
		Reason:      entry.Reason,
	}, nil
}

// RollbackToState restores every field of a record from a snapshot.
func (s *RollbackServiceImpl) RollbackToState(ctx context.Context, req primary.RollbackRequest) (*models.Rollback, error) {
	return s.rollback(ctx, req.Namespace, req.RecordID, req.StateID, nil, req.Reason, req.Author)
}

// RollbackFields restores only the named fields from a snapshot.
func (s *RollbackServiceImpl) RollbackFields(ctx context.Context, req primary.RollbackFieldsRequest) (*models.Rollback, error) {
	if len(req.Fields) == 0 {
		return nil, fault.Validation("fields", "selective rollback requires at least one field")
	}
	if bad := rollback.ValidateFields(req.Fields); bad != "" {
		return nil, fault.Validation("fields", fmt.Sprintf("field %q is not restorable", bad))
	}
	return s.rollback(ctx, req.Namespace, req.RecordID, req.StateID, req.Fields, req.Reason, req.Author)
}

// rollback is the shared full/selective flow. fields == nil means full.
func (s *RollbackServiceImpl) rollback(ctx context.Context, ns, recordID, stateID string, fields []string, reason, author string) (*models.Rollback, error) {
	state, err := s.resolveState(ctx, ns, recordID, stateID)
	if err != nil {
		return nil, err
	}

	// Lock the record, plus the snapshot's parent when the relationship
	// check will touch it. The manager orders acquisitions by id.
	lockIDs := []string{recordID}
	wantsParent := fields == nil
	for _, f := range fields {
		if f == rollback.FieldParentID {
			wantsParent = true
		}
	}
	if wantsParent && state.Snapshot.ParentID != "" {
		lockIDs = append(lockIDs, state.Snapshot.ParentID)
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()
	release, err := s.locks.Acquire(lockCtx, ns, lockIDs...)
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.records.Get(ctx, ns, recordID)
	if err != nil {
		return nil, err
	}

	snapshotParentExists := true
	if wantsParent && state.Snapshot.ParentID != "" && state.Snapshot.ParentID != current.ParentID {
		snapshotParentExists, err = s.records.Exists(ctx, ns, state.Snapshot.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to check snapshot parent: %w", err)
		}
	}

	conflicts := rollback.DetectConflicts(rollback.DetectContext{
		Current:              current,
		Snapshot:             state.Snapshot,
		SnapshotParentExists: snapshotParentExists,
		Fields:               fields,
	})

	now := time.Now().UTC()
	logID := uuid.NewString()
	rb := &models.Rollback{
		ID:           uuid.NewString(),
		Timestamp:    now,
		Author:       author,
		Namespace:    ns,
		RecordID:     recordID,
		RolledBackTo: state.ID,
		Type:         models.RollbackTypeFull,
		Reason:       reason,
		Conflicts:    conflicts,
		Status:       models.RollbackStatusPending,
	}
	if fields != nil {
		rb.Type = models.RollbackTypeSelective
		rb.Fields = append([]string(nil), fields...)
	}

	if len(conflicts) > 0 {
		// The record stays untouched; the rollback is recorded for
		// external resolution or cancellation.
		rb.Status = models.RollbackStatusConflict
		if err := s.rollbacks.Append(ctx, rb); err != nil {
			return nil, fmt.Errorf("failed to record conflicted rollback: %w", err)
		}

		s.logger.Warn("rollback blocked by conflicts",
			zap.String("namespace", ns),
			zap.String("record", recordID),
			zap.String("rollback", rb.ID),
			zap.Int("conflicts", len(conflicts)),
		)

		if rb.HasBlockingConflict() {
			return rb, &fault.ConflictError{RollbackID: rb.ID, Conflicts: conflicts}
		}
		return rb, nil
	}

	var restored *models.Record
	if fields == nil {
		restored = rollback.ApplyFull(current, state.Snapshot)
	} else {
		restored = rollback.ApplyFields(current, state.Snapshot, fields)
	}
	restored.UpdatedAt = now

	entry := &models.ChangeLogEntry{
		ID:         logID,
		Namespace:  ns,
		RecordID:   recordID,
		Timestamp:  now,
		Author:     author,
		ChangeType: models.ChangeTypeRollbackApplied,
		Tier:       restored.Tier,
		Before:     current.Clone(),
		After:      restored.Clone(),
		Reason:     reason,
		RelatedChanges: []string{
			state.ChangeLogID,
		},
	}

	rb.Status = models.RollbackStatusCompleted
	// The pre-rollback state only exists once its log entry is written, so
	// the reference is filled in here and stays empty on the conflict path.
	rb.RolledBackFrom = statePrefix + logID
	if err := s.rollbacks.ApplyRestore(ctx, secondary.ApplyRestoreRequest{
		Restored: restored,
		LogEntry: entry,
		Rollback: rb,
	}); err != nil {
		return nil, fmt.Errorf("failed to apply rollback: %w", err)
	}

	s.logger.Info("rollback applied",
		zap.String("namespace", ns),
		zap.String("record", recordID),
		zap.String("rollback", rb.ID),
		zap.String("to", state.ID),
		zap.String("type", rb.Type),
	)

	return rb, nil
}

// GetRollbackHistory lists rollbacks for a record, most recent first.
func (s *RollbackServiceImpl) GetRollbackHistory(ctx context.Context, ns, recordID string) ([]*models.Rollback, error) {
	return s.rollbacks.ListByRecord(ctx, ns, recordID)
}

// CancelRollback cancels a pending or conflicted rollback. completed is
// terminal.
func (s *RollbackServiceImpl) CancelRollback(ctx context.Context, ns, rollbackID string) (*models.Rollback, error) {
	rb, err := s.rollbacks.GetByID(ctx, ns, rollbackID)
	if err != nil {
		return nil, err
	}

	if err := rollback.CanCancel(rb.Status); err != nil {
		return nil, fault.Validation("status", err.Error())
	}

	if err := s.rollbacks.UpdateStatus(ctx, ns, rollbackID, models.RollbackStatusCancelled); err != nil {
		return nil, err
	}
	rb.Status = models.RollbackStatusCancelled

	s.logger.Info("rollback cancelled",
		zap.String("namespace", ns),
		zap.String("rollback", rollbackID),
	)

	return rb, nil
}

// Ensure RollbackServiceImpl implements the interface
var _ primary.RollbackService = (*RollbackServiceImpl)(nil)
