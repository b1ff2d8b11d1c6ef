package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/plank/internal/core/scope"
	"github.com/example/plank/internal/fault"
	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/ports/primary"
	"github.com/example/plank/internal/ports/secondary"
)

// ScopeServiceImpl implements the ScopeService interface.
type ScopeServiceImpl struct {
	records   secondary.RecordRepository
	changeLog secondary.ChangeLogRepository
	logger    *zap.Logger
}

// NewScopeService creates a new ScopeService with injected dependencies.
func NewScopeService(
	records secondary.RecordRepository,
	changeLog secondary.ChangeLogRepository,
	logger *zap.Logger,
) *ScopeServiceImpl {
	return &ScopeServiceImpl{
		records:   records,
		changeLog: changeLog,
		logger:    logger,
	}
}

// AssignScope assigns a scope to a record that has none. Idempotent: a
// record with a scope is returned unchanged.
func (s *ScopeServiceImpl) AssignScope(ctx context.Context, ns, recordID string) (*models.Record, error) {
	rec, err := s.records.Get(ctx, ns, recordID)
	if err != nil {
		return nil, err
	}
	if rec.Scope != nil {
		return rec, nil
	}

	var sc models.Scope
	if rec.ParentID != "" {
		parent, err := s.records.Get(ctx, ns, rec.ParentID)
		if err != nil {
			if fault.IsNotFound(err) {
				return nil, &fault.NotFoundError{Kind: "parent", ID: rec.ParentID}
			}
			return nil, fmt.Errorf("failed to resolve parent: %w", err)
		}
		parentScope := parent.Scope
		if parentScope == nil {
			def := scope.Default(parent.Tier)
			parentScope = &def
		}
		sc = scope.Inherit(*parentScope, parent.ID, rec.Tier)
	} else {
		sc = scope.Default(rec.Tier)
	}

	before := rec.Clone()
	rec.Scope = &sc
	rec.UpdatedAt = time.Now().UTC()

	entry := &models.ChangeLogEntry{
		ID:          uuid.NewString(),
		Namespace:   ns,
		RecordID:    rec.ID,
		Timestamp:   rec.UpdatedAt,
		ChangeType:  models.ChangeTypeFieldUpdate,
		Tier:        rec.Tier,
		Before:      before,
		After:       rec.Clone(),
		Reason:      "scope assignment",
		Provisional: true,
	}
	if err := s.changeLog.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to log scope assignment: %w", err)
	}
	if err := s.records.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to persist assigned scope: %w", err)
	}
	if err := s.changeLog.MarkFinal(ctx, entry.ID); err != nil {
		return nil, fmt.Errorf("failed to finalize change log entry: %w", err)
	}

	s.logger.Info("scope assigned",
		zap.String("namespace", ns),
		zap.String("record", recordID),
		zap.String("abstraction", string(sc.Abstraction)),
	)

	return rec, nil
}

// CheckScope validates a record's scope without mutating anything.
func (s *ScopeServiceImpl) CheckScope(ctx context.Context, ns, recordID string) (*primary.ScopeCheckResult, error) {
	rec, err := s.records.Get(ctx, ns, recordID)
	if err != nil {
		return nil, err
	}

	res := scope.Validate(rec)
	return &primary.ScopeCheckResult{
		RecordID:   recordID,
		Valid:      res.Valid,
		Errors:     res.Errors,
		Violations: res.Violations,
	}, nil
}

// EnforceScope applies an enforcement mode to a record's scope violations.
func (s *ScopeServiceImpl) EnforceScope(ctx context.Context, req primary.EnforceScopeRequest) (*primary.EnforceScopeResponse, error) {
	if !primary.ValidEnforceMode(req.Mode) {
		return nil, fault.Validation("mode", fmt.Sprintf("unknown enforcement mode %q", req.Mode))
	}

	rec, err := s.records.Get(ctx, req.Namespace, req.RecordID)
	if err != nil {
		return nil, err
	}

	res := scope.Validate(rec)
	if len(res.Errors) > 0 {
		return nil, fault.Validation("scope", res.Errors[0])
	}

	switch req.Mode {
	case primary.EnforceStrict:
		if len(res.Violations) > 0 {
			return nil, &fault.ScopeViolationError{RecordID: req.RecordID, Violations: res.Violations}
		}
		return &primary.EnforceScopeResponse{Record: rec}, nil

	case primary.EnforceWarn:
		if len(res.Violations) > 0 {
			s.logger.Warn("scope violations detected",
				zap.String("namespace", req.Namespace),
				zap.String("record", req.RecordID),
				zap.Int("violations", len(res.Violations)),
			)
		}
		return &primary.EnforceScopeResponse{Record: rec, Violations: res.Violations}, nil
	}

	// auto: redact forbidden-detail spans located in the description and
	// persist. The placeholder is purely textual; meaning may be lost.
	before := rec.Clone()
	redacted := false
	for _, v := range res.Violations {
		if v.Type == models.ViolationForbiddenDetail && v.Location == models.LocationDescription {
			next := scope.Redact(rec.Description, v.DetailType)
			if next != rec.Description {
				rec.Description = next
				redacted = true
			}
		}
	}

	if !redacted {
		return &primary.EnforceScopeResponse{Record: rec, Violations: res.Violations}, nil
	}

	rec.UpdatedAt = time.Now().UTC()

	// Write-ahead order, as in the record service.
	entry := &models.ChangeLogEntry{
		ID:          uuid.NewString(),
		Namespace:   req.Namespace,
		RecordID:    rec.ID,
		Timestamp:   rec.UpdatedAt,
		Author:      req.Author,
		ChangeType:  models.ChangeTypeScopeRedaction,
		Tier:        rec.Tier,
		Before:      before,
		After:       rec.Clone(),
		Reason:      "auto-mode scope enforcement",
		Provisional: true,
	}
	if err := s.changeLog.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to log scope redaction: %w", err)
	}
	if err := s.records.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to persist redacted record: %w", err)
	}
	if err := s.changeLog.MarkFinal(ctx, entry.ID); err != nil {
		return nil, fmt.Errorf("failed to finalize change log entry: %w", err)
	}

	s.logger.Info("scope violations redacted",
		zap.String("namespace", req.Namespace),
		zap.String("record", req.RecordID),
		zap.Int("violations", len(res.Violations)),
	)

	return &primary.EnforceScopeResponse{Record: rec, Violations: res.Violations, Redacted: true}, nil
}

// Ensure ScopeServiceImpl implements the interface
var _ primary.ScopeService = (*ScopeServiceImpl)(nil)
