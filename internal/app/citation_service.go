package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/plank/internal/fault"
	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/ports/primary"
	"github.com/example/plank/internal/ports/secondary"
)

// CitationServiceImpl implements the CitationService interface.
type CitationServiceImpl struct {
	records   secondary.RecordRepository
	changeLog secondary.ChangeLogRepository
	citations secondary.CitationRepository
	logger    *zap.Logger
}

// NewCitationService creates a new CitationService with injected dependencies.
func NewCitationService(
	records secondary.RecordRepository,
	changeLog secondary.ChangeLogRepository,
	citations secondary.CitationRepository,
	logger *zap.Logger,
) *CitationServiceImpl {
	return &CitationServiceImpl{
		records:   records,
		changeLog: changeLog,
		citations: citations,
		logger:    logger,
	}
}

// CreateCitation links a change log entry to a record. The referenced
// entry must exist; a dangling changeLogId is a validation failure.
func (s *CitationServiceImpl) CreateCitation(ctx context.Context, req primary.CreateCitationRequest) (*models.Citation, error) {
	if !models.ValidCitationType(req.Type) {
		return nil, fault.Validation("type", fmt.Sprintf("unknown citation type %q", req.Type))
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, fault.Validation("priority", fmt.Sprintf("unknown priority %q", priority))
	}

	if _, err := s.records.Get(ctx, req.Namespace, req.RecordID); err != nil {
		return nil, err
	}
	if _, err := s.changeLog.GetByID(ctx, req.Namespace, req.ChangeLogID); err != nil {
		if fault.IsNotFound(err) {
			return nil, fault.Validation("changeLogId", fmt.Sprintf("change log entry %s does not exist", req.ChangeLogID))
		}
		return nil, err
	}

	c := &models.Citation{
		ID:          uuid.NewString(),
		Namespace:   req.Namespace,
		RecordID:    req.RecordID,
		ChangeLogID: req.ChangeLogID,
		Type:        req.Type,
		Context:     append([]string(nil), req.Context...),
		Priority:    priority,
		CreatedAt:   time.Now().UTC(),
		Metadata: models.CitationMetadata{
			Reason: req.Reason,
			Impact: req.Impact,
		},
	}

	if err := s.citations.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create citation: %w", err)
	}

	s.logger.Info("citation created",
		zap.String("namespace", req.Namespace),
		zap.String("record", req.RecordID),
		zap.String("citation", c.ID),
		zap.String("type", c.Type),
	)

	return c, nil
}

// LookupCitations retrieves citations for a record carrying an exact
// context tag.
func (s *CitationServiceImpl) LookupCitations(ctx context.Context, ns, recordID, contextTag string) ([]*models.Citation, error) {
	return s.citations.Query(ctx, secondary.CitationFilters{
		Namespace: ns,
		RecordID:  recordID,
		Context:   contextTag,
	})
}

// QueryCitations retrieves citations matching every supplied filter.
func (s *CitationServiceImpl) QueryCitations(ctx context.Context, q primary.CitationQuery) ([]*models.Citation, error) {
	return s.citations.Query(ctx, secondary.CitationFilters{
		Namespace:   q.Namespace,
		RecordID:    q.RecordID,
		ChangeLogID: q.ChangeLogID,
		Type:        q.Type,
		Priority:    q.Priority,
		Context:     q.Context,
		Unreviewed:  q.Unreviewed,
	})
}

// getOwnedCitation loads a citation and verifies it belongs to the record.
func (s *CitationServiceImpl) getOwnedCitation(ctx context.Context, ns, recordID, citationID string) (*models.Citation, error) {
	c, err := s.citations.GetByID(ctx, ns, citationID)
	if err != nil {
		return nil, err
	}
	if c.RecordID != recordID {
		return nil, fault.Validation("citationId",
			fmt.Sprintf("citation %s does not belong to record %s", citationID, recordID))
	}
	return c, nil
}

// ReviewCitation marks a citation reviewed. Idempotent; a prior review is
// never cleared, and a dismissed citation cannot be reviewed.
func (s *CitationServiceImpl) ReviewCitation(ctx context.Context, ns, recordID, citationID string) (*models.Citation, error) {
	c, err := s.getOwnedCitation(ctx, ns, recordID, citationID)
	if err != nil {
		return nil, err
	}
	if c.Dismissed {
		return nil, fault.Validation("citationId", fmt.Sprintf("citation %s is dismissed and cannot be reviewed", citationID))
	}
	if c.Reviewed() {
		return c, nil
	}

	now := time.Now().UTC()
	if err := s.citations.MarkReviewed(ctx, ns, citationID, now); err != nil {
		return nil, err
	}
	c.ReviewedAt = &now

	s.logger.Info("citation reviewed",
		zap.String("namespace", ns),
		zap.String("citation", citationID),
	)

	return c, nil
}

// DismissCitation marks a citation dismissed: a terminal state mutually
// exclusive with review.
func (s *CitationServiceImpl) DismissCitation(ctx context.Context, ns, recordID, citationID string) (*models.Citation, error) {
	c, err := s.getOwnedCitation(ctx, ns, recordID, citationID)
	if err != nil {
		return nil, err
	}
	if c.Reviewed() {
		return nil, fault.Validation("citationId", fmt.Sprintf("citation %s is reviewed and cannot be dismissed", citationID))
	}
	if c.Dismissed {
		return c, nil
	}

	if err := s.citations.MarkDismissed(ctx, ns, citationID); err != nil {
		return nil, err
	}
	c.Dismissed = true

	s.logger.Info("citation dismissed",
		zap.String("namespace", ns),
		zap.String("citation", citationID),
	)

	return c, nil
}

// Ensure CitationServiceImpl implements the interface
var _ primary.CitationService = (*CitationServiceImpl)(nil)
