package models

import "time"

// Citation type constants
const (
	CitationStatusChange      = "status_change"
	CitationDescriptionChange = "description_change"
	CitationParentChange      = "parent_change"
	CitationPlanningDocChange = "planning_doc_change"
	CitationPropagationChange = "propagation_change"
	CitationConflictDetected  = "conflict_detected"
	CitationRollbackApplied   = "rollback_applied"
)

// ValidCitationType reports whether t is a known citation type.
func ValidCitationType(t string) bool {
	switch t {
	case CitationStatusChange, CitationDescriptionChange, CitationParentChange,
		CitationPlanningDocChange, CitationPropagationChange,
		CitationConflictDetected, CitationRollbackApplied:
		return true
	}
	return false
}

// Citation priority constants
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// ValidPriority reports whether p is a known citation priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// CitationMetadata carries free-form audit context for a citation.
type CitationMetadata struct {
	Reason string
	Impact string
}

// Citation is an audit-trail link between a change log entry and a record.
// ReviewedAt, once set, is never cleared; dismissal is a separate terminal
// marker, mutually exclusive with review.
type Citation struct {
	ID          string
	Namespace   string
	RecordID    string
	ChangeLogID string
	Type        string
	Context     []string
	Priority    string
	CreatedAt   time.Time
	ReviewedAt  *time.Time
	Dismissed   bool
	Metadata    CitationMetadata
}

// Reviewed reports whether the citation has been reviewed.
func (c *Citation) Reviewed() bool {
	return c.ReviewedAt != nil
}
