package models

import "time"

// Rollback status constants
const (
	RollbackStatusPending   = "pending"
	RollbackStatusCompleted = "completed"
	RollbackStatusConflict  = "conflict"
	RollbackStatusCancelled = "cancelled"
)

// Rollback type constants
const (
	RollbackTypeFull      = "full"
	RollbackTypeSelective = "selective"
)

// Conflict type constants
const (
	ConflictRelationship = "relationship_conflict"
	ConflictPlanningDoc  = "planning_doc_conflict"
	ConflictState        = "state_conflict"
)

// Conflict severity constants
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// RollbackConflict describes a detected inconsistency between the current
// record and the snapshot being restored. Conflicts are advisory except
// relationship_conflict, which always blocks.
type RollbackConflict struct {
	Type        string
	Description string
	Severity    string
}

// Blocking reports whether the conflict prevents the rollback from applying.
func (c RollbackConflict) Blocking() bool {
	return c.Type == ConflictRelationship
}

// Rollback records one rollback operation, whatever its outcome.
//
// Status machine: pending -> completed (clean apply), pending -> conflict
// (record left untouched), conflict -> cancelled or conflict -> completed
// after external resolution. completed is terminal.
type Rollback struct {
	ID             string
	Timestamp      time.Time
	Author         string
	Namespace      string
	RecordID       string
	RolledBackTo   string
	RolledBackFrom string
	Type           string
	Fields         []string
	Reason         string
	Conflicts      []RollbackConflict
	Status         string
}

// HasBlockingConflict reports whether any detected conflict blocks the apply.
func (r *Rollback) HasBlockingConflict() bool {
	for _, c := range r.Conflicts {
		if c.Blocking() {
			return true
		}
	}
	return false
}
