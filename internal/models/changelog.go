package models

import "time"

// Change type constants for ChangeLogEntry.ChangeType.
const (
	ChangeTypeCreated         = "created"
	ChangeTypeStatusChange    = "status_change"
	ChangeTypeFieldUpdate     = "field_update"
	ChangeTypeScopeRedaction  = "scope_redaction"
	ChangeTypeRollbackApplied = "rollback_applied"
)

// ChangeLogEntry is the append-only audit unit for a single mutation.
// Entries are never mutated or removed once written; the only state change
// permitted is clearing the Provisional marker after the paired record
// write commits (write-ahead ordering, see the rollback engine).
type ChangeLogEntry struct {
	ID                   string
	Seq                  int64
	Timestamp            time.Time
	Author               string
	ChangeType           string
	Tier                 Tier
	RecordID             string
	Namespace            string
	Before               *Record
	After                *Record
	Reason               string
	PropagationTriggered bool
	RelatedChanges       []string
	Provisional          bool
}

// PreviousState is a named, addressable snapshot derived from a change log
// entry that carries a Before snapshot. States are computed on demand and
// never stored separately.
type PreviousState struct {
	ID          string
	RecordID    string
	Timestamp   time.Time
	Snapshot    *Record
	ChangeLogID string
	Reason      string
}
