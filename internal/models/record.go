// Package models contains domain types for plank planning entities.
// SQL persistence lives in internal/adapters/sqlite/*.go
package models

import "time"

// Tier identifies the level of a planning record in the hierarchy.
type Tier string

// Tier constants, ordered from shallowest to deepest.
const (
	TierFeature Tier = "feature"
	TierPhase   Tier = "phase"
	TierSession Tier = "session"
	TierTask    Tier = "task"
)

// tierOrder maps each tier to its depth. Used for parent/child checks.
var tierOrder = map[Tier]int{
	TierFeature: 0,
	TierPhase:   1,
	TierSession: 2,
	TierTask:    3,
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	_, ok := tierOrder[t]
	return ok
}

// Depth returns the tier's position in the hierarchy (feature=0 .. task=3).
func (t Tier) Depth() int {
	return tierOrder[t]
}

// Parent returns the tier one level above, or "" for feature.
func (t Tier) Parent() Tier {
	switch t {
	case TierPhase:
		return TierFeature
	case TierSession:
		return TierPhase
	case TierTask:
		return TierSession
	}
	return ""
}

// Record status constants
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusBlocked    = "blocked"
)

// ValidStatus reports whether s is a known record status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusBlocked:
		return true
	}
	return false
}

// Record represents a planning unit. Records form a strict four-level
// hierarchy: feature -> phase -> session -> task. ParentID is empty iff
// the tier is feature. Records are never physically deleted; cancelled is
// the terminal removed state.
type Record struct {
	ID                 string
	Namespace          string
	Tier               Tier
	ParentID           string
	Title              string
	Description        string
	Status             string
	Tags               []string
	BlockedBy          []string
	PlanningDocPath    string
	PlanningDocSection string
	Scope              *Scope
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Tags = append([]string(nil), r.Tags...)
	c.BlockedBy = append([]string(nil), r.BlockedBy...)
	if r.Scope != nil {
		sc := r.Scope.Clone()
		c.Scope = &sc
	}
	return &c
}

// ChildProgress aggregates child record counts under a parent.
// Total always equals the sum of the per-status counts.
type ChildProgress struct {
	ParentID   string
	Total      int
	Completed  int
	InProgress int
	Pending    int
	Blocked    int
	Cancelled  int
}
