// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/plank/internal/models"
)

// scopeJSON is the stored form of a record's scope.
type scopeJSON struct {
	Level            string   `json:"level"`
	Abstraction      string   `json:"abstraction"`
	DetailLevel      string   `json:"detailLevel"`
	AllowedDetails   []string `json:"allowedDetails,omitempty"`
	ForbiddenDetails []string `json:"forbiddenDetails,omitempty"`
	InheritedFrom    string   `json:"inheritedFrom,omitempty"`
}

// recordJSON is the stored form of a full record snapshot (change_log
// before/after columns).
type recordJSON struct {
	ID                 string     `json:"id"`
	Namespace          string     `json:"namespace"`
	Tier               string     `json:"tier"`
	ParentID           string     `json:"parentId,omitempty"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Status             string     `json:"status"`
	Tags               []string   `json:"tags,omitempty"`
	BlockedBy          []string   `json:"blockedBy,omitempty"`
	PlanningDocPath    string     `json:"planningDocPath,omitempty"`
	PlanningDocSection string     `json:"planningDocSection,omitempty"`
	Scope              *scopeJSON `json:"scope,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func scopeToJSON(s *models.Scope) *scopeJSON {
	if s == nil {
		return nil
	}
	return &scopeJSON{
		Level:            string(s.Level),
		Abstraction:      string(s.Abstraction),
		DetailLevel:      s.DetailLevel,
		AllowedDetails:   s.AllowedDetails,
		ForbiddenDetails: s.ForbiddenDetails,
		InheritedFrom:    s.InheritedFrom,
	}
}

func scopeFromJSON(j *scopeJSON) *models.Scope {
	if j == nil {
		return nil
	}
	return &models.Scope{
		Level:            models.Tier(j.Level),
		Abstraction:      models.Abstraction(j.Abstraction),
		DetailLevel:      j.DetailLevel,
		AllowedDetails:   j.AllowedDetails,
		ForbiddenDetails: j.ForbiddenDetails,
		InheritedFrom:    j.InheritedFrom,
	}
}

func recordToJSON(r *models.Record) *recordJSON {
	if r == nil {
		return nil
	}
	return &recordJSON{
		ID:                 r.ID,
		Namespace:          r.Namespace,
		Tier:               string(r.Tier),
		ParentID:           r.ParentID,
		Title:              r.Title,
		Description:        r.Description,
		Status:             r.Status,
		Tags:               r.Tags,
		BlockedBy:          r.BlockedBy,
		PlanningDocPath:    r.PlanningDocPath,
		PlanningDocSection: r.PlanningDocSection,
		Scope:              scopeToJSON(r.Scope),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func recordFromJSON(j *recordJSON) *models.Record {
	if j == nil {
		return nil
	}
	return &models.Record{
		ID:                 j.ID,
		Namespace:          j.Namespace,
		Tier:               models.Tier(j.Tier),
		ParentID:           j.ParentID,
		Title:              j.Title,
		Description:        j.Description,
		Status:             j.Status,
		Tags:               j.Tags,
		BlockedBy:          j.BlockedBy,
		PlanningDocPath:    j.PlanningDocPath,
		PlanningDocSection: j.PlanningDocSection,
		Scope:              scopeFromJSON(j.Scope),
		CreatedAt:          j.CreatedAt,
		UpdatedAt:          j.UpdatedAt,
	}
}

// encodeSnapshot marshals a record snapshot for a change_log column.
// A nil record encodes as an invalid NullString (stored NULL).
func encodeSnapshot(r *models.Record) (sql.NullString, error) {
	if r == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(recordToJSON(r))
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode record snapshot: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// decodeSnapshot unmarshals a change_log snapshot column.
func decodeSnapshot(ns sql.NullString) (*models.Record, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var j recordJSON
	if err := json.Unmarshal([]byte(ns.String), &j); err != nil {
		return nil, fmt.Errorf("failed to decode record snapshot: %w", err)
	}
	return recordFromJSON(&j), nil
}

// encodeStrings marshals a string slice for a TEXT column. Empty slices
// store NULL.
func encodeStrings(ss []string) (sql.NullString, error) {
	if len(ss) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(ss)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode string list: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// decodeStrings unmarshals a TEXT column into a string slice.
func decodeStrings(ns sql.NullString) ([]string, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var ss []string
	if err := json.Unmarshal([]byte(ns.String), &ss); err != nil {
		return nil, fmt.Errorf("failed to decode string list: %w", err)
	}
	return ss, nil
}

// encodeScopeColumn marshals a scope for the records.scope column.
func encodeScopeColumn(s *models.Scope) (sql.NullString, error) {
	if s == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(scopeToJSON(s))
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode scope: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// decodeScopeColumn unmarshals the records.scope column.
func decodeScopeColumn(ns sql.NullString) (*models.Scope, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var j scopeJSON
	if err := json.Unmarshal([]byte(ns.String), &j); err != nil {
		return nil, fmt.Errorf("failed to decode scope: %w", err)
	}
	return scopeFromJSON(&j), nil
}

// encodeConflicts marshals rollback conflicts for the rollbacks.conflicts
// column.
func encodeConflicts(cs []models.RollbackConflict) (sql.NullString, error) {
	if len(cs) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(cs)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode conflicts: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// decodeConflicts unmarshals the rollbacks.conflicts column.
func decodeConflicts(ns sql.NullString) ([]models.RollbackConflict, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var cs []models.RollbackConflict
	if err := json.Unmarshal([]byte(ns.String), &cs); err != nil {
		return nil, fmt.Errorf("failed to decode conflicts: %w", err)
	}
	return cs, nil
}
