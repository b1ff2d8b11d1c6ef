package rollback

import "github.com/example/plank/internal/models"

// Restorable field names. Selective rollback accepts only these; anything
// else is rejected before conflict detection runs.
const (
	FieldTitle              = "title"
	FieldDescription        = "description"
	FieldStatus             = "status"
	FieldParentID           = "parentId"
	FieldTags               = "tags"
	FieldBlockedBy          = "blockedBy"
	FieldPlanningDocPath    = "planningDocPath"
	FieldPlanningDocSection = "planningDocSection"
	FieldScope              = "scope"
)

// setters maps each restorable field to a typed copy function. This
// replaces untyped field-by-key copying: an unknown name simply has no
// setter and fails validation.
var setters = map[string]func(dst, src *models.Record){
	FieldTitle:       func(dst, src *models.Record) { dst.Title = src.Title },
	FieldDescription: func(dst, src *models.Record) { dst.Description = src.Description },
	FieldStatus:      func(dst, src *models.Record) { dst.Status = src.Status },
	FieldParentID:    func(dst, src *models.Record) { dst.ParentID = src.ParentID },
	FieldTags: func(dst, src *models.Record) {
		dst.Tags = append([]string(nil), src.Tags...)
	},
	FieldBlockedBy: func(dst, src *models.Record) {
		dst.BlockedBy = append([]string(nil), src.BlockedBy...)
	},
	FieldPlanningDocPath:    func(dst, src *models.Record) { dst.PlanningDocPath = src.PlanningDocPath },
	FieldPlanningDocSection: func(dst, src *models.Record) { dst.PlanningDocSection = src.PlanningDocSection },
	FieldScope: func(dst, src *models.Record) {
		if src.Scope == nil {
			dst.Scope = nil
			return
		}
		sc := src.Scope.Clone()
		dst.Scope = &sc
	},
}

// ValidateFields reports the first unknown field name, or "" when all
// names are restorable.
func ValidateFields(fields []string) string {
	for _, f := range fields {
		if _, ok := setters[f]; !ok {
			return f
		}
	}
	return ""
}

// ApplyFields copies the named fields from the snapshot onto a clone of
// current and returns it. Unknown names are skipped; callers are expected
// to have validated first. The clone's UpdatedAt is left for the caller
// to refresh.
func ApplyFields(current, snapshot *models.Record, fields []string) *models.Record {
	restored := current.Clone()
	for _, f := range fields {
		if set, ok := setters[f]; ok {
			set(restored, snapshot)
		}
	}
	return restored
}

// ApplyFull overwrites every field of current from the snapshot, keeping
// the record's identity (ID, namespace, CreatedAt) and leaving UpdatedAt
// for the caller to refresh.
func ApplyFull(current, snapshot *models.Record) *models.Record {
	restored := snapshot.Clone()
	restored.ID = current.ID
	restored.Namespace = current.Namespace
	restored.CreatedAt = current.CreatedAt
	restored.UpdatedAt = current.UpdatedAt
	return restored
}
