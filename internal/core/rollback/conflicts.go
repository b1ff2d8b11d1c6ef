// Package rollback contains the pure business logic for rollback
// operations: conflict detection rules and the typed table of restorable
// fields. Guards here evaluate preconditions without side effects.
package rollback

import (
	"fmt"
	"time"

	"github.com/example/plank/internal/models"
)

// StaleThreshold is the age gap beyond which a snapshot is flagged stale.
const StaleThreshold = 24 * time.Hour

// DetectContext carries everything conflict detection needs, precomputed
// by the caller so the rules stay pure.
type DetectContext struct {
	Current  *models.Record
	Snapshot *models.Record
	// SnapshotParentExists is only consulted when the snapshot's parent
	// differs from the current one.
	SnapshotParentExists bool
	// Fields limits detection to the named fields for selective rollback.
	// Nil means full rollback: every rule runs.
	Fields []string
}

func (c DetectContext) wants(field string) bool {
	if c.Fields == nil {
		return true
	}
	for _, f := range c.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// DetectConflicts runs the conflict rules against current vs snapshot.
// relationship_conflict blocks; the others are advisory.
func DetectConflicts(ctx DetectContext) []models.RollbackConflict {
	var out []models.RollbackConflict

	if ctx.wants(FieldParentID) &&
		ctx.Snapshot.ParentID != ctx.Current.ParentID && !ctx.SnapshotParentExists {
		out = append(out, models.RollbackConflict{
			Type:        models.ConflictRelationship,
			Description: fmt.Sprintf("snapshot parent %s no longer resolves to an existing record", ctx.Snapshot.ParentID),
			Severity:    models.SeverityHigh,
		})
	}

	if ctx.wants(FieldPlanningDocPath) &&
		ctx.Snapshot.PlanningDocPath != ctx.Current.PlanningDocPath {
		out = append(out, models.RollbackConflict{
			Type:        models.ConflictPlanningDoc,
			Description: fmt.Sprintf("planning doc moved from %q to %q since the snapshot", ctx.Snapshot.PlanningDocPath, ctx.Current.PlanningDocPath),
			Severity:    models.SeverityMedium,
		})
	}

	if gap := ctx.Current.UpdatedAt.Sub(ctx.Snapshot.UpdatedAt); gap > StaleThreshold || gap < -StaleThreshold {
		out = append(out, models.RollbackConflict{
			Type:        models.ConflictState,
			Description: fmt.Sprintf("snapshot is %s older than the current record state", gap.Round(time.Minute)),
			Severity:    models.SeverityLow,
		})
	}

	return out
}

// CanCancel evaluates whether a rollback may transition to cancelled.
// Only pending and conflict rollbacks are cancellable; completed is
// terminal.
func CanCancel(status string) error {
	switch status {
	case models.RollbackStatusPending, models.RollbackStatusConflict:
		return nil
	}
	return fmt.Errorf("cannot cancel a %s rollback", status)
}
