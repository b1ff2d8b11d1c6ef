package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/plank/internal/fault"
	"github.com/example/plank/internal/locks"
	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/ports/primary"
)

func newTestRollbackService() (*RollbackServiceImpl, *mockRecordRepository, *mockChangeLogRepository, *mockRollbackRepository) {
	records := newMockRecordRepository()
	changeLog := newMockChangeLogRepository()
	rollbacks := newMockRollbackRepository(records, changeLog)
	svc := NewRollbackService(records, changeLog, rollbacks, locks.NewManager(), time.Second, zap.NewNop())
	return svc, records, changeLog, rollbacks
}

// seedSnapshot seeds a session record plus a change log entry whose Before
// snapshot differs from the current state, and returns the current record
// and the snapshot.
func seedSnapshot(records *mockRecordRepository, changeLog *mockChangeLogRepository, entryID string) (*models.Record, *models.Record) {
	now := time.Now().UTC()
	current := &models.Record{
		ID:        "sess-1",
		Namespace: "shop",
		Tier:      models.TierSession,
		ParentID:  "phase-1",
		Title:     "New title",
		Status:    models.StatusInProgress,
		UpdatedAt: now,
	}
	snapshot := current.Clone()
	snapshot.Title = "Old title"
	snapshot.Status = models.StatusPending
	snapshot.UpdatedAt = now.Add(-time.Hour)

	records.seed(current)
	changeLog.entries = append(changeLog.entries, &models.ChangeLogEntry{
		ID:         entryID,
		Namespace:  "shop",
		RecordID:   "sess-1",
		Timestamp:  now.Add(-time.Hour),
		ChangeType: models.ChangeTypeStatusChange,
		Tier:       models.TierSession,
		Before:     snapshot,
		After:      current.Clone(),
		Reason:     "started work",
	})
	return current, snapshot
}

func TestStorePreviousState(t *testing.T) {
	svc, _, _, _ := newTestRollbackService()
	rec := &models.Record{ID: "sess-1", Tier: models.TierSession, Title: "t", UpdatedAt: time.Now().UTC()}

	ps := svc.StorePreviousState(rec, "cl-1", "before edit")
	if ps.ID != "PS-cl-1" {
		t.Errorf("ID = %s, want PS-cl-1", ps.ID)
	}
	if ps.ChangeLogID != "cl-1" || ps.Reason != "before edit" {
		t.Errorf("PreviousState = %+v", ps)
	}
	if ps.Snapshot == rec {
		t.Error("snapshot must be a detached copy")
	}
}

func TestGetAvailableStates(t *testing.T) {
	svc, records, changeLog, _ := newTestRollbackService()
	seedSnapshot(records, changeLog, "cl-1")

	// Creation entries carry no Before snapshot and are not addressable.
	changeLog.entries = append(changeLog.entries, &models.ChangeLogEntry{
		ID:         "cl-0",
		Namespace:  "shop",
		RecordID:   "sess-1",
		ChangeType: models.ChangeTypeCreated,
		After:      &models.Record{ID: "sess-1"},
	})

	states, err := svc.GetAvailableStates(context.Background(), "shop", "sess-1")
	if err != nil {
		t.Fatalf("GetAvailableStates() error = %v", err)
	}
	if len(states) != 1 {
		t.Fatalf("states = %d, want 1", len(states))
	}
	if states[0].ID != "PS-cl-1" {
		t.Errorf("ID = %s, want PS-cl-1", states[0].ID)
	}
	if states[0].Snapshot.Title != "Old title" {
		t.Errorf("Snapshot.Title = %s", states[0].Snapshot.Title)
	}
}

func TestRollbackToState(t *testing.T) {
	svc, records, changeLog, rollbacks := newTestRollbackService()
	seedSnapshot(records, changeLog, "cl-1")

	rb, err := svc.RollbackToState(context.Background(), primary.RollbackRequest{
		Namespace: "shop",
		RecordID:  "sess-1",
		StateID:   "PS-cl-1",
		Reason:    "undo kickoff",
		Author:    "ana",
	})
	if err != nil {
		t.Fatalf("RollbackToState() error = %v", err)
	}
	if rb.Status != models.RollbackStatusCompleted {
		t.Errorf("Status = %s, want completed", rb.Status)
	}
	if rb.Type != models.RollbackTypeFull {
		t.Errorf("Type = %s, want full", rb.Type)
	}
	if rb.RolledBackTo != "PS-cl-1" {
		t.Errorf("RolledBackTo = %s", rb.RolledBackTo)
	}

	restored, _ := records.Get(context.Background(), "shop", "sess-1")
	if rb.RolledBackFrom != "PS-"+changeLog.lastEntry().ID {
		t.Errorf("RolledBackFrom = %s, want the pre-rollback state id", rb.RolledBackFrom)
	}
	if restored.Title != "Old title" || restored.Status != models.StatusPending {
		t.Errorf("restored record = %s/%s, want snapshot state", restored.Title, restored.Status)
	}

	entry := changeLog.lastEntry()
	if entry == nil || entry.ChangeType != models.ChangeTypeRollbackApplied {
		t.Fatalf("last entry = %+v, want rollback_applied", entry)
	}
	if len(entry.RelatedChanges) != 1 || entry.RelatedChanges[0] != "cl-1" {
		t.Errorf("RelatedChanges = %v, want the source entry", entry.RelatedChanges)
	}
	if entry.Before == nil || entry.Before.Title != "New title" {
		t.Error("rollback entry must snapshot the pre-rollback state")
	}

	if _, ok := rollbacks.rollbacks[rb.ID]; !ok {
		t.Error("rollback row not persisted")
	}
}

func TestRollbackToState_StateNotFound(t *testing.T) {
	svc, records, changeLog, _ := newTestRollbackService()
	seedSnapshot(records, changeLog, "cl-1")

	tests := []struct {
		name    string
		stateID string
	}{
		{"unknown state", "PS-cl-404"},
		{"raw change log id without snapshot", "PS-cl-0"},
	}

	changeLog.entries = append(changeLog.entries, &models.ChangeLogEntry{
		ID:         "cl-0",
		Namespace:  "shop",
		RecordID:   "sess-1",
		ChangeType: models.ChangeTypeCreated,
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RollbackToState(context.Background(), primary.RollbackRequest{
				Namespace: "shop",
				RecordID:  "sess-1",
				StateID:   tt.stateID,
			})
			if !fault.IsNotFound(err) {
				t.Errorf("RollbackToState() error = %v, want not-found error", err)
			}
		})
	}
}

func TestRollbackToState_WrongRecord(t *testing.T) {
	svc, records, changeLog, _ := newTestRollbackService()
	seedSnapshot(records, changeLog, "cl-1")
	records.seed(&models.Record{ID: "sess-2", Namespace: "shop", Tier: models.TierSession, Title: "other"})

	_, err := svc.RollbackToState(context.Background(), primary.RollbackRequest{
		Namespace: "shop",
		RecordID:  "sess-2",
		StateID:   "PS-cl-1",
	})
	if !fault.IsNotFound(err) {
		t.Errorf("RollbackToState() error = %v, want not-found error", err)
	}
}

func TestRollbackToState_StateFromOtherNamespace(t *testing.T) {
	svc, records, changeLog, _ := newTestRollbackService()
	seedSnapshot(records, changeLog, "cl-1")

	// Same record id in another namespace. Its state ids must not resolve
	// against the "shop" entry.
	records.seed(&models.Record{
		ID:        "sess-1",
		Namespace: "press",
		Tier:      models.TierSession,
		ParentID:  "phase-1",
		Title:     "Press title",
		Status:    models.StatusInProgress,
		UpdatedAt: time.Now().UTC(),
	})

	_, err := svc.RollbackToState(context.Background(), primary.RollbackRequest{
		Namespace: "press",
		RecordID:  "sess-1",
		StateID:   "PS-cl-1",
	})
	if !fault.IsNotFound(err) {
		t.Fatalf("RollbackToState() error = %v, want not-found error", err)
	}

	stored, _ := records.Get(context.Background(), "press", "sess-1")
	if stored.Title != "Press title" {
		t.Errorf("Title = %q, record must be untouched", stored.Title)
	}
}

func TestRollbackToState_BlockingConflict(t *testing.T) {
	svc, records, changeLog, _ := newTestRollbackService()
	current, snapshot := seedSnapshot(records, changeLog, "cl-1")

	// The snapshot points at a parent that no longer exists.
	snapshot.ParentID = "phase-gone"
	current.ParentID = "phase-1"
	records.seed(current)

	rb, err := svc.RollbackToState(context.Background(), primary.RollbackRequest{
		Namespace: "shop",
		RecordID:  "sess-1",
		StateID:   "PS-cl-1",
	})
	var ce *fault.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("RollbackToState() error = %v, want conflict error", err)
	}
	if rb == nil || rb.Status != models.RollbackStatusConflict {
		t.Fatalf("rollback = %+v, want conflict status", rb)
	}
	if !rb.HasBlockingConflict() {
		t.Error("expected a blocking conflict")
	}
	if rb.RolledBackFrom != "" {
		t.Errorf("RolledBackFrom = %s, want empty without an applied entry", rb.RolledBackFrom)
	}

	stored, _ := records.Get(context.Background(), "shop", "sess-1")
	if stored.Title != "New title" {
		t.Error("conflicted rollback must leave the record untouched")
	}
	if e := changeLog.lastEntry(); e != nil && e.ChangeType == models.ChangeTypeRollbackApplied {
		t.Error("conflicted rollback must not append a rollback_applied entry")
	}
}

func TestRollbackToState_AdvisoryConflict(t *testing.T) {
	svc, records, changeLog, _ := newTestRollbackService()
	_, snapshot := seedSnapshot(records, changeLog, "cl-1")

	// Stale snapshot: advisory, so no error, but the apply is held.
	snapshot.UpdatedAt = time.Now().UTC().Add(-48 * time.Hour)

	rb, err := svc.RollbackToState(context.Background(), primary.RollbackRequest{
		Namespace: "shop",
		RecordID:  "sess-1",
		StateID:   "PS-cl-1",
	})
	if err != nil {
		t.Fatalf("RollbackToState() error = %v", err)
	}
	if rb.Status != models.RollbackStatusConflict {
		t.Errorf("Status = %s, want conflict", rb.Status)
	}
	if rb.HasBlockingConflict() {
		t.Error("staleness is advisory, not blocking")
	}
	if rb.RolledBackFrom != "" {
		t.Errorf("RolledBackFrom = %s, want empty without an applied entry", rb.RolledBackFrom)
	}

	stored, _ := records.Get(context.Background(), "shop", "sess-1")
	if stored.Title != "New title" {
		t.Error("conflicted rollback must leave the record untouched")
	}
}

func TestRollbackFields_Validation(t *testing.T) {
	svc, records, changeLog, _ := newTestRollbackService()
	seedSnapshot(records, changeLog, "cl-1")

	tests := []struct {
		name   string
		fields []string
	}{
		{"no fields", nil},
		{"unknown field", []string{"title", "owner"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RollbackFields(context.Background(), primary.RollbackFieldsRequest{
				Namespace: "shop",
				RecordID:  "sess-1",
				StateID:   "PS-cl-1",
				Fields:    tt.fields,
			})
			if !fault.IsValidation(err) {
				t.Errorf("RollbackFields() error = %v, want validation error", err)
			}
		})
	}
}

func TestRollbackFields_Selective(t *testing.T) {
	svc, records, changeLog, _ := newTestRollbackService()
	seedSnapshot(records, changeLog, "cl-1")

	rb, err := svc.RollbackFields(context.Background(), primary.RollbackFieldsRequest{
		Namespace: "shop",
		RecordID:  "sess-1",
		StateID:   "PS-cl-1",
		Fields:    []string{"title"},
	})
	if err != nil {
		t.Fatalf("RollbackFields() error = %v", err)
	}
	if rb.Status != models.RollbackStatusCompleted {
		t.Errorf("Status = %s, want completed", rb.Status)
	}
	if rb.Type != models.RollbackTypeSelective {
		t.Errorf("Type = %s, want selective", rb.Type)
	}
	if len(rb.Fields) != 1 || rb.Fields[0] != "title" {
		t.Errorf("Fields = %v", rb.Fields)
	}

	restored, _ := records.Get(context.Background(), "shop", "sess-1")
	if restored.Title != "Old title" {
		t.Errorf("Title = %s, want snapshot value", restored.Title)
	}
	if restored.Status != models.StatusInProgress {
		t.Errorf("Status = %s, want current value untouched", restored.Status)
	}
}

func TestRollbackFields_ScopedConflictDetection(t *testing.T) {
	svc, records, changeLog, _ := newTestRollbackService()
	current, snapshot := seedSnapshot(records, changeLog, "cl-1")

	// The relationship conflict exists, but a title-only rollback never
	// consults the parent.
	snapshot.ParentID = "phase-gone"
	current.ParentID = "phase-1"
	records.seed(current)

	rb, err := svc.RollbackFields(context.Background(), primary.RollbackFieldsRequest{
		Namespace: "shop",
		RecordID:  "sess-1",
		StateID:   "PS-cl-1",
		Fields:    []string{"title"},
	})
	if err != nil {
		t.Fatalf("RollbackFields() error = %v", err)
	}
	if rb.Status != models.RollbackStatusCompleted {
		t.Errorf("Status = %s, want completed", rb.Status)
	}

	restored, _ := records.Get(context.Background(), "shop", "sess-1")
	if restored.ParentID != "phase-1" {
		t.Errorf("ParentID = %s, must keep current parent", restored.ParentID)
	}
}

func TestCancelRollback(t *testing.T) {
	svc, _, _, rollbacks := newTestRollbackService()
	rollbacks.rollbacks["rb-1"] = &models.Rollback{
		ID:        "rb-1",
		Namespace: "shop",
		RecordID:  "sess-1",
		Status:    models.RollbackStatusConflict,
	}

	rb, err := svc.CancelRollback(context.Background(), "shop", "rb-1")
	if err != nil {
		t.Fatalf("CancelRollback() error = %v", err)
	}
	if rb.Status != models.RollbackStatusCancelled {
		t.Errorf("Status = %s, want cancelled", rb.Status)
	}
}

func TestCancelRollback_CompletedIsTerminal(t *testing.T) {
	svc, _, _, rollbacks := newTestRollbackService()
	rollbacks.rollbacks["rb-1"] = &models.Rollback{
		ID:        "rb-1",
		Namespace: "shop",
		RecordID:  "sess-1",
		Status:    models.RollbackStatusCompleted,
	}

	_, err := svc.CancelRollback(context.Background(), "shop", "rb-1")
	if !fault.IsValidation(err) {
		t.Errorf("CancelRollback() error = %v, want validation error", err)
	}
}

func TestCancelRollback_NotFound(t *testing.T) {
	svc, _, _, _ := newTestRollbackService()

	_, err := svc.CancelRollback(context.Background(), "shop", "rb-404")
	if !fault.IsNotFound(err) {
		t.Errorf("CancelRollback() error = %v, want not-found error", err)
	}
}
