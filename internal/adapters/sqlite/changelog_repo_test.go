package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/plank/internal/adapters/sqlite"
	"github.com/example/plank/internal/fault"
	"github.com/example/plank/internal/models"
)

func TestChangeLogRepository_AppendAssignsSeq(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewChangeLogRepository(d)
	ctx := context.Background()

	e1 := seedEntry(t, d, &models.ChangeLogEntry{
		ID: "cl-1", Namespace: "ns1", RecordID: "auth", ChangeType: models.ChangeTypeCreated,
	})
	e2 := seedEntry(t, d, &models.ChangeLogEntry{
		ID: "cl-2", Namespace: "ns1", RecordID: "auth", ChangeType: models.ChangeTypeStatusChange,
	})

	if e1.Seq == 0 || e2.Seq == 0 {
		t.Fatalf("Append() left Seq unset: %d, %d", e1.Seq, e2.Seq)
	}
	if e2.Seq <= e1.Seq {
		t.Errorf("Seq not monotonic: %d then %d", e1.Seq, e2.Seq)
	}

	got, err := repo.GetByID(ctx, "ns1", "cl-2")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ChangeType != models.ChangeTypeStatusChange {
		t.Errorf("ChangeType = %q, want status_change", got.ChangeType)
	}
}

func TestChangeLogRepository_SnapshotRoundTrip(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewChangeLogRepository(d)

	before := testRecord("ns1", "auth", models.TierFeature)
	before.Status = models.StatusPending
	after := before.Clone()
	after.Status = models.StatusInProgress

	seedEntry(t, d, &models.ChangeLogEntry{
		ID: "cl-1", Namespace: "ns1", RecordID: "auth",
		ChangeType: models.ChangeTypeStatusChange,
		Tier:       models.TierFeature,
		Before:     before,
		After:      after,
		Reason:     "kickoff",
	})

	got, err := repo.GetByID(context.Background(), "ns1", "cl-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Before == nil || got.Before.Status != models.StatusPending {
		t.Errorf("Before snapshot = %+v, want status pending", got.Before)
	}
	if got.After == nil || got.After.Status != models.StatusInProgress {
		t.Errorf("After snapshot = %+v, want status in_progress", got.After)
	}
	if got.Reason != "kickoff" {
		t.Errorf("Reason = %q, want kickoff", got.Reason)
	}
}

func TestChangeLogRepository_GetByIDScopedToNamespace(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewChangeLogRepository(d)
	ctx := context.Background()

	seedEntry(t, d, &models.ChangeLogEntry{
		ID: "cl-1", Namespace: "ns1", RecordID: "auth", ChangeType: models.ChangeTypeCreated,
	})

	if _, err := repo.GetByID(ctx, "ns1", "cl-1"); err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, "ns2", "cl-1"); !fault.IsNotFound(err) {
		t.Errorf("GetByID() in other namespace error = %v, want NotFoundError", err)
	}
}

func TestChangeLogRepository_ListOrdering(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewChangeLogRepository(d)
	ctx := context.Background()

	for _, id := range []string{"cl-1", "cl-2", "cl-3"} {
		seedEntry(t, d, &models.ChangeLogEntry{
			ID: id, Namespace: "ns1", RecordID: "auth", ChangeType: models.ChangeTypeFieldUpdate,
		})
	}

	byRecord, err := repo.ListByRecord(ctx, "ns1", "auth")
	if err != nil {
		t.Fatalf("ListByRecord() error = %v", err)
	}
	if len(byRecord) != 3 {
		t.Fatalf("ListByRecord() returned %d entries, want 3", len(byRecord))
	}
	if byRecord[0].ID != "cl-3" {
		t.Errorf("ListByRecord()[0] = %s, want cl-3 (most recent first)", byRecord[0].ID)
	}

	all, err := repo.ListAll(ctx, "ns1")
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if all[0].ID != "cl-1" {
		t.Errorf("ListAll()[0] = %s, want cl-1 (append order)", all[0].ID)
	}
}

func TestChangeLogRepository_MarkFinal(t *testing.T) {
	d := setupTestDB(t)
	repo := sqlite.NewChangeLogRepository(d)
	ctx := context.Background()

	seedEntry(t, d, &models.ChangeLogEntry{
		ID: "cl-1", Namespace: "ns1", RecordID: "auth",
		ChangeType: models.ChangeTypeCreated, Provisional: true,
	})

	if err := repo.MarkFinal(ctx, "cl-1"); err != nil {
		t.Fatalf("MarkFinal() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "ns1", "cl-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Provisional {
		t.Error("entry still provisional after MarkFinal")
	}

	if err := repo.MarkFinal(ctx, "missing"); !fault.IsNotFound(err) {
		t.Errorf("MarkFinal(missing) error = %v, want NotFoundError", err)
	}
}
