package app

import (
	"context"
	"sort"
	"time"

	"github.com/example/plank/internal/fault"
	"github.com/example/plank/internal/models"
	"github.com/example/plank/internal/ports/secondary"
)

// Ensure the mocks implement the secondary ports
var (
	_ secondary.RecordRepository    = (*mockRecordRepository)(nil)
	_ secondary.ChangeLogRepository = (*mockChangeLogRepository)(nil)
	_ secondary.RollbackRepository  = (*mockRollbackRepository)(nil)
	_ secondary.CitationRepository  = (*mockCitationRepository)(nil)
)

// mockRecordRepository implements secondary.RecordRepository for testing.
type mockRecordRepository struct {
	records   map[string]*models.Record
	putCalls  int
	getErr    error
	putErr    error
	existsErr error
}

func newMockRecordRepository() *mockRecordRepository {
	return &mockRecordRepository{records: make(map[string]*models.Record)}
}

func recordKey(ns, id string) string { return ns + "/" + id }

// seed stores a record directly, bypassing error injection.
func (m *mockRecordRepository) seed(rec *models.Record) {
	m.records[recordKey(rec.Namespace, rec.ID)] = rec.Clone()
}

func (m *mockRecordRepository) Get(ctx context.Context, ns, id string) (*models.Record, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if rec, ok := m.records[recordKey(ns, id)]; ok {
		return rec.Clone(), nil
	}
	return nil, fault.NotFound("record", id)
}

func (m *mockRecordRepository) Put(ctx context.Context, rec *models.Record) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.putCalls++
	m.records[recordKey(rec.Namespace, rec.ID)] = rec.Clone()
	return nil
}

func (m *mockRecordRepository) Exists(ctx context.Context, ns, id string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.records[recordKey(ns, id)]
	return ok, nil
}

func (m *mockRecordRepository) ListChildren(ctx context.Context, ns, parentID string) ([]*models.Record, error) {
	var out []*models.Record
	for _, rec := range m.records {
		if rec.Namespace == ns && rec.ParentID == parentID {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRecordRepository) ListAll(ctx context.Context, ns string) ([]*models.Record, error) {
	var out []*models.Record
	for _, rec := range m.records {
		if rec.Namespace == ns {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// mockChangeLogRepository implements secondary.ChangeLogRepository for
// testing. Entries are held in append order.
type mockChangeLogRepository struct {
	entries   []*models.ChangeLogEntry
	appendErr error
}

func newMockChangeLogRepository() *mockChangeLogRepository {
	return &mockChangeLogRepository{}
}

func (m *mockChangeLogRepository) Append(ctx context.Context, entry *models.ChangeLogEntry) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	entry.Seq = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockChangeLogRepository) GetByID(ctx context.Context, ns, id string) (*models.ChangeLogEntry, error) {
	for _, e := range m.entries {
		if e.Namespace == ns && e.ID == id {
			return e, nil
		}
	}
	return nil, fault.NotFound("change log entry", id)
}

func (m *mockChangeLogRepository) ListByRecord(ctx context.Context, ns, recordID string) ([]*models.ChangeLogEntry, error) {
	var out []*models.ChangeLogEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.Namespace == ns && e.RecordID == recordID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockChangeLogRepository) ListAll(ctx context.Context, ns string) ([]*models.ChangeLogEntry, error) {
	var out []*models.ChangeLogEntry
	for _, e := range m.entries {
		if e.Namespace == ns {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockChangeLogRepository) MarkFinal(ctx context.Context, id string) error {
	for _, e := range m.entries {
		if e.ID == id {
			e.Provisional = false
			return nil
		}
	}
	return fault.NotFound("change log entry", id)
}

// lastEntry returns the most recently appended entry, or nil.
func (m *mockChangeLogRepository) lastEntry() *models.ChangeLogEntry {
	if len(m.entries) == 0 {
		return nil
	}
	return m.entries[len(m.entries)-1]
}

// mockRollbackRepository implements secondary.RollbackRepository for
// testing. ApplyRestore mirrors the real transaction by writing through
// the linked record and change log mocks.
type mockRollbackRepository struct {
	records   *mockRecordRepository
	changeLog *mockChangeLogRepository
	rollbacks map[string]*models.Rollback
	appendErr error
	applyErr  error
}

func newMockRollbackRepository(records *mockRecordRepository, changeLog *mockChangeLogRepository) *mockRollbackRepository {
	return &mockRollbackRepository{
		records:   records,
		changeLog: changeLog,
		rollbacks: make(map[string]*models.Rollback),
	}
}

func (m *mockRollbackRepository) Append(ctx context.Context, rb *models.Rollback) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.rollbacks[rb.ID] = rb
	return nil
}

func (m *mockRollbackRepository) GetByID(ctx context.Context, ns, id string) (*models.Rollback, error) {
	if rb, ok := m.rollbacks[id]; ok && rb.Namespace == ns {
		return rb, nil
	}
	return nil, fault.NotFound("rollback", id)
}

func (m *mockRollbackRepository) ListByRecord(ctx context.Context, ns, recordID string) ([]*models.Rollback, error) {
	var out []*models.Rollback
	for _, rb := range m.rollbacks {
		if rb.Namespace == ns && rb.RecordID == recordID {
			out = append(out, rb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (m *mockRollbackRepository) UpdateStatus(ctx context.Context, ns, id, status string) error {
	rb, ok := m.rollbacks[id]
	if !ok || rb.Namespace != ns {
		return fault.NotFound("rollback", id)
	}
	rb.Status = status
	return nil
}

func (m *mockRollbackRepository) ApplyRestore(ctx context.Context, req secondary.ApplyRestoreRequest) error {
	if m.applyErr != nil {
		return m.applyErr
	}
	if err := m.records.Put(ctx, req.Restored); err != nil {
		return err
	}
	if err := m.changeLog.Append(ctx, req.LogEntry); err != nil {
		return err
	}
	m.rollbacks[req.Rollback.ID] = req.Rollback
	return nil
}

// mockCitationRepository implements secondary.CitationRepository for testing.
type mockCitationRepository struct {
	citations map[string]*models.Citation
	createErr error
}

func newMockCitationRepository() *mockCitationRepository {
	return &mockCitationRepository{citations: make(map[string]*models.Citation)}
}

func (m *mockCitationRepository) Create(ctx context.Context, c *models.Citation) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.citations[c.ID] = c
	return nil
}

func (m *mockCitationRepository) GetByID(ctx context.Context, ns, id string) (*models.Citation, error) {
	if c, ok := m.citations[id]; ok && c.Namespace == ns {
		return c, nil
	}
	return nil, fault.NotFound("citation", id)
}

func (m *mockCitationRepository) Query(ctx context.Context, f secondary.CitationFilters) ([]*models.Citation, error) {
	var out []*models.Citation
	for _, c := range m.citations {
		if f.Namespace != "" && c.Namespace != f.Namespace {
			continue
		}
		if f.RecordID != "" && c.RecordID != f.RecordID {
			continue
		}
		if f.ChangeLogID != "" && c.ChangeLogID != f.ChangeLogID {
			continue
		}
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		if f.Priority != "" && c.Priority != f.Priority {
			continue
		}
		if f.Context != "" && !containsTag(c.Context, f.Context) {
			continue
		}
		if f.Unreviewed && (c.Reviewed() || c.Dismissed) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (m *mockCitationRepository) MarkReviewed(ctx context.Context, ns, id string, at time.Time) error {
	c, ok := m.citations[id]
	if !ok || c.Namespace != ns {
		return fault.NotFound("citation", id)
	}
	if c.ReviewedAt == nil {
		c.ReviewedAt = &at
	}
	return nil
}

func (m *mockCitationRepository) MarkDismissed(ctx context.Context, ns, id string) error {
	c, ok := m.citations[id]
	if !ok || c.Namespace != ns {
		return fault.NotFound("citation", id)
	}
	c.Dismissed = true
	return nil
}
