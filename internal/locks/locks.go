// Package locks provides in-process, per-record mutual exclusion for
// composite operations. Rollbacks acquire the record lock before conflict
// detection and hold it through the write; multi-record acquisitions
// always happen in ascending record-id order so two operations can never
// deadlock on each other.
package locks

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/example/plank/internal/fault"
)

// Manager hands out one binary semaphore per record key. Semaphores are
// created lazily and kept for the process lifetime; the population is
// bounded by the number of records touched.
type Manager struct {
	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

// NewManager creates an empty lock manager.
func NewManager() *Manager {
	return &Manager{sems: make(map[string]*semaphore.Weighted)}
}

func (m *Manager) sem(key string) *semaphore.Weighted {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sems[key]
	if !ok {
		s = semaphore.NewWeighted(1)
		m.sems[key] = s
	}
	return s
}

// Acquire locks the given record ids within a namespace, in ascending id
// order, waiting no longer than the context allows. On success it returns
// a release function; on contention it returns fault.Busy for the record
// that could not be locked, having released everything acquired so far.
func (m *Manager) Acquire(ctx context.Context, ns string, ids ...string) (func(), error) {
	ordered := append([]string(nil), ids...)
	sort.Strings(ordered)
	// Drop duplicates so a record is never locked against itself.
	ordered = dedupe(ordered)

	held := make([]*semaphore.Weighted, 0, len(ordered))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Release(1)
		}
	}

	for _, id := range ordered {
		s := m.sem(ns + "/" + id)
		if err := s.Acquire(ctx, 1); err != nil {
			release()
			return nil, &fault.BusyError{RecordID: id}
		}
		held = append(held, s)
	}

	return release, nil
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
