// Package memory provides an in-memory punch.Store for tests and dev.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/hours-engine/generic"
	"github.com/warp/hours-engine/punch"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	punches     map[generic.EmployeeID][]punch.Event
	idempotency map[string]bool
}

var _ punch.Store = (*Memory)(nil)

func New() *Memory {
	return &Memory{
		punches:     make(map[generic.EmployeeID][]punch.Event),
		idempotency: make(map[string]bool),
	}
}

// AppendPunch adds a punch, keeping each employee's slice ordered by
// timestamp. Append-only.
func (m *Memory) AppendPunch(_ context.Context, ev punch.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.IdempotencyKey != "" && m.idempotency[ev.IdempotencyKey] {
		return generic.ErrDuplicateIdempotencyKey
	}

	events := m.punches[ev.EmployeeID]

	// Binary search for insertion point
	i := sort.Search(len(events), func(i int) bool {
		return events[i].Timestamp.After(ev.Timestamp)
	})
	events = append(events, punch.Event{})
	copy(events[i+1:], events[i:])
	events[i] = ev
	m.punches[ev.EmployeeID] = events

	if ev.IdempotencyKey != "" {
		m.idempotency[ev.IdempotencyKey] = true
	}
	return nil
}

func (m *Memory) LoadDay(_ context.Context, employeeID generic.EmployeeID, date generic.TimePoint) ([]punch.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []punch.Event
	for _, ev := range m.punches[employeeID] {
		if ev.Date.Equal(date) {
			result = append(result, ev)
		}
	}
	return result, nil
}

func (m *Memory) LoadRange(_ context.Context, employeeID generic.EmployeeID, from, to generic.TimePoint) ([]punch.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []punch.Event
	for _, ev := range m.punches[employeeID] {
		if from.BeforeOrEqual(ev.Date) && ev.Date.BeforeOrEqual(to) {
			result = append(result, ev)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

func (m *Memory) Exists(_ context.Context, idempotencyKey string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.idempotency[idempotencyKey], nil
}
