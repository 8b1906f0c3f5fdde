package database

import (
	"context"
	"fmt"
	"sync"

	"jobtrack/internal/tracker"
)

// MemoryStore is a map-backed tracker.Store. It deep-copies on every read
// and write so callers never share state with the store. Safe for
// concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	apps  map[string]*tracker.Application
	order []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{apps: make(map[string]*tracker.Application)}
}

func (m *MemoryStore) LoadApplications(_ context.Context, ownerID string) ([]*tracker.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*tracker.Application{}
	for _, id := range m.order {
		if app := m.apps[id]; app.OwnerID == ownerID {
			result = append(result, app.Clone())
		}
	}
	return result, nil
}

// SaveApplication stores a copy of app. Child entries already stored are
// kept as they are; only entries beyond the stored length are appended.
func (m *MemoryStore) SaveApplication(_ context.Context, app *tracker.Application) (*tracker.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := app.Clone()
	if existing, ok := m.apps[app.ID]; ok {
		if existing.OwnerID != app.OwnerID {
			return nil, fmt.Errorf("application %s belongs to a different owner", app.ID)
		}
		next.StatusHistory = appendNew(existing.StatusHistory, next.StatusHistory)
		next.NotesList = appendNew(existing.NotesList, next.NotesList)
		next.Activities = appendNew(existing.Activities, next.Activities)
	} else {
		m.order = append(m.order, app.ID)
	}
	m.apps[app.ID] = next
	return next.Clone(), nil
}

func (m *MemoryStore) DeleteApplication(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.apps[id]; !ok {
		return false, nil
	}
	delete(m.apps, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// appendNew keeps stored entries and appends the tail of incoming that is
// longer than stored.
func appendNew[T any](stored, incoming []T) []T {
	out := append([]T{}, stored...)
	if len(incoming) > len(stored) {
		out = append(out, incoming[len(stored):]...)
	}
	return out
}

// Compile-time check that MemoryStore implements tracker.Store interface
var _ tracker.Store = (*MemoryStore)(nil)
