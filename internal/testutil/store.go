package testutil

import (
	"context"
	"errors"
	"sync"

	"jobtrack/internal/tracker"
)

// ErrStoreUnavailable is returned by FailingStore when a failure is armed.
var ErrStoreUnavailable = errors.New("store unavailable")

// FailingStore wraps a tracker.Store and fails selected calls on demand.
type FailingStore struct {
	tracker.Store

	mu         sync.Mutex
	failSave   bool
	failLoad   bool
	failDelete bool
}

// NewFailingStore wraps inner. No failures are armed initially.
func NewFailingStore(inner tracker.Store) *FailingStore {
	return &FailingStore{Store: inner}
}

// FailSaves makes every subsequent SaveApplication fail when on is true.
func (s *FailingStore) FailSaves(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSave = on
}

// FailLoads makes every subsequent LoadApplications fail when on is true.
func (s *FailingStore) FailLoads(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLoad = on
}

// FailDeletes makes every subsequent DeleteApplication fail when on is true.
func (s *FailingStore) FailDeletes(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDelete = on
}

func (s *FailingStore) LoadApplications(ctx context.Context, ownerID string) ([]*tracker.Application, error) {
	s.mu.Lock()
	fail := s.failLoad
	s.mu.Unlock()
	if fail {
		return nil, ErrStoreUnavailable
	}
	return s.Store.LoadApplications(ctx, ownerID)
}

func (s *FailingStore) SaveApplication(ctx context.Context, app *tracker.Application) (*tracker.Application, error) {
	s.mu.Lock()
	fail := s.failSave
	s.mu.Unlock()
	if fail {
		return nil, ErrStoreUnavailable
	}
	return s.Store.SaveApplication(ctx, app)
}

func (s *FailingStore) DeleteApplication(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	fail := s.failDelete
	s.mu.Unlock()
	if fail {
		return false, ErrStoreUnavailable
	}
	return s.Store.DeleteApplication(ctx, id)
}
