package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"jobtrack/internal/tracker"
)

type memorySnapshot struct {
	data    []byte
	version int64
}

// MemoryVault keeps snapshots in a map. It is meant for tests and for
// trying jt without external storage. Safe for concurrent use.
type MemoryVault struct {
	name      string
	mu        sync.RWMutex
	snapshots map[string]memorySnapshot // "ownerID/name" -> snapshot
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:      name,
		snapshots: make(map[string]memorySnapshot),
	}
}

func snapshotKey(ownerID, name string) string {
	return ownerID + "/" + name
}

// PutSnapshot stores a snapshot, replacing any previous one under the same
// owner and name.
func (m *MemoryVault) PutSnapshot(ownerID, name string, r io.Reader, size int64, version int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshotKey(ownerID, name)] = memorySnapshot{data: data, version: version}
	return nil
}

// GetSnapshot writes the stored snapshot to w.
func (m *MemoryVault) GetSnapshot(ownerID, name string, w io.Writer) error {
	m.mu.RLock()
	snap, ok := m.snapshots[snapshotKey(ownerID, name)]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("snapshot %q not found for owner: %s", name, ownerID)
	}

	if _, err := io.Copy(w, bytes.NewReader(snap.data)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// GetSnapshotVersion returns 0 when nothing is stored.
func (m *MemoryVault) GetSnapshotVersion(ownerID, name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshots[snapshotKey(ownerID, name)].version, nil
}

func (m *MemoryVault) ValidateSetup() error {
	return nil
}

var _ tracker.Vault = (*MemoryVault)(nil)
