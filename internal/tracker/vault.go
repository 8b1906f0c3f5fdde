package tracker

import "io"

// Vault stores versioned database snapshots off the local machine.
// All operations stream through io.Reader/io.Writer.
type Vault interface {
	// PutSnapshot stores a named snapshot for an owner.
	// size is the number of bytes that will be read from r.
	// version is stored alongside the snapshot for consistency checks.
	PutSnapshot(ownerID string, name string, r io.Reader, size int64, version int64) error

	// GetSnapshot retrieves a named snapshot for an owner and writes it to w.
	GetSnapshot(ownerID string, name string, w io.Writer) error

	// GetSnapshotVersion returns the version of a named snapshot.
	// Returns 0 if nothing has been stored for this owner/name.
	GetSnapshotVersion(ownerID string, name string) (int64, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
