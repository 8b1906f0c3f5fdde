package vault

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"jobtrack/internal/tracker"
)

// FileSystemVault stores snapshots under a local directory, typically a
// mounted backup drive or a synced folder:
//
//	<root>/
//	  snapshots/
//	    <ownerID>/
//	      <name>          (snapshot bytes)
//	      <name>.version  (decimal version)
type FileSystemVault struct {
	name         string
	root         string
	snapshotsDir string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	snapshotsDir := filepath.Join(root, "snapshots")
	if err := os.MkdirAll(snapshotsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshots directory: %w", err)
	}

	return &FileSystemVault{
		name:         name,
		root:         root,
		snapshotsDir: snapshotsDir,
	}, nil
}

func (v *FileSystemVault) snapshotPath(ownerID, name string) (string, error) {
	for _, part := range []string{ownerID, name} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("invalid snapshot path component: %q", part)
		}
	}
	return filepath.Join(v.snapshotsDir, ownerID, name), nil
}

// PutSnapshot writes the snapshot atomically, then records its version.
func (v *FileSystemVault) PutSnapshot(ownerID, name string, r io.Reader, size int64, version int64) error {
	dest, err := v.snapshotPath(ownerID, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create owner directory: %w", err)
	}

	if err := writeFileAtomic(dest, r, size); err != nil {
		return err
	}

	versionData := strconv.FormatInt(version, 10)
	if err := writeFileAtomic(dest+".version", strings.NewReader(versionData), int64(len(versionData))); err != nil {
		return fmt.Errorf("writing version file: %w", err)
	}
	return nil
}

// GetSnapshot copies the stored snapshot to w.
func (v *FileSystemVault) GetSnapshot(ownerID, name string, w io.Writer) error {
	src, err := v.snapshotPath(ownerID, name)
	if err != nil {
		return err
	}

	f, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("snapshot %q not found for owner: %s", name, ownerID)
		}
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	return nil
}

// GetSnapshotVersion returns 0 if no version file exists.
func (v *FileSystemVault) GetSnapshotVersion(ownerID, name string) (int64, error) {
	path, err := v.snapshotPath(ownerID, name)
	if err != nil {
		return 0, err
	}

	data, err := os.ReadFile(path + ".version")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading version file: %w", err)
	}

	version, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

// ValidateSetup checks that the vault directories exist.
func (v *FileSystemVault) ValidateSetup() error {
	for _, dir := range []string{v.root, v.snapshotsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}
	return nil
}

// writeFileAtomic writes r to a temp file next to dest and renames it into
// place once exactly expectedSize bytes have been written.
func writeFileAtomic(dest string, r io.Reader, expectedSize int64) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}

var _ tracker.Vault = (*FileSystemVault)(nil)
