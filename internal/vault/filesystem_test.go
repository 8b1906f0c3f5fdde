package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileSystemVault(t *testing.T) {
	t.Run("creates directory structure", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "vault")

		v, err := NewFileSystemVault("test", root)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(root, "snapshots")); err != nil {
			t.Errorf("snapshots directory not created: %v", err)
		}
		if v.name != "test" {
			t.Errorf("name = %q, want %q", v.name, "test")
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		if _, err := NewFileSystemVault("test", t.TempDir()); err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
	})
}

func TestFileSystemVault_Layout(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	if err := v.PutSnapshot("owner-1", "jt.db", strings.NewReader("data"), 4, 42); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}

	snapshot := filepath.Join(root, "snapshots", "owner-1", "jt.db")
	if _, err := os.Stat(snapshot); err != nil {
		t.Errorf("snapshot file missing: %v", err)
	}
	version, err := os.ReadFile(snapshot + ".version")
	if err != nil {
		t.Fatalf("reading version file: %v", err)
	}
	if string(version) != "42" {
		t.Errorf("version file = %q, want %q", version, "42")
	}

	entries, err := os.ReadDir(filepath.Dir(snapshot))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileSystemVault_FailedWriteKeepsPrevious(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	if err := v.PutSnapshot("owner-1", "jt.db", strings.NewReader("good"), 4, 1); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}
	if err := v.PutSnapshot("owner-1", "jt.db", strings.NewReader("short"), 99, 2); err == nil {
		t.Fatal("PutSnapshot() expected size mismatch error")
	}

	data, err := os.ReadFile(filepath.Join(root, "snapshots", "owner-1", "jt.db"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "good" {
		t.Errorf("snapshot = %q, want %q", data, "good")
	}
	if version, _ := v.GetSnapshotVersion("owner-1", "jt.db"); version != 1 {
		t.Errorf("GetSnapshotVersion() = %d, want 1", version)
	}
}

func TestFileSystemVault_RejectsPathTraversal(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	tests := []struct {
		owner string
		name  string
	}{
		{owner: "..", name: "jt.db"},
		{owner: "owner-1", name: "../../etc/passwd"},
		{owner: "", name: "jt.db"},
		{owner: "owner-1", name: `a\b`},
	}
	for _, tt := range tests {
		if err := v.PutSnapshot(tt.owner, tt.name, strings.NewReader("x"), 1, 1); err == nil {
			t.Errorf("PutSnapshot(%q, %q) expected error", tt.owner, tt.name)
		}
	}
}

func TestFileSystemVault_ValidateSetup(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	if err := os.RemoveAll(filepath.Join(root, "snapshots")); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}
	if err := v.ValidateSetup(); err == nil {
		t.Error("ValidateSetup() expected error after snapshots dir removed")
	}
}
