package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/caarlos0/env/v11"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		OwnerID:  "owner-abc",
		BaseDir:  "/home/user/.local/share/jt",
		LogDir:   "/home/user/.local/share/jt/log",
		LogLevel: "debug",
		Vaults: []VaultConfig{
			{Type: "filesystem", Name: "local", FSVaultRoot: "/backup/vault"},
			{Type: "s3", Name: "cloud", S3Bucket: "jt-snapshots", S3Region: "eu-west-1"},
		},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  "/home/user/.local/share/jt/keys/jt.pub",
			PrivateKeyPath: "/home/user/.local/share/jt/keys/jt.key",
		},
		Database: DatabaseConfig{Type: "sqlite", DataDir: "/home/user/.local/share/jt/db"},
		Server:   ServerConfig{Addr: "0.0.0.0:9000"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.OwnerID != original.OwnerID {
		t.Errorf("OwnerID = %q, want %q", got.OwnerID, original.OwnerID)
	}
	if got.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", got.LogLevel, "debug")
	}
	if len(got.Vaults) != 2 {
		t.Fatalf("len(Vaults) = %d, want 2", len(got.Vaults))
	}
	if got.Vaults[0].FSVaultRoot != "/backup/vault" {
		t.Errorf("Vaults[0].FSVaultRoot = %q, want %q", got.Vaults[0].FSVaultRoot, "/backup/vault")
	}
	if got.Vaults[1].S3Bucket != "jt-snapshots" {
		t.Errorf("Vaults[1].S3Bucket = %q, want %q", got.Vaults[1].S3Bucket, "jt-snapshots")
	}
	if got.Encryption != original.Encryption {
		t.Errorf("Encryption = %+v, want %+v", got.Encryption, original.Encryption)
	}
	if got.Database != original.Database {
		t.Errorf("Database = %+v, want %+v", got.Database, original.Database)
	}
	if got.Server.Addr != "0.0.0.0:9000" {
		t.Errorf("Server.Addr = %q, want %q", got.Server.Addr, "0.0.0.0:9000")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("owner-1", "/data/jt")

	if cfg.OwnerID != "owner-1" {
		t.Errorf("OwnerID = %q, want %q", cfg.OwnerID, "owner-1")
	}
	if cfg.LogDir != "/data/jt/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/jt/log")
	}
	if cfg.Database.Type != "sqlite" || cfg.Database.DataDir != "/data/jt/db" {
		t.Errorf("Database = %+v, want sqlite in /data/jt/db", cfg.Database)
	}
	if cfg.Encryption.Type != "none" {
		t.Errorf("Encryption.Type = %q, want %q", cfg.Encryption.Type, "none")
	}
	if cfg.Encryption.PublicKeyPath != "/data/jt/keys/jt.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q, want %q", cfg.Encryption.PublicKeyPath, "/data/jt/keys/jt.pub")
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultServerAddr)
	}
	if len(cfg.Vaults) != 0 {
		t.Errorf("len(Vaults) = %d, want 0", len(cfg.Vaults))
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "jt.toml")
		cfg := NewConfig("o1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "jt.toml")
		cfg := NewConfig("o1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Run("overwrites existing file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "jt.toml")
		cfg := NewConfig("o1", dir)
		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		cfg.Encryption.Type = "age"
		if err := Update(path, cfg); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer f.Close()
		got, err := (&Manager{}).Read(f)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if got.Encryption.Type != "age" {
			t.Errorf("Encryption.Type = %q, want %q", got.Encryption.Type, "age")
		}
	})

	t.Run("fails when file is missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.toml")
		if err := Update(path, NewConfig("o1", "/tmp")); err == nil {
			t.Fatal("Update() expected error for missing file")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "jt.toml")
		cfg := NewConfig("read-test", dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want %q", got.Database.Type, "memory")
		}
	})

	t.Run("applies environment overrides", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "jt.toml")
		if err := Init(path, NewConfig("file-owner", dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		t.Setenv("JT_SERVER_ADDR", "127.0.0.1:9999")

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Server.Addr != "127.0.0.1:9999" {
			t.Errorf("Server.Addr = %q, want %q", got.Server.Addr, "127.0.0.1:9999")
		}
		if got.OwnerID != "file-owner" {
			t.Errorf("OwnerID = %q, want %q", got.OwnerID, "file-owner")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/jt.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "no variables leaves config unchanged",
			environ: map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Database.DataDir != "/data/jt/db" {
					t.Errorf("Database.DataDir = %q, want %q", cfg.Database.DataDir, "/data/jt/db")
				}
				if cfg.LogLevel != "info" {
					t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
				}
			},
		},
		{
			name: "overrides data dir and log level",
			environ: map[string]string{
				"JT_DATA_DIR":  "/override/db",
				"JT_LOG_LEVEL": "debug",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Database.DataDir != "/override/db" {
					t.Errorf("Database.DataDir = %q, want %q", cfg.Database.DataDir, "/override/db")
				}
				if cfg.LogLevel != "debug" {
					t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
				}
			},
		},
		{
			name:    "overrides owner",
			environ: map[string]string{"JT_OWNER_ID": "env-owner"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.OwnerID != "env-owner" {
					t.Errorf("OwnerID = %q, want %q", cfg.OwnerID, "env-owner")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("owner-1", "/data/jt")
			if err := applyEnv(cfg, env.Options{Environment: tt.environ}); err != nil {
				t.Fatalf("applyEnv() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
