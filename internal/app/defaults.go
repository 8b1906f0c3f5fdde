package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// pathEnv holds the environment variables that relocate jt's files.
type pathEnv struct {
	ConfigPath string `env:"JT_CONFIG_PATH"`
	Home       string `env:"JT_HOME"`
}

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - JT_CONFIG_PATH: config file location (default: ~/.config/jt.toml)
//   - JT_HOME: base directory for jt data (default: ~/.local/share/jt)
func GetDefaults() (map[string]string, error) {
	var e pathEnv
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	configPath := e.ConfigPath
	baseDir := e.Home
	if configPath == "" || baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		if configPath == "" {
			configPath = filepath.Join(homeDir, ".config", "jt.toml")
		}
		if baseDir == "" {
			baseDir = filepath.Join(homeDir, ".local", "share", "jt")
		}
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}
