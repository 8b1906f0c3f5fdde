package testutil

import (
	"jobtrack/internal/tracker"
	"jobtrack/internal/vault"
)

// NewTestVault creates a new in-memory snapshot vault for testing.
func NewTestVault() tracker.Vault {
	return vault.NewMemoryVault("test-vault")
}
