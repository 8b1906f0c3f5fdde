package testutil

import (
	"jobtrack/internal/encryption"
	"jobtrack/internal/tracker"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() tracker.Encryptor {
	return encryption.NewTestEncryptor()
}
