package encryption

import (
	"fmt"

	"jobtrack/internal/config"
	"jobtrack/internal/tracker"
)

// NewEncryptorFromConfig returns the configured Encryptor. Type "none" (or
// empty) returns nil: snapshots are stored unencrypted.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (tracker.Encryptor, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "age":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
