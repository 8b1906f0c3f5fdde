package app

import (
	"fmt"
	"os"
	"path/filepath"

	"jobtrack/internal/config"
	"jobtrack/internal/database"
	"jobtrack/internal/encryption"
	"jobtrack/internal/tracker"
	"jobtrack/internal/vault"
)

// PassphraseFunc supplies the key passphrase. It is only called when the
// snapshot is encrypted.
type PassphraseFunc func() (string, error)

// PullSnapshot replaces the local database with the vault's latest snapshot
// and returns the snapshot version. A local database holding newer
// operations than the snapshot is only replaced when force is set.
func PullSnapshot(cfg *config.Config, passphrase PassphraseFunc, force bool) (int64, error) {
	if len(cfg.Vaults) == 0 {
		return 0, fmt.Errorf("no vaults configured")
	}
	v, err := vault.NewVaultFromConfig(cfg.Vaults[0])
	if err != nil {
		return 0, fmt.Errorf("creating vault: %w", err)
	}
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return 0, fmt.Errorf("creating encryptor: %w", err)
	}
	return pullSnapshot(cfg, v, enc, passphrase, force)
}

func pullSnapshot(cfg *config.Config, v tracker.Vault, enc tracker.Encryptor, passphrase PassphraseFunc, force bool) (int64, error) {
	dest := database.Path(cfg.Database, cfg.OwnerID)
	if dest == "" {
		return 0, fmt.Errorf("snapshot pull requires a sqlite database with data_dir set")
	}

	version, err := v.GetSnapshotVersion(cfg.OwnerID, snapshotName)
	if err != nil {
		return 0, fmt.Errorf("checking remote snapshot version: %w", err)
	}
	if version == 0 {
		return 0, fmt.Errorf("no snapshot stored for owner %s", cfg.OwnerID)
	}

	if !force {
		if err := checkLocalNotAhead(dest, version); err != nil {
			return 0, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, fmt.Errorf("creating data directory: %w", err)
	}
	// Stage next to dest so the final rename stays on one filesystem.
	staged, err := os.CreateTemp(filepath.Dir(dest), ".pull-*.db")
	if err != nil {
		return 0, fmt.Errorf("creating staging file: %w", err)
	}
	stagedPath := staged.Name()
	installed := false
	defer func() {
		if !installed {
			os.Remove(stagedPath)
		}
	}()

	if enc == nil {
		err = v.GetSnapshot(cfg.OwnerID, snapshotName, staged)
	} else {
		err = downloadEncrypted(v, enc, cfg.OwnerID, passphrase, staged)
	}
	if closeErr := staged.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing staging file: %w", closeErr)
	}
	if err != nil {
		return 0, err
	}

	if err := verifySnapshot(stagedPath, version); err != nil {
		return 0, err
	}

	if err := os.Rename(stagedPath, dest); err != nil {
		return 0, fmt.Errorf("installing snapshot: %w", err)
	}
	installed = true
	return version, nil
}

func downloadEncrypted(v tracker.Vault, enc tracker.Encryptor, ownerID string, passphrase PassphraseFunc, dst *os.File) error {
	if passphrase == nil {
		return fmt.Errorf("snapshot is encrypted and no passphrase was provided")
	}
	secret, err := passphrase()
	if err != nil {
		return fmt.Errorf("reading passphrase: %w", err)
	}
	dc, err := enc.Unlock(secret)
	if err != nil {
		return fmt.Errorf("unlocking private key: %w", err)
	}

	cipher, err := os.CreateTemp("", "jt-db-snapshot-*.age")
	if err != nil {
		return fmt.Errorf("creating temp file for encrypted snapshot: %w", err)
	}
	defer os.Remove(cipher.Name())
	defer cipher.Close()

	if err := v.GetSnapshot(ownerID, snapshotName, cipher); err != nil {
		return err
	}
	if _, err := cipher.Seek(0, 0); err != nil {
		return fmt.Errorf("rewinding encrypted snapshot: %w", err)
	}
	if err := dc.Decrypt(cipher, dst); err != nil {
		return fmt.Errorf("decrypting snapshot: %w", err)
	}
	return nil
}

// checkLocalNotAhead refuses to overwrite a local database that has
// operations the snapshot does not.
func checkLocalNotAhead(path string, remoteVersion int64) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	db, err := database.NewSQLiteDatabase(path)
	if err != nil {
		return fmt.Errorf("opening local database: %w", err)
	}
	defer db.Close()

	localMax, err := db.MaxOperationID()
	if err != nil {
		return fmt.Errorf("checking local database version: %w", err)
	}
	if localMax > remoteVersion {
		return fmt.Errorf("local database is ahead of remote (local=%d, remote=%d): use --force to discard local changes", localMax, remoteVersion)
	}
	return nil
}

// verifySnapshot checks that the downloaded file is a jt database at the
// current schema whose newest operation matches the advertised version.
func verifySnapshot(path string, version int64) error {
	db, err := database.NewSQLiteDatabase(path)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer db.Close()

	if err := db.CheckMigrations(); err != nil {
		return fmt.Errorf("snapshot schema: %w", err)
	}
	maxID, err := db.MaxOperationID()
	if err != nil {
		return fmt.Errorf("reading snapshot operations: %w", err)
	}
	if maxID != version {
		return fmt.Errorf("snapshot version mismatch: metadata says %d, database has %d", version, maxID)
	}
	return nil
}
