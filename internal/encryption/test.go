package encryption

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"jobtrack/internal/tracker"
)

// testMagic marks output of TestEncryptor.
var testMagic = []byte("JTTEST\x00\x01")

// TestEncryptor frames data with a fixed marker instead of encrypting it.
// Ciphertext differs from plaintext and round-trips without keys, which is
// all the snapshot pipeline tests need.
type TestEncryptor struct {
	passphrase string
}

var _ tracker.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

// Setup remembers the passphrase so Unlock can reject a different one.
func (e *TestEncryptor) Setup(passphrase string) error {
	e.passphrase = passphrase
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testMagic); err != nil {
		return fmt.Errorf("writing marker: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (tracker.DecryptionContext, error) {
	if e.passphrase != "" && passphrase != e.passphrase {
		return nil, ErrWrongPassphrase
	}
	return testDecryptor{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return true
}

type testDecryptor struct{}

func (testDecryptor) Decrypt(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(testMagic))
	if err != nil || !bytes.Equal(head, testMagic) {
		return fmt.Errorf("input is not TestEncryptor output")
	}
	if _, err := br.Discard(len(testMagic)); err != nil {
		return err
	}
	if _, err := io.Copy(w, br); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
