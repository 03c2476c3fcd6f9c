package application

import (
	"fmt"

	"github.com/ericfisherdev/credstash/internal/domain/port/driven"
)

// Envelope binds a Cipher to one key/ciphertext file pair. The credential
// store and the login gate each own one, so both payloads go through the same
// encryption contract under separate keys.
type Envelope struct {
	cipher driven.Cipher
	file   driven.SealedFile
}

// NewEnvelope creates an Envelope over the given cipher and file pair.
func NewEnvelope(cipher driven.Cipher, file driven.SealedFile) *Envelope {
	return &Envelope{cipher: cipher, file: file}
}

// Exists reports whether the ciphertext file is present.
func (e *Envelope) Exists() (bool, error) {
	return e.file.Exists()
}

// Open reads the key and blob and returns the decrypted payload.
func (e *Envelope) Open() ([]byte, error) {
	key, err := e.file.ReadKey()
	if err != nil {
		return nil, fmt.Errorf("open envelope: %w", err)
	}
	blob, err := e.file.ReadBlob()
	if err != nil {
		return nil, fmt.Errorf("open envelope: %w", err)
	}
	plaintext, err := e.cipher.Decrypt(key, blob)
	if err != nil {
		return nil, fmt.Errorf("open envelope: %w", err)
	}
	return plaintext, nil
}

// Seal encrypts plaintext under the stored key and replaces the blob.
func (e *Envelope) Seal(plaintext []byte) error {
	key, err := e.file.ReadKey()
	if err != nil {
		return fmt.Errorf("seal envelope: %w", err)
	}
	if err := e.seal(key, plaintext); err != nil {
		return fmt.Errorf("seal envelope: %w", err)
	}
	return nil
}

// Create generates a fresh key and writes the key, then the blob. Exists
// reports the blob, so a failed Create leaves nothing that counts as a store.
func (e *Envelope) Create(plaintext []byte) error {
	key, err := e.cipher.GenerateKey()
	if err != nil {
		return fmt.Errorf("create envelope: %w", err)
	}
	if err := e.file.WriteKey(key); err != nil {
		return fmt.Errorf("create envelope: %w", err)
	}
	if err := e.seal(key, plaintext); err != nil {
		return fmt.Errorf("create envelope: %w", err)
	}
	return nil
}

// Rotate replaces the key with a fresh one and re-encrypts plaintext under
// it. The blob is written before the key. If the key write fails the blob is
// sealed again under the old key; a crash between the two writes still
// leaves the pair unreadable, which Open reports as an integrity failure.
func (e *Envelope) Rotate(plaintext []byte) error {
	oldKey, err := e.file.ReadKey()
	if err != nil {
		return fmt.Errorf("rotate envelope: %w", err)
	}
	newKey, err := e.cipher.GenerateKey()
	if err != nil {
		return fmt.Errorf("rotate envelope: %w", err)
	}
	if err := e.seal(newKey, plaintext); err != nil {
		return fmt.Errorf("rotate envelope: %w", err)
	}
	if err := e.file.WriteKey(newKey); err != nil {
		if restoreErr := e.seal(oldKey, plaintext); restoreErr != nil {
			return fmt.Errorf("rotate envelope: write key: %w (restore under old key: %v)", err, restoreErr)
		}
		return fmt.Errorf("rotate envelope: write key: %w", err)
	}
	return nil
}

func (e *Envelope) seal(key, plaintext []byte) error {
	blob, err := e.cipher.Encrypt(key, plaintext)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	return e.file.WriteBlob(blob)
}
