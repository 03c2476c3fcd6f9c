// Package crypto implements the Cipher port with AES-256-GCM.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/ericfisherdev/credstash/internal/domain/model"
	"github.com/ericfisherdev/credstash/internal/domain/port/driven"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// FormatVersion is the first byte of every blob. It must be incremented for
// any change that breaks compatibility with existing blobs.
const FormatVersion byte = 1

// Compile-time interface satisfaction check.
var _ driven.Cipher = (*Codec)(nil)

// Codec is the AES-256-GCM implementation of the Cipher port.
//
// Blob layout: version (1 byte) || nonce (12 bytes) || ciphertext || tag (16 bytes).
// The version byte is authenticated as additional data.
type Codec struct {
	rand io.Reader
}

// NewCodec creates a Codec drawing keys and nonces from crypto/rand.
func NewCodec() *Codec {
	return &Codec{rand: rand.Reader}
}

// GenerateKey returns a fresh 32-byte key.
func (c *Codec) GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(c.rand, key); err != nil {
		return nil, fmt.Errorf("rand key: %w", err)
	}
	return key, nil
}

// Encrypt seals plaintext under key.
func (c *Codec) Encrypt(key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 1+gcm.NonceSize(), 1+gcm.NonceSize()+len(plaintext)+gcm.Overhead())
	out[0] = FormatVersion
	nonce := out[1:]
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return nil, fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends to out, producing: version || nonce || ciphertext || tag.
	return gcm.Seal(out, nonce, plaintext, out[:1]), nil
}

// Decrypt opens a blob produced by Encrypt. Every failure wraps
// model.ErrIntegrity.
func (c *Codec) Decrypt(key, blob []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIntegrity, err)
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < 1+nonceSize+gcm.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", model.ErrIntegrity)
	}
	if blob[0] != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported blob version %d", model.ErrIntegrity, blob[0])
	}

	nonce, ciphertext := blob[1:1+nonceSize], blob[1+nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, blob[:1])
	if err != nil {
		return nil, fmt.Errorf("%w: gcm.Open: %v", model.ErrIntegrity, err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, errors.New("encryption key must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
