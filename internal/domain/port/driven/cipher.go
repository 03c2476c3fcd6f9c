package driven

// Cipher defines the driven port for symmetric authenticated encryption.
// Blobs produced by Encrypt are self-contained (nonce and tag embedded) and
// opaque to callers.
type Cipher interface {
	// GenerateKey returns fresh key material suitable for Encrypt/Decrypt.
	GenerateKey() ([]byte, error)

	// Encrypt seals plaintext under key.
	Encrypt(key, plaintext []byte) ([]byte, error)

	// Decrypt opens a blob produced by Encrypt. Any failure to authenticate
	// (wrong key, corrupted or truncated blob) returns an error wrapping
	// model.ErrIntegrity.
	Decrypt(key, blob []byte) ([]byte, error)
}
