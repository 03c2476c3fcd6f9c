package driven

// SealedFile defines the driven port for a key/ciphertext file pair. Key
// material and ciphertext live in separate locations; neither is usable
// without the other.
type SealedFile interface {
	// ReadKey returns the stored key. Returns an error wrapping
	// model.ErrStorageNotFound if the key file does not exist.
	ReadKey() ([]byte, error)

	// ReadBlob returns the stored ciphertext. Returns an error wrapping
	// model.ErrStorageNotFound if the data file does not exist.
	ReadBlob() ([]byte, error)

	// WriteKey replaces the key file in full.
	WriteKey(key []byte) error

	// WriteBlob replaces the data file in full.
	WriteBlob(blob []byte) error

	// Exists reports whether the data file is present.
	Exists() (bool, error)
}
