package model

import "errors"

// Sentinel errors shared by every layer. Adapters and services wrap them with
// context via fmt.Errorf("...: %w", err); callers match with errors.Is.
var (
	// ErrValidation is returned for bad caller input: an unknown or immutable
	// field name, a search threshold outside [0,1], a negative id.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrIntegrity is returned when a blob cannot be decrypted or decoded:
	// wrong key, corrupted or truncated ciphertext, malformed payload.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrStorageNotFound is returned when the key file or the data file does
	// not exist. It is never reported for a file that exists but is broken.
	ErrStorageNotFound = errors.New("storage not found")

	// ErrAccessDenied is returned by the login gate on a wrong secret.
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyInitialized is returned by first-run initialization when a
	// store already exists at the configured path.
	ErrAlreadyInitialized = errors.New("store already initialized")
)
