package application

import (
	"fmt"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// emptyCollection is the payload of a freshly initialized store.
var emptyCollection = []byte("[]")

// Initialize performs first-run setup: an encrypted empty record collection
// under a fresh data key, and the login secret under its own key. It refuses
// to touch an existing store.
func Initialize(store *Envelope, gate *LoginGate, secret string) error {
	exists, err := store.Exists()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if exists {
		return fmt.Errorf("initialize: %w", model.ErrAlreadyInitialized)
	}

	// Validate the secret before any file is written.
	if len(secret) < MinSecretLength {
		return fmt.Errorf("initialize: secret must be at least %d characters: %w", MinSecretLength, model.ErrValidation)
	}

	// The store blob is written last: until it exists, a failed run can be
	// retried from scratch.
	if err := gate.SetSecret(secret); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if err := store.Create(emptyCollection); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return nil
}
