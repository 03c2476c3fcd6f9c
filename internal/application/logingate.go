package application

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// MinSecretLength is the shortest login secret SetSecret accepts.
const MinSecretLength = 8

// LoginGate protects access to the store with a secret. The opaque string
// sealed in its envelope is the bcrypt hash of the secret, never the secret
// itself.
type LoginGate struct {
	envelope *Envelope
	cost     int
}

// NewLoginGate creates a LoginGate over its own envelope.
func NewLoginGate(envelope *Envelope) *LoginGate {
	return &LoginGate{envelope: envelope, cost: bcrypt.DefaultCost}
}

// Initialized reports whether a secret has been stored.
func (g *LoginGate) Initialized() (bool, error) {
	return g.envelope.Exists()
}

// SetSecret stores the first secret under a freshly generated key.
func (g *LoginGate) SetSecret(secret string) error {
	hash, err := g.hash(secret)
	if err != nil {
		return fmt.Errorf("set login secret: %w", err)
	}
	if err := g.envelope.Create(hash); err != nil {
		return fmt.Errorf("set login secret: %w", err)
	}
	return nil
}

// Verify checks secret against the stored hash. A mismatch returns
// ErrAccessDenied; a broken envelope returns ErrIntegrity or
// ErrStorageNotFound.
func (g *LoginGate) Verify(secret string) error {
	hash, err := g.envelope.Open()
	if err != nil {
		return fmt.Errorf("verify login secret: %w", err)
	}
	err = bcrypt.CompareHashAndPassword(hash, []byte(secret))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return fmt.Errorf("verify login secret: %w", model.ErrAccessDenied)
	default:
		return fmt.Errorf("verify login secret: %w: %v", model.ErrIntegrity, err)
	}
}

// ChangeSecret replaces the secret after verifying the current one. The
// envelope key is rotated so the new hash is never sealed under the old key.
func (g *LoginGate) ChangeSecret(current, next string) error {
	if err := g.Verify(current); err != nil {
		return fmt.Errorf("change login secret: %w", err)
	}
	hash, err := g.hash(next)
	if err != nil {
		return fmt.Errorf("change login secret: %w", err)
	}
	if err := g.envelope.Rotate(hash); err != nil {
		return fmt.Errorf("change login secret: %w", err)
	}
	return nil
}

func (g *LoginGate) hash(secret string) ([]byte, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("secret must be at least %d characters: %w", MinSecretLength, model.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), g.cost)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}
	return hash, nil
}
