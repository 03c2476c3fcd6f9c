package application

import (
	"errors"
	"fmt"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// --- Mock implementations ---

// memFile is an in-memory SealedFile.
type memFile struct {
	key       []byte
	blob      []byte
	writeErr  error
	keyErr    error
	keyWrites int
}

func (m *memFile) ReadKey() ([]byte, error) {
	if m.key == nil {
		return nil, fmt.Errorf("key: %w", model.ErrStorageNotFound)
	}
	return append([]byte(nil), m.key...), nil
}

func (m *memFile) ReadBlob() ([]byte, error) {
	if m.blob == nil {
		return nil, fmt.Errorf("data: %w", model.ErrStorageNotFound)
	}
	return append([]byte(nil), m.blob...), nil
}

func (m *memFile) WriteKey(key []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if m.keyErr != nil {
		return m.keyErr
	}
	m.keyWrites++
	m.key = append([]byte(nil), key...)
	return nil
}

func (m *memFile) WriteBlob(blob []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.blob = append([]byte(nil), blob...)
	return nil
}

func (m *memFile) Exists() (bool, error) {
	return m.blob != nil, nil
}

var errDiskFull = errors.New("disk full")
