// Package filestore implements the SealedFile port on the local filesystem.
package filestore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/credstash/internal/domain/model"
	"github.com/ericfisherdev/credstash/internal/domain/port/driven"
)

// DirMode is applied to directories created for key and data files.
const DirMode = 0o700

// Compile-time interface satisfaction check.
var _ driven.SealedFile = (*Pair)(nil)

// Pair is a key file plus a data file. Writes go to a temporary file in the
// same directory which is then renamed over the target, so a crash mid-write
// leaves the previous content intact.
type Pair struct {
	KeyPath  string
	DataPath string
}

// NewPair creates a Pair for the given key and data paths.
func NewPair(keyPath, dataPath string) *Pair {
	return &Pair{KeyPath: keyPath, DataPath: dataPath}
}

// ReadKey returns the raw key material.
func (p *Pair) ReadKey() ([]byte, error) {
	return readFile(p.KeyPath, "key")
}

// ReadBlob returns the raw ciphertext.
func (p *Pair) ReadBlob() ([]byte, error) {
	return readFile(p.DataPath, "data")
}

// WriteKey atomically replaces the key file.
func (p *Pair) WriteKey(key []byte) error {
	return writeFile(p.KeyPath, "key", key)
}

// WriteBlob atomically replaces the data file.
func (p *Pair) WriteBlob(blob []byte) error {
	return writeFile(p.DataPath, "data", blob)
}

// Exists reports whether the data file is present.
func (p *Pair) Exists() (bool, error) {
	_, err := os.Stat(p.DataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat data file %q: %w", p.DataPath, err)
	}
	return true, nil
}

func readFile(path, kind string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s file %q: %w", kind, path, model.ErrStorageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s file %q: %w", kind, path, err)
	}
	return b, nil
}

func writeFile(path, kind string, b []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, DirMode); err != nil {
			return fmt.Errorf("create directory for %s file: %w", kind, err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("write %s file %q: %w", kind, path, err)
	}
	return nil
}
