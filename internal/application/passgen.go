package application

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.?/"
)

// DefaultPasswordLength is used when PasswordOptions.Length is zero.
const DefaultPasswordLength = 20

// PasswordOptions selects length and character classes for GeneratePassword.
type PasswordOptions struct {
	Length  int
	Lower   bool
	Upper   bool
	Digits  bool
	Symbols bool
}

// DefaultPasswordOptions enables every character class.
func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{Length: DefaultPasswordLength, Lower: true, Upper: true, Digits: true, Symbols: true}
}

// GeneratePassword returns a random password containing at least one
// character from every enabled class.
func GeneratePassword(opts PasswordOptions) (string, error) {
	return generatePassword(rand.Reader, opts)
}

func generatePassword(r io.Reader, opts PasswordOptions) (string, error) {
	if opts.Length == 0 {
		opts.Length = DefaultPasswordLength
	}

	var classes []string
	for _, c := range []struct {
		on    bool
		chars string
	}{
		{opts.Lower, lowerChars},
		{opts.Upper, upperChars},
		{opts.Digits, digitChars},
		{opts.Symbols, symbolChars},
	} {
		if c.on {
			classes = append(classes, c.chars)
		}
	}
	if len(classes) == 0 {
		return "", fmt.Errorf("no character class enabled: %w", model.ErrValidation)
	}
	if opts.Length < 4 || opts.Length < len(classes) {
		return "", fmt.Errorf("password length %d too short: %w", opts.Length, model.ErrValidation)
	}

	var all string
	for _, c := range classes {
		all += c
	}

	out := make([]byte, opts.Length)
	for i := range out {
		// One guaranteed character per class, the rest from the union.
		set := all
		if i < len(classes) {
			set = classes[i]
		}
		b, err := pick(r, set)
		if err != nil {
			return "", err
		}
		out[i] = b
	}

	// Fisher-Yates so the guaranteed characters are not always first.
	for i := len(out) - 1; i > 0; i-- {
		j, err := randInt(r, i+1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func pick(r io.Reader, set string) (byte, error) {
	i, err := randInt(r, len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randInt(r io.Reader, n int) (int, error) {
	v, err := rand.Int(r, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("rand: %w", err)
	}
	return int(v.Int64()), nil
}
