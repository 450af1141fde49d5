// Package crypt seals short strings with AES-GCM authenticated encryption.
//
// The session layer uses it to protect the cookie value: a tampered or
// garbage cookie fails authentication on open and is treated the same as
// no cookie at all.
//
// Output is base64url(nonce || ciphertext || tag), safe for cookies and
// database columns.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrOpen is returned when decryption or authentication fails.
var ErrOpen = errors.New("crypt: open failed")

// Sealer encrypts and decrypts strings under a single derived key.
type Sealer struct {
	key []byte
}

// NewSealer derives a 32-byte AES-256 key from secret via SHA-256.
// The secret must be non-empty.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, errors.New("crypt: empty secret")
	}
	h := sha256.Sum256([]byte(secret))
	return &Sealer{key: h[:]}, nil
}

// Seal encrypts plaintext and returns a base64url string.
func (s *Sealer) Seal(plaintext string) (string, error) {
	gcm, err := s.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}

	// Seal appends ciphertext+tag after the nonce.
	out := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(out), nil
}

// Open decrypts a string produced by Seal. Any tampering, truncation, or
// key mismatch yields ErrOpen.
func (s *Sealer) Open(encoded string) (string, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrOpen
	}

	gcm, err := s.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", ErrOpen
	}

	plain, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", ErrOpen
	}
	return string(plain), nil
}

func (s *Sealer) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}
	return gcm, nil
}
