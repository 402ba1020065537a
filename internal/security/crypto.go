// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// KeyLength is the size of a derived vault key.
	KeyLength = chacha20poly1305.KeySize
	// SaltLength is the size of the per-vault KDF salt.
	SaltLength = 16
)

var (
	// ErrMalformedCiphertext is returned when a sealed value cannot be decoded.
	ErrMalformedCiphertext = errors.New("security: malformed sealed value")
	// ErrDecrypt is returned when authentication of a sealed value fails.
	ErrDecrypt = errors.New("security: unable to open sealed value")
)

// verifierLabel domain-separates the key verifier from any other use of the key.
var verifierLabel = []byte("vaultpass/verifier/v1")

// KDFParams are the argon2id cost parameters stored alongside a vault.
type KDFParams struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultKDFParams returns the argon2id parameters used for new vaults.
func DefaultKDFParams() KDFParams {
	return KDFParams{Time: 3, MemoryKiB: 64 * 1024, Threads: 4}
}

// NewSalt returns SaltLength random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey stretches a master secret into a vault key with argon2id.
func DeriveKey(master Secret, salt []byte, p KDFParams) Secret {
	return Secret(argon2.IDKey(master, salt, p.Time, p.MemoryKiB, p.Threads, KeyLength))
}

// Verifier returns a keyed BLAKE2b digest that proves knowledge of key
// without revealing it.
func Verifier(key Secret) ([]byte, error) {
	h, err := blake2b.New256(key)
	if err != nil {
		return nil, fmt.Errorf("init verifier: %w", err)
	}
	h.Write(verifierLabel)
	return h.Sum(nil), nil
}

// CheckVerifier reports whether key produces the stored verifier.
func CheckVerifier(key Secret, verifier []byte) bool {
	got, err := Verifier(key)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, verifier) == 1
}

// Sealer encrypts and decrypts individual text values with
// XChaCha20-Poly1305. Each sealed value carries its own random nonce.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer builds a Sealer for a derived key.
func NewSealer(key Secret) (*Sealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext and returns base64(nonce || ciphertext).
func (s *Sealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	ns := s.aead.NonceSize()
	if len(raw) < ns+s.aead.Overhead() {
		return "", ErrMalformedCiphertext
	}
	plain, err := s.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
