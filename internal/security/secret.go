// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package security holds the redacting Secret type used for master secrets
// and derived keys, plus the key derivation and sealing primitives used by
// the persistence service.
package security

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
)

const redacted = "[SECRET]"

// Secret holds a master secret or key material. It never prints or
// marshals its contents.
type Secret []byte

// FromString copies in into a new Secret.
func FromString(in string) Secret { return Secret(in) }

// FromBytes copies in into a new Secret.
func FromBytes(in []byte) Secret {
	return append(Secret(nil), in...)
}

func (s Secret) String() string { return redacted }

// Format redacts every verb, %#v included.
func (s Secret) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, redacted)
}

func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }

func (s Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }

// Bytes returns a copy the caller must zero when done.
func (s Secret) Bytes() []byte {
	return append([]byte(nil), s...)
}

// Len is the length in bytes.
func (s Secret) Len() int { return len(s) }

// IsEmpty reports whether s holds no bytes.
func (s Secret) IsEmpty() bool { return len(s) == 0 }

// Equal compares two secrets in constant time.
func (s Secret) Equal(other Secret) bool {
	return subtle.ConstantTimeCompare(s, other) == 1
}

// Zero overwrites the bytes of s. A nil receiver is a no-op.
func (s *Secret) Zero() {
	if s == nil {
		return
	}
	clear(*s)
}
