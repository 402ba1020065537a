// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestSecretRedactionAndJSON(t *testing.T) {
	s := FromString("supersecret")
	if fmt.Sprintf("%v", s) != "[SECRET]" {
		t.Fatalf("unexpected fmt output: %q", fmt.Sprintf("%v", s))
	}
	if fmt.Sprintf("%#v", s) != "[SECRET]" {
		t.Fatalf("unexpected %%#v output: %q", fmt.Sprintf("%#v", s))
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(b) != "\"[SECRET]\"" {
		t.Fatalf("unexpected json marshal: %s", string(b))
	}
}

func TestSecretZero(t *testing.T) {
	s := FromString("abc123")
	(&s).Zero()
	b := s.Bytes()
	for i := range b {
		if b[i] != 0 {
			t.Fatalf("expected zeroed byte at index %d, got %d", i, b[i])
		}
	}
	var nilSecret *Secret
	nilSecret.Zero() // must not panic
}

func TestFromBytes_Copies(t *testing.T) {
	in := []byte("abc")
	s := FromBytes(in)
	in[0] = 'z'
	if string(s.Bytes()) != "abc" {
		t.Fatalf("FromBytes must copy its input")
	}
	if s.Len() != 3 || s.IsEmpty() {
		t.Fatalf("unexpected length/emptiness")
	}
}

func TestSecretEqual(t *testing.T) {
	a, b := FromString("same"), FromString("same")
	if !a.Equal(b) {
		t.Fatal("expected equal secrets")
	}
	if a.Equal(FromString("other")) || a.Equal(nil) {
		t.Fatal("expected different secrets")
	}
	var empty Secret
	if !empty.Equal(FromString("")) {
		t.Fatal("two empty secrets are equal")
	}
}
