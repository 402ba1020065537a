// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures shared by the VaultPass
// client layer, the persistence service and the storage backends.
package model // import "github.com/toeirei/vaultpass/internal/model"

import (
	"fmt"
	"time"
)

// MaxNotesLength is the longest notes text (in characters) a record may carry.
const MaxNotesLength = 500

// Fields holds the user-editable part of a credential. A Fields value with no
// owning Credential is a draft: it only ever lives inside the edit session.
type Fields struct {
	Title    string `json:"title"`
	Username string `json:"username"`
	Secret   string `json:"password"`
	URL      string `json:"url,omitempty"`   // empty means absent
	Notes    string `json:"notes,omitempty"` // empty means absent
}

// Credential is a persisted record. ID, CreatedAt and UpdatedAt are assigned
// by the persistence service and never set by the client.
type Credential struct {
	ID string `json:"id"`
	Fields
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"` // zero until the first update
}

// String returns a short, secret-free description for logs.
func (c Credential) String() string {
	return fmt.Sprintf("%s (%s)", c.Title, c.ID)
}

// HasURL reports whether the optional url is present.
func (f Fields) HasURL() bool { return f.URL != "" }

// LastModified returns UpdatedAt when set, otherwise CreatedAt.
func (c Credential) LastModified() time.Time {
	if c.UpdatedAt.IsZero() {
		return c.CreatedAt
	}
	return c.UpdatedAt
}
