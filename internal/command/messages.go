// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package command

import (
	"fmt"
	"time"

	"github.com/toeirei/vaultpass/internal/model"
)

// Name identifies a command of the contract.
type Name string

const (
	ListPasswords  Name = "get_passwords"
	GetPassword    Name = "get_password_by_id"
	AddPassword    Name = "add_password"
	UpdatePassword Name = "update_password"
	DeletePassword Name = "delete_password"
	VaultExists    Name = "is_db_exist"
	DestroyVault   Name = "delete_db_directory"
	Register       Name = "register"
	Login          Name = "login"
)

// Names lists every command in contract order.
var Names = []Name{
	ListPasswords, GetPassword, AddPassword, UpdatePassword, DeletePassword,
	VaultExists, DestroyVault, Register, Login,
}

// Frame is one request on the wire.
type Frame struct {
	Command Name       `cbor:"command"`
	Args    RawMessage `cbor:"args,omitempty"`
}

// Envelope wraps every reply.
type Envelope struct {
	OK       bool       `cbor:"ok"`
	Reason   string     `cbor:"reason,omitempty"`
	NotFound bool       `cbor:"notFound,omitempty"`
	Body     RawMessage `cbor:"body,omitempty"`
}

// IDArgs carries a record id.
type IDArgs struct {
	ID string `cbor:"id"`
}

// RecordArgs carries the editable fields for add_password and
// update_password. ID is empty for add_password.
type RecordArgs struct {
	ID       string `cbor:"id,omitempty"`
	Title    string `cbor:"title"`
	Username string `cbor:"username"`
	Password string `cbor:"password"`
	URL      string `cbor:"url,omitempty"`
	Notes    string `cbor:"notes,omitempty"`
}

// NewRecordArgs builds the arguments for a create (id empty) or update.
func NewRecordArgs(id string, f model.Fields) RecordArgs {
	return RecordArgs{ID: id, Title: f.Title, Username: f.Username, Password: f.Secret, URL: f.URL, Notes: f.Notes}
}

// Fields returns the draft payload.
func (a RecordArgs) Fields() model.Fields {
	return model.Fields{Title: a.Title, Username: a.Username, Secret: a.Password, URL: a.URL, Notes: a.Notes}
}

// RegisterArgs carries the master secret as raw bytes.
type RegisterArgs struct {
	MasterPassword []byte `cbor:"masterPassword"`
	EncryptDB      bool   `cbor:"encryptDb"`
}

// LoginArgs carries the master secret as raw bytes.
type LoginArgs struct {
	MasterPassword []byte `cbor:"masterPassword"`
}

// Record is the wire form of a credential.
type Record struct {
	ID        string     `cbor:"id"`
	Title     string     `cbor:"title"`
	Username  string     `cbor:"username"`
	Password  string     `cbor:"password"`
	URL       string     `cbor:"url,omitempty"`
	Notes     string     `cbor:"notes,omitempty"`
	CreatedAt time.Time  `cbor:"createdAt"`
	UpdatedAt *time.Time `cbor:"updatedAt,omitempty"`
}

// RecordFrom converts a credential to its wire form.
func RecordFrom(c model.Credential) Record {
	r := Record{
		ID: c.ID, Title: c.Title, Username: c.Username, Password: c.Secret,
		URL: c.URL, Notes: c.Notes, CreatedAt: c.CreatedAt,
	}
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		r.UpdatedAt = &t
	}
	return r
}

// Credential converts the wire form back.
func (r Record) Credential() model.Credential {
	c := model.Credential{
		ID:        r.ID,
		Fields:    model.Fields{Title: r.Title, Username: r.Username, Secret: r.Password, URL: r.URL, Notes: r.Notes},
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.UpdatedAt != nil {
		c.UpdatedAt = r.UpdatedAt.UTC()
	}
	return c
}

// ServiceError is a failure reported by the service inside an Envelope.
type ServiceError struct {
	Command  Name
	Reason   string
	NotFound bool
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}
