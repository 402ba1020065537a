// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package vaultclient is the typed client of the vault command contract.
// It is the only way the session, cache and editor layers reach the
// persistence service.
package vaultclient // import "github.com/toeirei/vaultpass/internal/vaultclient"

import (
	"context"
	"errors"
	"fmt"

	"github.com/toeirei/vaultpass/internal/command"
	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/security"
)

// ErrNotFound is matched (errors.Is) by failures for ids that do not exist.
var ErrNotFound = errors.New("record not found")

// Client issues contract commands over an Invoker.
type Client struct {
	inv command.Invoker
}

// New returns a Client using inv as transport.
func New(inv command.Invoker) *Client {
	return &Client{inv: inv}
}

func (c *Client) call(ctx context.Context, name command.Name, args, reply any) error {
	err := c.inv.Invoke(ctx, name, args, reply)
	var se *command.ServiceError
	if errors.As(err, &se) && se.NotFound {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

// Reason extracts the user-facing failure reason of err: the service's
// own text for service failures, otherwise the error string.
func Reason(err error) string {
	var se *command.ServiceError
	if errors.As(err, &se) {
		return se.Reason
	}
	return err.Error()
}

// IsServiceError reports whether err was reported by the service, as opposed
// to a transport or encoding failure.
func IsServiceError(err error) bool {
	var se *command.ServiceError
	return errors.As(err, &se)
}

// List returns every live record.
func (c *Client) List(ctx context.Context) ([]model.Credential, error) {
	var recs []command.Record
	if err := c.call(ctx, command.ListPasswords, nil, &recs); err != nil {
		return nil, err
	}
	out := make([]model.Credential, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Credential())
	}
	return out, nil
}

// Get fetches one record from the service.
func (c *Client) Get(ctx context.Context, id string) (model.Credential, error) {
	var r command.Record
	if err := c.call(ctx, command.GetPassword, command.IDArgs{ID: id}, &r); err != nil {
		return model.Credential{}, err
	}
	return r.Credential(), nil
}

// Add creates a record and returns the id assigned by the service.
func (c *Client) Add(ctx context.Context, f model.Fields) (string, error) {
	var reply command.IDArgs
	if err := c.call(ctx, command.AddPassword, command.NewRecordArgs("", f), &reply); err != nil {
		return "", err
	}
	return reply.ID, nil
}

// Update replaces the fields of record id.
func (c *Client) Update(ctx context.Context, id string, f model.Fields) (string, error) {
	var reply command.IDArgs
	if err := c.call(ctx, command.UpdatePassword, command.NewRecordArgs(id, f), &reply); err != nil {
		return "", err
	}
	return reply.ID, nil
}

// Delete removes record id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.call(ctx, command.DeletePassword, command.IDArgs{ID: id}, nil)
}

// Exists reports whether a vault has been initialized.
func (c *Client) Exists(ctx context.Context) (bool, error) {
	var ok bool
	err := c.call(ctx, command.VaultExists, nil, &ok)
	return ok, err
}

// Destroy permanently deletes the vault.
func (c *Client) Destroy(ctx context.Context) error {
	return c.call(ctx, command.DestroyVault, nil, nil)
}

// Register creates a vault protected by master.
func (c *Client) Register(ctx context.Context, master security.Secret, encryptAtRest bool) error {
	args := command.RegisterArgs{MasterPassword: master.Bytes(), EncryptDB: encryptAtRest}
	defer clear(args.MasterPassword)
	return c.call(ctx, command.Register, args, nil)
}

// Login unlocks the vault with master.
func (c *Client) Login(ctx context.Context, master security.Secret) error {
	args := command.LoginArgs{MasterPassword: master.Bytes()}
	defer clear(args.MasterPassword)
	return c.call(ctx, command.Login, args, nil)
}
