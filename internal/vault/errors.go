// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"errors"
	"fmt"

	"github.com/toeirei/vaultpass/internal/model"
)

// Service errors. Their text is what callers see as the failure reason, so
// it is written for end users.
var (
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrNoVault         = errors.New("please register first")
	ErrInvalidPassword = errors.New("invalid password")
	ErrVaultExists     = errors.New("a vault already exists")
	ErrLocked          = errors.New("vault is locked")
	ErrMissingFields   = errors.New("title, username, and password are required")
	ErrNotesTooLong    = fmt.Errorf("notes cannot exceed %d characters", model.MaxNotesLength)
	ErrNotFound        = errors.New("not found")
)

func notFound(id string) error {
	return fmt.Errorf("password with id %s %w", id, ErrNotFound)
}
