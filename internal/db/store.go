// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/toeirei/vaultpass/internal/model"
)

// Store defines every storage operation the persistence service needs.
// Implementations must treat soft-deleted rows as absent for all reads
// except ExportBackup.
type Store interface {
	// Credential rows
	ListCredentials(ctx context.Context) ([]model.StoredCredential, error)
	GetCredential(ctx context.Context, id string) (model.StoredCredential, error)
	InsertCredential(ctx context.Context, c model.StoredCredential) error
	UpdateCredential(ctx context.Context, c model.StoredCredential) error
	SoftDeleteCredential(ctx context.Context, id string) error

	// Vault metadata; GetVaultMeta returns (nil, nil) when no vault exists.
	GetVaultMeta(ctx context.Context) (*model.VaultMeta, error)
	SaveVaultMeta(ctx context.Context, m model.VaultMeta) error

	// Wipe removes every row from every vault table.
	Wipe(ctx context.Context) error

	// Backup
	ExportBackup(ctx context.Context) (*model.BackupData, error)
	ImportBackup(ctx context.Context, data *model.BackupData, full bool) error

	Close() error
}
