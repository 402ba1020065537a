// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/toeirei/vaultpass/internal/model"
	"github.com/uptrace/bun"
)

// metaRowID is the primary key of the single vault_meta row.
const metaRowID = 1

// CredentialModel maps the `credentials` table for Bun queries.
type CredentialModel struct {
	bun.BaseModel `bun:"table:credentials"`
	ID            string         `bun:"id,pk"`
	Title         string         `bun:"title"`
	Username      string         `bun:"username"`
	Secret        string         `bun:"secret"`
	URL           sql.NullString `bun:"url"`
	Notes         sql.NullString `bun:"notes"`
	Sealed        bool           `bun:"sealed"`
	CreatedAt     time.Time      `bun:"created_at"`
	UpdatedAt     sql.NullTime   `bun:"updated_at"`
	Deleted       bool           `bun:"deleted"`
}

// VaultMetaModel maps the `vault_meta` table.
type VaultMetaModel struct {
	bun.BaseModel `bun:"table:vault_meta"`
	ID            int       `bun:"id,pk"`
	Salt          []byte    `bun:"salt"`
	Verifier      []byte    `bun:"verifier"`
	EncryptAtRest bool      `bun:"encrypt_at_rest"`
	KDFTime       uint32    `bun:"kdf_time"`
	KDFMemoryKiB  uint32    `bun:"kdf_memory_kib"`
	KDFThreads    uint8     `bun:"kdf_threads"`
	CreatedAt     time.Time `bun:"created_at"`
}

// --- Mapping helpers ---

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func credentialToModel(c CredentialModel) model.StoredCredential {
	out := model.StoredCredential{
		ID:        c.ID,
		Title:     c.Title,
		Username:  c.Username,
		Secret:    c.Secret,
		URL:       c.URL.String,
		Notes:     c.Notes.String,
		Sealed:    c.Sealed,
		CreatedAt: c.CreatedAt.UTC(),
		Deleted:   c.Deleted,
	}
	if c.UpdatedAt.Valid {
		t := c.UpdatedAt.Time.UTC()
		out.UpdatedAt = &t
	}
	return out
}

func credentialFromModel(c model.StoredCredential) CredentialModel {
	m := CredentialModel{
		ID:        c.ID,
		Title:     c.Title,
		Username:  c.Username,
		Secret:    c.Secret,
		URL:       nullString(c.URL),
		Notes:     nullString(c.Notes),
		Sealed:    c.Sealed,
		CreatedAt: c.CreatedAt.UTC(),
		Deleted:   c.Deleted,
	}
	if c.UpdatedAt != nil {
		m.UpdatedAt = sql.NullTime{Time: c.UpdatedAt.UTC(), Valid: true}
	}
	return m
}

func metaToModel(m VaultMetaModel) *model.VaultMeta {
	return &model.VaultMeta{
		Salt:          m.Salt,
		Verifier:      m.Verifier,
		EncryptAtRest: m.EncryptAtRest,
		KDFTime:       m.KDFTime,
		KDFMemoryKiB:  m.KDFMemoryKiB,
		KDFThreads:    m.KDFThreads,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

func metaFromModel(m model.VaultMeta) *VaultMetaModel {
	return &VaultMetaModel{
		ID:            metaRowID,
		Salt:          m.Salt,
		Verifier:      m.Verifier,
		EncryptAtRest: m.EncryptAtRest,
		KDFTime:       m.KDFTime,
		KDFMemoryKiB:  m.KDFMemoryKiB,
		KDFThreads:    m.KDFThreads,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

// BunStore is the Bun-backed Store shared by all supported dialects.
type BunStore struct {
	bun    *bun.DB
	dbType string
	dsn    string
}

var _ Store = (*BunStore)(nil)

// BunDB exposes the underlying *bun.DB for maintenance tooling.
func (s *BunStore) BunDB() *bun.DB { return s.bun }

// Type returns the configured database type ("sqlite", "postgres", "mysql").
func (s *BunStore) Type() string { return s.dbType }

// Close releases the underlying connection pool.
func (s *BunStore) Close() error { return s.bun.Close() }

// ListCredentials returns all live rows ordered by creation time.
func (s *BunStore) ListCredentials(ctx context.Context) ([]model.StoredCredential, error) {
	var rows []CredentialModel
	err := s.bun.NewSelect().Model(&rows).
		Where("deleted = ?", false).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	out := make([]model.StoredCredential, 0, len(rows))
	for _, r := range rows {
		out = append(out, credentialToModel(r))
	}
	return out, nil
}

// GetCredential returns a live row or ErrNotFound.
func (s *BunStore) GetCredential(ctx context.Context, id string) (model.StoredCredential, error) {
	var row CredentialModel
	err := s.bun.NewSelect().Model(&row).
		Where("id = ?", id).
		Where("deleted = ?", false).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.StoredCredential{}, ErrNotFound
		}
		return model.StoredCredential{}, fmt.Errorf("get credential %s: %w", id, err)
	}
	return credentialToModel(row), nil
}

// InsertCredential stores a new row. A reused id yields ErrDuplicate.
func (s *BunStore) InsertCredential(ctx context.Context, c model.StoredCredential) error {
	m := credentialFromModel(c)
	if _, err := s.bun.NewInsert().Model(&m).Exec(ctx); err != nil {
		return MapDBError(err)
	}
	return nil
}

// UpdateCredential rewrites the mutable columns of a live row.
func (s *BunStore) UpdateCredential(ctx context.Context, c model.StoredCredential) error {
	m := credentialFromModel(c)
	res, err := s.bun.NewUpdate().Model(&m).
		Column("title", "username", "secret", "url", "notes", "sealed", "updated_at").
		Where("id = ?", c.ID).
		Where("deleted = ?", false).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update credential %s: %w", c.ID, MapDBError(err))
	}
	return requireAffected(res)
}

// SoftDeleteCredential flags a live row as deleted.
func (s *BunStore) SoftDeleteCredential(ctx context.Context, id string) error {
	res, err := s.bun.NewUpdate().Model((*CredentialModel)(nil)).
		Set("deleted = ?", true).
		Where("id = ?", id).
		Where("deleted = ?", false).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete credential %s: %w", id, err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetVaultMeta returns the vault metadata, or nil when no vault exists.
func (s *BunStore) GetVaultMeta(ctx context.Context) (*model.VaultMeta, error) {
	var m VaultMetaModel
	err := s.bun.NewSelect().Model(&m).Where("id = ?", metaRowID).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vault meta: %w", err)
	}
	return metaToModel(m), nil
}

// SaveVaultMeta replaces the single metadata row.
func (s *BunStore) SaveVaultMeta(ctx context.Context, meta model.VaultMeta) error {
	return s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := ExecRaw(ctx, tx, "DELETE FROM vault_meta WHERE id = ?", metaRowID); err != nil {
			return fmt.Errorf("clear vault meta: %w", err)
		}
		if _, err := tx.NewInsert().Model(metaFromModel(meta)).Exec(ctx); err != nil {
			return fmt.Errorf("insert vault meta: %w", MapDBError(err))
		}
		return nil
	})
}

// Wipe deletes every credential and the vault metadata.
func (s *BunStore) Wipe(ctx context.Context) error {
	err := s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return wipeTx(ctx, tx)
	})
	if err != nil {
		return err
	}
	if err := RunDBMaintenance(ctx, s.bun, s.dbType); err != nil {
		// The data is gone either way; compaction failing is not fatal.
		dbLogf("db: maintenance after wipe failed (ignored): %v", err)
	}
	return nil
}

func wipeTx(ctx context.Context, tx bun.Tx) error {
	// Raw DELETEs: Bun refuses Delete queries without a WHERE clause.
	if _, err := ExecRaw(ctx, tx, "DELETE FROM credentials"); err != nil {
		return fmt.Errorf("wipe credentials: %w", err)
	}
	if _, err := ExecRaw(ctx, tx, "DELETE FROM vault_meta"); err != nil {
		return fmt.Errorf("wipe vault meta: %w", err)
	}
	return nil
}

// ExportBackup returns every row, including soft-deleted ones, so a restore
// never resurrects a previously used id.
func (s *BunStore) ExportBackup(ctx context.Context) (*model.BackupData, error) {
	var rows []CredentialModel
	if err := s.bun.NewSelect().Model(&rows).Order("created_at ASC", "id ASC").Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("export credentials: %w", err)
	}
	meta, err := s.GetVaultMeta(ctx)
	if err != nil {
		return nil, err
	}
	data := &model.BackupData{
		SchemaVersion: model.BackupSchemaVersion,
		Meta:          meta,
		Credentials:   make([]model.StoredCredential, 0, len(rows)),
	}
	for _, r := range rows {
		data.Credentials = append(data.Credentials, credentialToModel(r))
	}
	return data, nil
}

// ImportBackup loads a backup. A full import replaces everything; otherwise
// rows whose id already exists are skipped and existing metadata is kept.
func (s *BunStore) ImportBackup(ctx context.Context, data *model.BackupData, full bool) error {
	if data == nil {
		return errors.New("empty backup")
	}
	if data.SchemaVersion != model.BackupSchemaVersion {
		return fmt.Errorf("unsupported backup schema version %d", data.SchemaVersion)
	}
	return s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if full {
			if err := wipeTx(ctx, tx); err != nil {
				return err
			}
		}
		if data.Meta != nil {
			count, err := countRows(ctx, tx, "vault_meta")
			if err != nil {
				return err
			}
			if count == 0 {
				if _, err := tx.NewInsert().Model(metaFromModel(*data.Meta)).Exec(ctx); err != nil {
					return fmt.Errorf("restore vault meta: %w", MapDBError(err))
				}
			}
		}
		for _, c := range data.Credentials {
			exists, err := tx.NewSelect().Model((*CredentialModel)(nil)).Where("id = ?", c.ID).Exists(ctx)
			if err != nil {
				return fmt.Errorf("check credential %s: %w", c.ID, err)
			}
			if exists {
				continue
			}
			m := credentialFromModel(c)
			if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
				return fmt.Errorf("restore credential %s: %w", c.ID, MapDBError(err))
			}
		}
		return nil
	})
}
