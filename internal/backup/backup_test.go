// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/toeirei/vaultpass/internal/db"
	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/security"
	"github.com/toeirei/vaultpass/internal/testutil"
	"github.com/toeirei/vaultpass/internal/vault"
)

func openStore(t *testing.T, suffix string) *db.BunStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + suffix
	s, err := db.NewStoreFromDSN("sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		in, want string
	}{
		{"", "vaultpass-backup-2026-03-14.json.zst"},
		{"mine.json", "mine.json.zst"},
		{"already.zst", "already.zst"},
	}
	for _, tt := range tests {
		if got := FileName(tt.in, now); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteRead_Stream(t *testing.T) {
	updated := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	in := &model.BackupData{
		SchemaVersion: model.BackupSchemaVersion,
		Credentials: []model.StoredCredential{
			{ID: "a", Title: "Mail", Username: "me", Secret: "sealed", CreatedAt: updated.Add(-time.Hour), UpdatedAt: &updated},
			{ID: "b", Title: "Bank", Username: "you", Secret: "sealed", Deleted: true, CreatedAt: updated},
		},
	}
	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte(`"Mail"`)) {
		t.Fatalf("expected compressed output")
	}
	out, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(out.Credentials) != 2 || out.Credentials[0].Title != "Mail" || !out.Credentials[1].Deleted {
		t.Fatalf("unexpected decoded data: %+v", out.Credentials)
	}
	if out.Credentials[0].UpdatedAt == nil || !out.Credentials[0].UpdatedAt.Equal(updated) {
		t.Fatalf("updated_at lost: %v", out.Credentials[0].UpdatedAt)
	}
}

func TestRead_RejectsGarbage(t *testing.T) {
	if _, err := Read(strings.NewReader("not zstd at all")); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}

func TestBackupRestore_VaultSurvives(t *testing.T) {
	ctx := t.Context()
	src := openStore(t, "_src")
	svc := vault.New(src, vault.Config{KDF: testutil.FastKDF})
	master := security.Secret("correct horse")
	if err := svc.Register(ctx, master, true); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	id, err := svc.Add(ctx, model.Fields{Title: "Mail", Username: "me", Secret: "s3cret", URL: "https://mail.example", Notes: "n"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	data, err := src.ExportBackup(ctx)
	if err != nil {
		t.Fatalf("ExportBackup failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), FileName("vault", time.Now()))
	if err := WriteFile(path, data); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600, got %v", st.Mode().Perm())
	}

	restored, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	dst := openStore(t, "_dst")
	if err := dst.ImportBackup(ctx, restored, true); err != nil {
		t.Fatalf("ImportBackup failed: %v", err)
	}

	other := vault.New(dst, vault.Config{KDF: testutil.FastKDF})
	if err := other.Login(ctx, master); err != nil {
		t.Fatalf("Login on restored vault failed: %v", err)
	}
	got, err := other.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Secret != "s3cret" || got.URL != "https://mail.example" || got.Username != "me" {
		t.Fatalf("restored credential mismatch: %+v", got.Fields)
	}
}
