// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBackupAndFullRestore(t *testing.T) {
	tmp := setupCLI(t)
	mustExecute(t, "", "init")
	mustExecute(t, "pw-1\n", "add", "--title", "GitHub", "--username", "octo")
	mustExecute(t, "pw-2\n", "add", "--title", "Mail", "--username", "alice")

	file := filepath.Join(tmp, "vault-backup")
	res := mustExecute(t, "", "backup", file)
	if !strings.Contains(res.out, "Backed up 2 records") {
		t.Fatalf("unexpected backup output: %q", res.out)
	}
	st, err := os.Stat(file + ".zst")
	if err != nil {
		t.Fatalf("expected compressed backup: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600, got %v", st.Mode().Perm())
	}

	mustExecute(t, "", "destroy", "--yes")

	res = mustExecute(t, "n\n", "restore", file+".zst", "--full")
	if !strings.Contains(res.err, "Restore cancelled.") {
		t.Fatalf("expected cancellation, got %q", res.err)
	}
	res = mustExecute(t, "", "restore", file+".zst", "--full", "--yes")
	if !strings.Contains(res.out, "Restored 2 records") {
		t.Fatalf("unexpected restore output: %q", res.out)
	}

	out := mustExecute(t, "", "list").out
	if !strings.Contains(out, "GitHub") || !strings.Contains(out, "Mail") {
		t.Fatalf("records missing after restore: %q", out)
	}
	id := firstID(t, out)
	if show := mustExecute(t, "", "show", id, "--reveal").out; !strings.Contains(show, "pw-") {
		t.Fatalf("secret not readable after restore: %q", show)
	}
}

func TestRestore_MergeKeepsExisting(t *testing.T) {
	tmp := setupCLI(t)
	mustExecute(t, "", "init")
	mustExecute(t, "pw\n", "add", "--title", "Old", "--username", "u")
	file := filepath.Join(tmp, "b.json.zst")
	mustExecute(t, "", "backup", file)

	mustExecute(t, "pw\n", "add", "--title", "New", "--username", "u")
	res := mustExecute(t, "", "restore", file)
	if !strings.Contains(res.out, "Restored 1 records") {
		t.Fatalf("unexpected restore output: %q", res.out)
	}
	out := mustExecute(t, "", "list").out
	if strings.Count(out, "Old") != 1 || !strings.Contains(out, "New") {
		t.Fatalf("merge must skip known ids and keep new rows: %q", out)
	}
}

func TestRestore_RejectsGarbage(t *testing.T) {
	tmp := setupCLI(t)
	file := filepath.Join(tmp, "garbage.zst")
	if err := os.WriteFile(file, []byte("not a backup"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := executeCommand(t, "", "restore", file); err == nil {
		t.Fatal("expected error for invalid backup")
	}
}

func TestDBMaintain(t *testing.T) {
	setupCLI(t)
	mustExecute(t, "", "init")
	res := mustExecute(t, "", "db-maintain")
	if !strings.Contains(res.out, "Database maintenance complete.") {
		t.Fatalf("unexpected output: %q", res.out)
	}
}
