// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadKeysFromLocale_FlatAndNested(t *testing.T) {
	p := filepath.Join(t.TempDir(), "active.en.yaml")
	writeFile(t, p, "\"auth.login_success\": \"ok\"\ntui:\n  help:\n    quit: \"quit\"\n")
	keys, err := loadKeysFromLocale(p)
	if err != nil {
		t.Fatalf("loadKeysFromLocale: %v", err)
	}
	for _, k := range []string{"auth.login_success", "tui.help.quit"} {
		if _, ok := keys[k]; !ok {
			t.Fatalf("expected key %s in %v", k, keys)
		}
	}
}

func TestLint_ReportsUndefinedMissingAndOrphaned(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app", "a.go"), `package app
func f() {
	_ = i18n.T("list.delete_success")
	_ = i18n.T("list.not_defined")
	ids := []string{"tui.modal.field_title"}
	_ = ids
}`)
	writeFile(t, filepath.Join(root, "app", "a_test.go"), `package app
var _ = i18n.T("only.in_tests")`)
	writeFile(t, filepath.Join(root, "tools", "x.go"), `package x
var _ = i18n.T("tools.ignored")`)
	writeFile(t, filepath.Join(root, localesDir, "active.en.yaml"),
		"\"list.delete_success\": \"Password deleted\"\n\"tui.modal.field_title\": \"Title: \"\n\"list.unused\": \"x\"\n")
	writeFile(t, filepath.Join(root, localesDir, "active.de.yaml"),
		"\"list.delete_success\": \"Passwort gelöscht\"\n")

	r, err := lint(root)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if !r.failed() {
		t.Fatal("expected failure")
	}
	if _, ok := r.undefined["list.not_defined"]; !ok || len(r.undefined) != 1 {
		t.Fatalf("unexpected undefined keys: %v", r.undefined)
	}
	if got := r.missing["active.de.yaml"]; len(got) != 2 || got[0] != "list.unused" || got[1] != "tui.modal.field_title" {
		t.Fatalf("unexpected missing keys: %v", r.missing)
	}
	if len(r.orphaned) != 1 || r.orphaned[0] != "list.unused" {
		t.Fatalf("unexpected orphaned keys: %v", r.orphaned)
	}

	var buf bytes.Buffer
	r.print(&buf)
	if !strings.Contains(buf.String(), "list.not_defined (") {
		t.Fatalf("report lacks location: %s", buf.String())
	}
}

func TestLint_RepositoryCatalogsAreConsistent(t *testing.T) {
	r, err := lint(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if r.failed() {
		var buf bytes.Buffer
		r.print(&buf)
		t.Fatalf("catalogs inconsistent:\n%s", buf.String())
	}
}
