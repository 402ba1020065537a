// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestRunMigrationsSqlite(t *testing.T) {
	dbConn, err := sql.Open("sqlite", "file:test_migrations?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer func() { _ = dbConn.Close() }()
	dbConn.SetMaxOpenConns(1)

	// Applying twice must be a no-op the second time.
	for i := 0; i < 2; i++ {
		if err := RunMigrations(dbConn, "sqlite"); err != nil {
			t.Fatalf("RunMigrations (pass %d) failed: %v", i+1, err)
		}
	}

	rows, err := dbConn.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		t.Fatalf("query schema_migrations failed: %v", err)
	}
	defer func() { _ = rows.Close() }()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("scan version failed: %v", err)
		}
		versions = append(versions, v)
	}
	want := []string{"000001_create_credentials", "000002_create_vault_meta"}
	if len(versions) != len(want) {
		t.Fatalf("expected %v, got %v", want, versions)
	}
	for i := range want {
		if versions[i] != want[i] {
			t.Fatalf("migration %d: expected %s, got %s", i, want[i], versions[i])
		}
	}
}

func TestRunMigrations_UnknownDialect(t *testing.T) {
	dbConn, err := sql.Open("sqlite", "file:test_migrations_unknown?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer func() { _ = dbConn.Close() }()
	if err := RunMigrations(dbConn, "oracle"); err == nil {
		t.Fatalf("expected error for dialect without migrations")
	}
}

func TestNewStoreFromDSN_RejectsUnsupportedType(t *testing.T) {
	if _, err := NewStoreFromDSN("mssql", "whatever"); err == nil {
		t.Fatalf("expected unsupported type error")
	}
}

func TestDriverFor(t *testing.T) {
	cases := map[string]string{"postgres": "pgx", "mysql": "mysql", "sqlite": "sqlite"}
	for in, want := range cases {
		if got := driverFor(in); got != want {
			t.Fatalf("driverFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRunDBMaintenanceSqlite_Smoke(t *testing.T) {
	s := newTestStore(t)
	if err := RunDBMaintenance(t.Context(), s.BunDB(), "sqlite"); err != nil {
		t.Fatalf("RunDBMaintenance failed: %v", err)
	}
	if err := RunDBMaintenance(t.Context(), s.BunDB(), "oracle"); err == nil {
		t.Fatalf("expected error for unsupported maintenance type")
	}
}
