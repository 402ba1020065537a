// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil holds in-memory doubles shared by package tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/toeirei/vaultpass/internal/command"
	"github.com/toeirei/vaultpass/internal/db"
	"github.com/toeirei/vaultpass/internal/security"
	"github.com/toeirei/vaultpass/internal/vault"
	"github.com/toeirei/vaultpass/internal/vaultclient"
)

// FastKDF keeps key derivation cheap in tests.
var FastKDF = security.KDFParams{Time: 1, MemoryKiB: 64, Threads: 1}

// NewClient wires a vault client to b over the in-process CBOR transport.
func NewClient(b command.Backend) *vaultclient.Client {
	return vaultclient.New(command.NewLocal(command.NewDispatcher(b)))
}

// NewSQLiteService returns a real service over an in-memory sqlite store
// named after the running test.
func NewSQLiteService(t *testing.T) *vault.Service {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	store, err := db.NewStoreFromDSN("sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return vault.New(store, vault.Config{KDF: FastKDF})
}
