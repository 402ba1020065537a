// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db contains the data-access layer of the VaultPass persistence
// service.
//
// A Store is a Bun-backed view over two tables:
//   - `credentials` holds one row per record. Deletion is soft: the row keeps
//     its id and is flagged `deleted`, so ids are never reused.
//   - `vault_meta` holds a single row describing the initialized vault (KDF
//     salt and parameters, key verifier, encrypt-at-rest flag).
//
// The Store never sees plaintext secrets; sealing happens in the service
// layer before rows reach this package.
//
// Testing notes
//   - Prefer `NewStoreFromDSN("sqlite", "file:<name>?mode=memory&cache=shared")`
//     in tests that need real DB semantics and migrations.
package db
