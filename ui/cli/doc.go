// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for VaultPass using Cobra.
// It wires configuration and the vault service, and provides commands that
// drive the same application controller as the TUI. CLI code should remain
// thin and delegate business logic to `internal/app` and `internal/vault`.
package cli
