// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for VaultPass.
//
// Usage:
//
//	go run . [flags]
//	./vaultpass [command] [flags]
//
// Without a command the interactive TUI starts. See --help for options.
package main

import (
	"fmt"
	"os"

	"github.com/toeirei/vaultpass/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vaultpass:", err)
		os.Exit(1)
	}
}
