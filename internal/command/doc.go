// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package command defines the fixed command contract between the vault
// client and the persistence service.
//
// Requests and replies are CBOR encoded. A request is a Frame naming the
// command and carrying its encoded arguments; every reply is an Envelope
// that either holds the encoded result body or a failure reason.
//
// Invoker is the transport seam. Local runs a Dispatcher in-process; other
// transports only need to move Frame and Envelope bytes.
package command // import "github.com/toeirei/vaultpass/internal/command"
