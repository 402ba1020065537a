// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package command

import (
	"context"
	"fmt"
)

// Invoker sends one command and decodes its reply body into reply (which
// may be nil when the command returns nothing). Service failures are
// returned as *ServiceError; anything else is a transport failure.
type Invoker interface {
	Invoke(ctx context.Context, name Name, args any, reply any) error
}

// Local is an in-process Invoker that still round-trips every call through
// the CBOR wire format.
type Local struct {
	d *Dispatcher
}

var _ Invoker = (*Local)(nil)

// NewLocal returns an Invoker that serves calls with d.
func NewLocal(d *Dispatcher) *Local {
	return &Local{d: d}
}

// Invoke implements Invoker.
func (l *Local) Invoke(ctx context.Context, name Name, args any, reply any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	frame := Frame{Command: name}
	if args != nil {
		raw, err := Marshal(args)
		if err != nil {
			return fmt.Errorf("encode %s arguments: %w", name, err)
		}
		frame.Args = raw
	}
	req, err := Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", name, err)
	}
	return DecodeReply(name, l.d.Serve(ctx, req), reply)
}

// DecodeReply unpacks an encoded Envelope for name into reply.
func DecodeReply(name Name, data []byte, reply any) error {
	var env Envelope
	if err := Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode %s reply: %w", name, err)
	}
	if !env.OK {
		return &ServiceError{Command: name, Reason: env.Reason, NotFound: env.NotFound}
	}
	if reply == nil || len(env.Body) == 0 {
		return nil
	}
	if err := Unmarshal(env.Body, reply); err != nil {
		return fmt.Errorf("decode %s body: %w", name, err)
	}
	return nil
}
