// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/toeirei/vaultpass/internal/logging"
	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/security"
	"github.com/toeirei/vaultpass/internal/vault"
)

// Backend is the service a Dispatcher drives. *vault.Service implements it.
type Backend interface {
	List(ctx context.Context) ([]model.Credential, error)
	Get(ctx context.Context, id string) (model.Credential, error)
	Add(ctx context.Context, f model.Fields) (string, error)
	Update(ctx context.Context, id string, f model.Fields) (string, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context) (bool, error)
	Destroy(ctx context.Context) error
	Register(ctx context.Context, master security.Secret, encryptAtRest bool) error
	Login(ctx context.Context, master security.Secret) error
}

var _ Backend = (*vault.Service)(nil)

type handlerFunc func(ctx context.Context, args []byte) (any, error)

// Dispatcher decodes frames, runs the matching Backend call and encodes
// the reply envelope.
type Dispatcher struct {
	backend  Backend
	handlers map[Name]handlerFunc
}

// NewDispatcher returns a Dispatcher serving every command of the contract.
func NewDispatcher(b Backend) *Dispatcher {
	d := &Dispatcher{backend: b}
	d.handlers = map[Name]handlerFunc{
		ListPasswords:  d.list,
		GetPassword:    d.get,
		AddPassword:    d.add,
		UpdatePassword: d.update,
		DeletePassword: d.delete,
		VaultExists:    d.exists,
		DestroyVault:   d.destroy,
		Register:       d.register,
		Login:          d.login,
	}
	return d
}

// Serve handles one encoded Frame and always returns an encoded Envelope.
func (d *Dispatcher) Serve(ctx context.Context, frame []byte) []byte {
	env := d.serve(ctx, frame)
	out, err := Marshal(env)
	if err != nil {
		logging.Errorf("command: encode envelope: %v", err)
		out, _ = Marshal(Envelope{Reason: "internal error"})
	}
	return out
}

func (d *Dispatcher) serve(ctx context.Context, frame []byte) Envelope {
	var f Frame
	if err := Unmarshal(frame, &f); err != nil {
		return Envelope{Reason: "malformed request"}
	}
	h, ok := d.handlers[f.Command]
	if !ok {
		return Envelope{Reason: fmt.Sprintf("unknown command %q", f.Command)}
	}
	result, err := h(ctx, f.Args)
	if err != nil {
		logging.Debugf("command %s failed: %v", f.Command, err)
		return Envelope{Reason: err.Error(), NotFound: errors.Is(err, vault.ErrNotFound)}
	}
	env := Envelope{OK: true}
	if result != nil {
		body, err := Marshal(result)
		if err != nil {
			logging.Errorf("command %s: encode result: %v", f.Command, err)
			return Envelope{Reason: "internal error"}
		}
		env.Body = body
	}
	return env
}

func decodeArgs(args []byte, v any) error {
	if len(args) == 0 {
		return errors.New("missing arguments")
	}
	if err := Unmarshal(args, v); err != nil {
		return fmt.Errorf("malformed arguments: %w", err)
	}
	return nil
}

func (d *Dispatcher) list(ctx context.Context, _ []byte) (any, error) {
	list, err := d.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(list))
	for _, c := range list {
		out = append(out, RecordFrom(c))
	}
	return out, nil
}

func (d *Dispatcher) get(ctx context.Context, args []byte) (any, error) {
	var a IDArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := d.backend.Get(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return RecordFrom(c), nil
}

func (d *Dispatcher) add(ctx context.Context, args []byte) (any, error) {
	var a RecordArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id, err := d.backend.Add(ctx, a.Fields())
	if err != nil {
		return nil, err
	}
	return IDArgs{ID: id}, nil
}

func (d *Dispatcher) update(ctx context.Context, args []byte) (any, error) {
	var a RecordArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id, err := d.backend.Update(ctx, a.ID, a.Fields())
	if err != nil {
		return nil, err
	}
	return IDArgs{ID: id}, nil
}

func (d *Dispatcher) delete(ctx context.Context, args []byte) (any, error) {
	var a IDArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, d.backend.Delete(ctx, a.ID)
}

func (d *Dispatcher) exists(ctx context.Context, _ []byte) (any, error) {
	ok, err := d.backend.Exists(ctx)
	if err != nil {
		return nil, err
	}
	return ok, nil
}

func (d *Dispatcher) destroy(ctx context.Context, _ []byte) (any, error) {
	return nil, d.backend.Destroy(ctx)
}

func (d *Dispatcher) register(ctx context.Context, args []byte) (any, error) {
	var a RegisterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	master := security.FromBytes(a.MasterPassword)
	defer master.Zero()
	clear(a.MasterPassword)
	return nil, d.backend.Register(ctx, master, a.EncryptDB)
}

func (d *Dispatcher) login(ctx context.Context, args []byte) (any, error) {
	var a LoginArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	master := security.FromBytes(a.MasterPassword)
	defer master.Zero()
	clear(a.MasterPassword)
	return nil, d.backend.Login(ctx, master)
}
