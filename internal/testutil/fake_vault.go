// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/security"
	"github.com/toeirei/vaultpass/internal/vault"
)

// FakeVault is an in-memory command.Backend.
type FakeVault struct {
	// Before, when set, runs at the start of every call with the method
	// name ("List", "Get", ...). Tests use it to block or count calls.
	Before func(method string)

	mu      sync.Mutex
	master  string
	exists  bool
	order   []string
	records map[string]model.Credential
	fail    map[string]error
	nextID  int
	clock   time.Time
}

// NewFakeVault returns an empty, unregistered FakeVault.
func NewFakeVault() *FakeVault {
	return &FakeVault{
		records: map[string]model.Credential{},
		fail:    map[string]error{},
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Fail makes method return err until cleared with a nil err.
func (f *FakeVault) Fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, method)
		return
	}
	f.fail[method] = err
}

// Seed registers the vault with master and stores records directly.
func (f *FakeVault) Seed(master string, fields ...model.Fields) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.master, f.exists = master, true
	var ids []string
	for _, fl := range fields {
		ids = append(ids, f.insertLocked(fl))
	}
	return ids
}

// Count returns the number of live records.
func (f *FakeVault) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}

func (f *FakeVault) enter(method string) error {
	if f.Before != nil {
		f.Before(method)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fail[method]
}

func (f *FakeVault) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *FakeVault) insertLocked(fl model.Fields) string {
	f.nextID++
	id := fmt.Sprintf("rec-%03d", f.nextID)
	f.records[id] = model.Credential{ID: id, Fields: fl, CreatedAt: f.tick()}
	f.order = append(f.order, id)
	return id
}

func (f *FakeVault) List(context.Context) ([]model.Credential, error) {
	if err := f.enter("List"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Credential, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.records[id])
	}
	return out, nil
}

func (f *FakeVault) Get(_ context.Context, id string) (model.Credential, error) {
	if err := f.enter("Get"); err != nil {
		return model.Credential{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.records[id]
	if !ok {
		return model.Credential{}, fmt.Errorf("password with id %s %w", id, vault.ErrNotFound)
	}
	return c, nil
}

func (f *FakeVault) Add(_ context.Context, fl model.Fields) (string, error) {
	if err := f.enter("Add"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(fl), nil
}

func (f *FakeVault) Update(_ context.Context, id string, fl model.Fields) (string, error) {
	if err := f.enter("Update"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.records[id]
	if !ok {
		return "", fmt.Errorf("password with id %s %w", id, vault.ErrNotFound)
	}
	c.Fields = fl
	c.UpdatedAt = f.tick()
	f.records[id] = c
	return id, nil
}

func (f *FakeVault) Delete(_ context.Context, id string) error {
	if err := f.enter("Delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return fmt.Errorf("password with id %s %w", id, vault.ErrNotFound)
	}
	delete(f.records, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *FakeVault) Exists(context.Context) (bool, error) {
	if err := f.enter("Exists"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists, nil
}

func (f *FakeVault) Destroy(context.Context) error {
	if err := f.enter("Destroy"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exists, f.master = false, ""
	f.records, f.order = map[string]model.Credential{}, nil
	return nil
}

func (f *FakeVault) Register(_ context.Context, m security.Secret, _ bool) error {
	if err := f.enter("Register"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exists {
		return vault.ErrVaultExists
	}
	f.master, f.exists = string(m.Bytes()), true
	return nil
}

func (f *FakeVault) Login(_ context.Context, m security.Secret) error {
	if err := f.enter("Login"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.exists {
		return vault.ErrNoVault
	}
	if string(m.Bytes()) != f.master {
		return vault.ErrInvalidPassword
	}
	return nil
}
