// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import "sync"

// FlagKey is the key under which the authenticated flag is persisted.
const FlagKey = "vaultpass_authenticated"

// Store persists small string values for the lifetime of the process.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// MemoryStore is a Store backed by a map.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}

func (m *MemoryStore) Remove(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
}

// Context is the explicit session value handed to the gate at startup. It
// reads and writes the authenticated flag through a Store.
type Context struct {
	store Store
}

// NewContext builds a session Context over store. A nil store gets a fresh
// MemoryStore.
func NewContext(store Store) *Context {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Context{store: store}
}

// Authenticated reports whether the persisted flag is set.
func (c *Context) Authenticated() bool {
	v, ok := c.store.Get(FlagKey)
	return ok && v == "true"
}

func (c *Context) setAuthenticated(on bool) {
	if on {
		c.store.Set(FlagKey, "true")
		return
	}
	c.store.Remove(FlagKey)
}
