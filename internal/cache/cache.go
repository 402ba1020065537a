// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cache keeps the in-memory copy of the credential set for the
// active session. Reload and Clear are its only mutators.
package cache

import (
	"context"
	"sync"

	"github.com/toeirei/vaultpass/internal/logging"
	"github.com/toeirei/vaultpass/internal/model"
)

// Lister fetches the full credential set.
type Lister interface {
	List(ctx context.Context) ([]model.Credential, error)
}

// Cache mirrors the service's credential set. It is safe for concurrent use.
type Cache struct {
	src Lister

	mu    sync.RWMutex
	order []string
	byID  map[string]model.Credential
	epoch uint64 // bumped by Clear; reloads started before a Clear are dropped
}

// New returns an empty Cache filled from src.
func New(src Lister) *Cache {
	return &Cache{src: src, byID: map[string]model.Credential{}}
}

// Reload fetches the list and replaces the contents wholesale. On error the
// previous contents are kept. When reloads overlap, the one that completes
// last wins.
func (c *Cache) Reload(ctx context.Context) error {
	c.mu.RLock()
	epoch := c.epoch
	c.mu.RUnlock()

	list, err := c.src.List(ctx)
	if err != nil {
		return err
	}

	order := make([]string, 0, len(list))
	byID := make(map[string]model.Credential, len(list))
	for _, cred := range list {
		if _, dup := byID[cred.ID]; dup {
			logging.Warnf("cache: duplicate id %s in list, keeping the first", cred.ID)
			continue
		}
		order = append(order, cred.ID)
		byID[cred.ID] = cred
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return nil
	}
	c.order, c.byID = order, byID
	return nil
}

// Get returns the cached record for id. It never fetches.
func (c *Cache) Get(id string) (model.Credential, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cred, ok := c.byID[id]
	return cred, ok
}

// Snapshot returns a copy of every record in list order.
func (c *Cache) Snapshot() []model.Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Credential, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Clear empties the cache and discards any reload still in flight.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.order = nil
	c.byID = map[string]model.Credential{}
	c.epoch++
	c.mu.Unlock()
}
