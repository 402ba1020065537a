// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package search filters credential lists by a free-text query.
package search

import (
	"strings"
	"sync"

	"github.com/toeirei/vaultpass/internal/model"
)

// Filter returns the records of source whose title, username or url
// contains query, ignoring case and surrounding whitespace. An empty query
// returns source unchanged. The result keeps source order.
func Filter(query string, source []model.Credential) []model.Credential {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return source
	}
	out := make([]model.Credential, 0, len(source))
	for _, c := range source {
		if Matches(q, c) {
			out = append(out, c)
		}
	}
	return out
}

// Matches reports whether c matches an already normalized query.
func Matches(q string, c model.Credential) bool {
	if strings.Contains(strings.ToLower(c.Title), q) || strings.Contains(strings.ToLower(c.Username), q) {
		return true
	}
	return c.HasURL() && strings.Contains(strings.ToLower(c.URL), q)
}

// Engine holds the current query of a list view.
type Engine struct {
	mu    sync.RWMutex
	query string
}

// SetQuery stores the raw query text.
func (e *Engine) SetQuery(q string) {
	e.mu.Lock()
	e.query = q
	e.mu.Unlock()
}

// Query returns the raw query text.
func (e *Engine) Query() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.query
}

// Apply filters source with the current query.
func (e *Engine) Apply(source []model.Credential) []model.Credential {
	return Filter(e.Query(), source)
}
