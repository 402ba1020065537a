// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/toeirei/vaultpass/internal/model"
)

type listFunc func(ctx context.Context) ([]model.Credential, error)

func (f listFunc) List(ctx context.Context) ([]model.Credential, error) { return f(ctx) }

func creds(ids ...string) []model.Credential {
	out := make([]model.Credential, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Credential{ID: id, Fields: model.Fields{Title: "T" + id}})
	}
	return out
}

func TestReloadGetSnapshot(t *testing.T) {
	data := creds("a", "b", "c")
	c := New(listFunc(func(context.Context) ([]model.Credential, error) { return data, nil }))
	if c.Len() != 0 {
		t.Fatalf("new cache must be empty")
	}
	if err := c.Reload(t.Context()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	snap := c.Snapshot()
	if len(snap) != 3 || snap[0].ID != "a" || snap[2].ID != "c" {
		t.Fatalf("snapshot order mismatch: %+v", snap)
	}
	if got, ok := c.Get("b"); !ok || got.Title != "Tb" {
		t.Fatalf("Get(b) = (%+v, %v)", got, ok)
	}
	if _, ok := c.Get("zz"); ok {
		t.Fatalf("Get on unknown id must miss")
	}

	snap[0].Title = "mutated"
	if got, _ := c.Get("a"); got.Title != "Ta" {
		t.Fatalf("snapshot must be a copy")
	}

	data = creds("c")
	if err := c.Reload(t.Context()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("reload must replace wholesale, got %d", c.Len())
	}
}

func TestReload_ErrorKeepsContents(t *testing.T) {
	fail := false
	c := New(listFunc(func(context.Context) ([]model.Credential, error) {
		if fail {
			return nil, errors.New("offline")
		}
		return creds("a"), nil
	}))
	_ = c.Reload(t.Context())
	fail = true
	if err := c.Reload(t.Context()); err == nil {
		t.Fatalf("expected error")
	}
	if c.Len() != 1 {
		t.Fatalf("failed reload must keep previous contents")
	}
}

func TestReload_DeduplicatesIDs(t *testing.T) {
	c := New(listFunc(func(context.Context) ([]model.Credential, error) {
		return append(creds("a", "b"), model.Credential{ID: "a", Fields: model.Fields{Title: "dup"}}), nil
	}))
	_ = c.Reload(t.Context())
	if c.Len() != 2 {
		t.Fatalf("expected 2 unique records, got %d", c.Len())
	}
	if got, _ := c.Get("a"); got.Title != "Ta" {
		t.Fatalf("expected first occurrence kept, got %q", got.Title)
	}
}

func TestReload_LastCompletedWins(t *testing.T) {
	slowGo := make(chan struct{})
	slowIn := make(chan struct{})
	var calls int
	var mu sync.Mutex
	c := New(listFunc(func(context.Context) ([]model.Credential, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(slowIn)
			<-slowGo
			return creds("slow"), nil
		}
		return creds("fast"), nil
	}))

	done := make(chan struct{})
	go func() { _ = c.Reload(context.Background()); close(done) }()
	<-slowIn
	if err := c.Reload(t.Context()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	close(slowGo)
	<-done

	if _, ok := c.Get("slow"); !ok || c.Len() != 1 {
		t.Fatalf("expected the reload that completed last to win, got %+v", c.Snapshot())
	}
}

func TestClear_DropsInFlightReload(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	c := New(listFunc(func(context.Context) ([]model.Credential, error) {
		close(entered)
		<-release
		return creds("a"), nil
	}))

	done := make(chan struct{})
	go func() { _ = c.Reload(context.Background()); close(done) }()
	<-entered
	c.Clear()
	close(release)
	<-done

	if c.Len() != 0 {
		t.Fatalf("reload started before Clear must not repopulate the cache")
	}
}
