// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package app_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/toeirei/vaultpass/internal/app"
	"github.com/toeirei/vaultpass/internal/editor"
	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/notify"
	"github.com/toeirei/vaultpass/internal/security"
	"github.com/toeirei/vaultpass/internal/session"
	"github.com/toeirei/vaultpass/internal/testutil"
)

func pw(s string) security.Secret { return security.FromString(s) }

func fields(title string) model.Fields {
	return model.Fields{Title: title, Username: "user-" + title, Secret: "s-" + title}
}

func newFakeApp(t *testing.T) (*app.App, *testutil.FakeVault, *testutil.FakeView) {
	t.Helper()
	i18n.Init("en")
	fv := testutil.NewFakeVault()
	view := &testutil.FakeView{ConfirmAnswer: true}
	return app.New(testutil.NewClient(fv), view, app.Options{}), fv, view
}

// assertCacheMatchesService checks that what the app holds equals what the
// service lists.
func assertCacheMatchesService(t *testing.T, a *app.App, fv *testutil.FakeVault) {
	t.Helper()
	want, _ := fv.List(t.Context())
	got := a.Credentials()
	if len(got) != len(want) {
		t.Fatalf("cache has %d records, service %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.ID != w.ID || g.Fields != w.Fields || !g.CreatedAt.Equal(w.CreatedAt) || !g.UpdatedAt.Equal(w.UpdatedAt) {
			t.Fatalf("record %d diverged:\n got  %+v\n want %+v", i, g, w)
		}
	}
}

func TestEndToEnd_SQLite(t *testing.T) {
	i18n.Init("en")
	svc := testutil.NewSQLiteService(t)
	view := &testutil.FakeView{ConfirmAnswer: true}
	a := app.New(testutil.NewClient(svc), view, app.Options{BatchSize: 2})
	ctx := t.Context()

	if err := a.Start(ctx); err != nil || view.MainVisible {
		t.Fatalf("Start must keep main hidden while logged out (err=%v)", err)
	}
	if err := a.Register(ctx, pw("master"), pw("master"), true); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !view.MainVisible || view.EmptyShown != 1 {
		t.Fatalf("expected main surface with empty state after register")
	}

	for _, title := range []string{"alpha", "beta", "gamma"} {
		if err := a.OpenEditor(ctx, ""); err != nil {
			t.Fatalf("OpenEditor failed: %v", err)
		}
		if err := a.Submit(ctx, fields(title)); err != nil {
			t.Fatalf("Submit(%s) failed: %v", title, err)
		}
	}
	if ids := view.RenderedIDs(); len(ids) != 2 || !a.HasMore() {
		t.Fatalf("expected first batch of 2 with more pending, got %v", ids)
	}
	if a.ShowMore() != 1 || a.HasMore() {
		t.Fatalf("expected one remaining record")
	}

	list := a.Credentials()
	if len(list) != 3 || list[0].Title != "alpha" || list[2].Title != "gamma" {
		t.Fatalf("unexpected list: %+v", list)
	}

	target := list[1].ID
	if err := a.OpenEditor(ctx, target); err != nil {
		t.Fatalf("OpenEditor(edit) failed: %v", err)
	}
	edited := view.ModalDraft
	edited.Notes = "rotated"
	if err := a.Submit(ctx, edited); err != nil {
		t.Fatalf("Submit(edit) failed: %v", err)
	}
	if c, ok := a.Credential(target); !ok || c.Notes != "rotated" || c.UpdatedAt.IsZero() {
		t.Fatalf("edit not reflected in cache: %+v", c)
	}

	a.Search("GAM")
	if ids := view.RenderedIDs(); len(ids) != 1 || ids[0] != list[2].ID {
		t.Fatalf("search rendered %v", ids)
	}
	a.Search("")

	if err := a.Delete(ctx, target); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := a.Credential(target); ok {
		t.Fatalf("deleted record still cached")
	}
	if view.Last().Text != "Password deleted" {
		t.Fatalf("unexpected notification %+v", view.Last())
	}

	if err := a.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if len(a.Credentials()) != 0 || view.MainVisible {
		t.Fatalf("logout must clear the cache and hide main")
	}

	if err := a.Login(ctx, pw("wrong")); err == nil {
		t.Fatalf("expected login failure")
	}
	if m := view.Last(); m.Severity != notify.Danger || m.Text != "Login failed: invalid password" {
		t.Fatalf("unexpected notification %+v", m)
	}
	if err := a.Login(ctx, pw("master")); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if got := a.Credentials(); len(got) != 2 {
		t.Fatalf("expected 2 records after re-login, got %d", len(got))
	}
}

func TestCacheEqualsServiceAfterEveryMutation(t *testing.T) {
	a, fv, view := newFakeApp(t)
	ctx := t.Context()
	fv.Seed("m")
	if err := a.Login(ctx, pw("m")); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		_ = a.OpenEditor(ctx, "")
		if err := a.Submit(ctx, fields(fmt.Sprint(i))); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		assertCacheMatchesService(t, a, fv)
	}
	list := a.Credentials()
	_ = a.OpenEditor(ctx, list[0].ID)
	_ = a.Submit(ctx, fields("changed"))
	assertCacheMatchesService(t, a, fv)

	_ = a.Delete(ctx, list[1].ID)
	assertCacheMatchesService(t, a, fv)

	if view.Clears == 0 {
		t.Fatalf("expected list re-renders")
	}
}

func TestDelete_Declined(t *testing.T) {
	a, fv, view := newFakeApp(t)
	ids := fv.Seed("m", fields("a"))
	_ = a.Login(t.Context(), pw("m"))
	view.ConfirmAnswer = false
	listCalls := 0
	fv.Before = func(m string) {
		if m == "List" || m == "Delete" {
			listCalls++
		}
	}

	if err := a.Delete(t.Context(), ids[0]); !errors.Is(err, app.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if view.Confirms[len(view.Confirms)-1] != "Are you sure you want to delete this password?" {
		t.Fatalf("unexpected confirm text %q", view.Confirms)
	}
	if m := view.Last(); m.Severity != notify.Info || m.Text != "Deletion cancelled" {
		t.Fatalf("unexpected notification %+v", m)
	}
	if listCalls != 0 || fv.Count() != 1 {
		t.Fatalf("declined delete must not touch the service")
	}
}

func TestDelete_FailureReportedAndStillReloads(t *testing.T) {
	a, fv, view := newFakeApp(t)
	ids := fv.Seed("m", fields("a"), fields("b"))
	_ = a.Login(t.Context(), pw("m"))
	fv.Fail("Delete", errors.New("store is read-only"))
	lists := 0
	fv.Before = func(m string) {
		if m == "List" {
			lists++
		}
	}

	if err := a.Delete(t.Context(), ids[0]); err == nil {
		t.Fatalf("expected delete error")
	}
	if m := view.Last(); m.Severity != notify.Danger || m.Text != "Failed to delete password: store is read-only" {
		t.Fatalf("unexpected notification %+v", m)
	}
	if lists != 1 {
		t.Fatalf("expected a reload after failed delete, got %d", lists)
	}
	if len(a.Credentials()) != 2 {
		t.Fatalf("cache must still show both records")
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	a, fv, view := newFakeApp(t)
	if err := a.Register(t.Context(), pw("a"), pw("b"), false); !errors.Is(err, app.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if view.Last().Text != "Passwords do not match" {
		t.Fatalf("unexpected notification %+v", view.Last())
	}
	if exists, _ := fv.Exists(t.Context()); exists {
		t.Fatalf("mismatch must not register")
	}
}

func TestRegister_EmptyPassword(t *testing.T) {
	a, _, view := newFakeApp(t)
	if err := a.Register(t.Context(), pw(""), pw(""), false); !errors.Is(err, session.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if m := view.Last(); m.Severity != notify.Warning || m.Text != "Password must be at least 1 characters" {
		t.Fatalf("unexpected notification %+v", m)
	}
}

func TestRegister_ExistingVault(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		a, fv, view := newFakeApp(t)
		fv.Seed("old", fields("keep"))
		view.ConfirmAnswer = false
		if err := a.Register(t.Context(), pw("new"), pw("new"), false); !errors.Is(err, app.ErrCancelled) {
			t.Fatalf("expected ErrCancelled, got %v", err)
		}
		if fv.Count() != 1 {
			t.Fatalf("declined register must keep the old vault")
		}
		if view.Last().Text != "Registration cancelled." {
			t.Fatalf("unexpected notification %+v", view.Last())
		}
	})
	t.Run("accepted", func(t *testing.T) {
		a, fv, view := newFakeApp(t)
		fv.Seed("old", fields("gone"))
		if err := a.Register(t.Context(), pw("new"), pw("new"), false); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if fv.Count() != 0 || a.Gate().State() != session.Authenticated {
			t.Fatalf("expected fresh authenticated vault")
		}
		texts := []string{}
		for _, m := range view.Messages() {
			texts = append(texts, m.Text)
		}
		want := []string{"Database deleted successfully", "Registration successful!"}
		if !reflect.DeepEqual(texts, want) {
			t.Fatalf("notifications = %q, want %q", texts, want)
		}
	})
}

func TestRefresh_FailureKeepsList(t *testing.T) {
	a, fv, view := newFakeApp(t)
	fv.Seed("m", fields("a"))
	_ = a.Login(t.Context(), pw("m"))
	fv.Fail("List", errors.New("timeout"))
	if err := a.Refresh(t.Context()); err == nil {
		t.Fatalf("expected refresh error")
	}
	if len(view.RenderedIDs()) != 1 {
		t.Fatalf("previous contents must stay rendered")
	}
	if view.Last().Text != "Failed to load passwords: timeout" {
		t.Fatalf("unexpected notification %+v", view.Last())
	}
}

func TestStart_PersistedSession(t *testing.T) {
	i18n.Init("en")
	fv := testutil.NewFakeVault()
	fv.Seed("m", fields("a"))
	store := session.NewMemoryStore()
	store.Set(session.FlagKey, "true")
	view := &testutil.FakeView{}
	a := app.New(testutil.NewClient(fv), view, app.Options{Store: store})
	if err := a.Start(t.Context()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !view.MainVisible || len(view.RenderedIDs()) != 1 {
		t.Fatalf("persisted session must show the list")
	}
}

func TestCancel_LateSuccessfulAddStillSyncsCache(t *testing.T) {
	a, fv, view := newFakeApp(t)
	fv.Seed("m")
	if err := a.Login(t.Context(), pw("m")); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	entered := make(chan struct{})
	release := make(chan struct{})
	fv.Before = func(m string) {
		if m == "Add" {
			close(entered)
			<-release
		}
	}
	if err := a.OpenEditor(t.Context(), ""); err != nil {
		t.Fatalf("OpenEditor failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- a.Submit(context.Background(), fields("late")) }()
	<-entered
	a.Cancel()
	view.Reset()
	close(release)

	if err := <-done; !errors.Is(err, editor.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if fv.Count() != 1 {
		t.Fatalf("expected the add to land on the service, got %d records", fv.Count())
	}
	assertCacheMatchesService(t, a, fv)
	if len(view.Messages()) != 0 {
		t.Fatalf("late result must not notify: %+v", view.Messages())
	}
}

func TestSearch_ConcurrentQueriesSettleOnLastQuery(t *testing.T) {
	a, fv, view := newFakeApp(t)
	var seed []model.Fields
	for i := 0; i < 12; i++ {
		seed = append(seed, fields(fmt.Sprintf("x-a%02d", i)))
	}
	for i := 0; i < 12; i++ {
		seed = append(seed, fields(fmt.Sprintf("ab%02d", i)))
	}
	fv.Seed("m", seed...)
	if err := a.Login(t.Context(), pw("m")); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	for run := 0; run < 500; run++ {
		var wg sync.WaitGroup
		for _, q := range []string{"a", "ab"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				a.Search(q)
			}()
		}
		wg.Wait()

		want := a.Credentials()
		want = want[:min(len(want), 4)]
		got := view.RenderedIDs()
		if len(got) != len(want) {
			t.Fatalf("run %d: query %q shows %d rows, want %d", run, a.Query(), len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i].ID {
				t.Fatalf("run %d: query %q shows %v, want first ids of %v", run, a.Query(), got, want)
			}
		}
	}
}

func TestLogout_LateSaveDoesNotRepopulateCache(t *testing.T) {
	a, fv, _ := newFakeApp(t)
	fv.Seed("m", fields("existing"))
	if err := a.Login(t.Context(), pw("m")); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	entered := make(chan struct{})
	release := make(chan struct{})
	fv.Before = func(m string) {
		if m == "Add" {
			close(entered)
			<-release
		}
	}
	_ = a.OpenEditor(t.Context(), "")

	done := make(chan error, 1)
	go func() { done <- a.Submit(context.Background(), fields("late")) }()
	<-entered
	if err := a.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, editor.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if got := a.Credentials(); len(got) != 0 {
		t.Fatalf("cache must stay cleared after logout, got %d records", len(got))
	}
}
