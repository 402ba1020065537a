// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package app wires the session gate, cache, search, renderer and editor
// into one controller. View adapters (the TUI and the CLI) talk only to
// App and receive output through the View interface.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/toeirei/vaultpass/internal/cache"
	"github.com/toeirei/vaultpass/internal/editor"
	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/logging"
	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/notify"
	"github.com/toeirei/vaultpass/internal/render"
	"github.com/toeirei/vaultpass/internal/search"
	"github.com/toeirei/vaultpass/internal/security"
	"github.com/toeirei/vaultpass/internal/session"
	"github.com/toeirei/vaultpass/internal/vaultclient"
)

var (
	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled by user")
	// ErrPasswordMismatch is returned when the confirmation differs.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// View is everything the application asks of a user interface.
type View interface {
	render.Sink
	editor.Surface
	notify.Notifier
	// Confirm blocks until the user answers.
	Confirm(message string) bool
	ShowMain(visible bool)
}

// Client is the vault command contract.
type Client interface {
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

var _ Client = (*vaultclient.Client)(nil)

// Options configure an App.
type Options struct {
	// BatchSize is the number of records per rendered batch.
	BatchSize int
	// Store persists the session flag. Nil uses a fresh MemoryStore.
	Store session.Store
}

// App is the application controller.
type App struct {
	client Client
	view   View

	gate   *session.Gate
	cache  *cache.Cache
	search search.Engine
	editor *editor.Controller

	mu       sync.Mutex // guards renderer
	renderer *render.Renderer
}

// New wires an App.
func New(client Client, view View, opts Options) *App {
	a := &App{client: client, view: view}
	a.cache = cache.New(client)
	a.renderer = render.New(view, opts.BatchSize)
	a.editor = editor.New(client, view, view, a.refreshIfAuthenticated)
	a.gate = session.NewGate(session.NewContext(opts.Store), client, view, session.Hooks{
		OnAuthenticated: func(ctx context.Context) { _ = a.Refresh(ctx) },
		OnLoggedOut:     a.onLoggedOut,
		ShowMain:        view.ShowMain,
	})
	return a
}

// Gate exposes the session gate.
func (a *App) Gate() *session.Gate { return a.gate }

// Editor exposes the edit session controller.
func (a *App) Editor() *editor.Controller { return a.editor }

// Start shows the surface that matches the persisted session state.
func (a *App) Start(ctx context.Context) error {
	if a.gate.CheckStatus() != session.Authenticated {
		a.view.ShowMain(false)
		return nil
	}
	a.view.ShowMain(true)
	return a.Refresh(ctx)
}

// Login unlocks the vault.
func (a *App) Login(ctx context.Context, master security.Secret) error {
	return a.gate.Login(ctx, master)
}

// Register creates a vault. confirm must equal master. When a vault already
// exists the user is asked to destroy it first.
func (a *App) Register(ctx context.Context, master, confirm security.Secret, encryptAtRest bool) error {
	if err := a.gate.ValidateMaster(master); err != nil {
		return err
	}
	if !master.Equal(confirm) {
		a.view.Notify(i18n.T("auth.password_mismatch"), notify.Warning)
		return ErrPasswordMismatch
	}

	exists, err := a.client.Exists(ctx)
	if err != nil {
		a.serviceFailure("auth.register_failed", err)
		return err
	}
	if exists {
		if !a.view.Confirm(i18n.T("auth.destroy_confirm")) {
			a.view.Notify(i18n.T("auth.register_cancelled"), notify.Info)
			return ErrCancelled
		}
		if err := a.client.Destroy(ctx); err != nil {
			a.serviceFailure("auth.destroy_failed", err)
			return err
		}
		a.cache.Clear()
		a.view.Notify(i18n.T("auth.destroy_success"), notify.Success)
	}
	return a.gate.Register(ctx, master, encryptAtRest)
}

// Logout locks the session.
func (a *App) Logout() error {
	return a.gate.Logout()
}

func (a *App) onLoggedOut() {
	a.cache.Clear()
	a.search.SetQuery("")
	a.editor.Cancel()
	a.mu.Lock()
	a.renderer.Reset(nil)
	a.mu.Unlock()
}

// Search applies query to the list and renders the first batch.
func (a *App) Search(query string) {
	a.search.SetQuery(query)
	a.rerender()
}

// Query returns the active search text.
func (a *App) Query() string { return a.search.Query() }

// ShowMore renders the next batch and returns how many records it added.
func (a *App) ShowMore() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.renderer.RenderNextBatch()
}

// HasMore reports whether more records are waiting to be rendered.
func (a *App) HasMore() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.renderer.HasMore()
}

// Credential returns a cached record.
func (a *App) Credential(id string) (model.Credential, bool) {
	return a.cache.Get(id)
}

// Credentials returns the cached records matching the active search.
func (a *App) Credentials() []model.Credential {
	return a.search.Apply(a.cache.Snapshot())
}

// OpenEditor opens the modal for id, or an empty create form for "".
func (a *App) OpenEditor(ctx context.Context, id string) error {
	return a.editor.Open(ctx, id)
}

// Submit saves the modal draft.
func (a *App) Submit(ctx context.Context, fields model.Fields) error {
	return a.editor.Submit(ctx, fields)
}

// Cancel closes the modal.
func (a *App) Cancel() {
	a.editor.Cancel()
}

// Delete removes id after confirmation. The list is reloaded whatever the
// outcome of the service call.
func (a *App) Delete(ctx context.Context, id string) error {
	if !a.view.Confirm(i18n.T("list.delete_confirm")) {
		a.view.Notify(i18n.T("list.delete_cancelled"), notify.Info)
		return ErrCancelled
	}
	err := a.client.Delete(ctx, id)
	if err != nil {
		a.serviceFailure("list.delete_failed", err)
	} else {
		a.view.Notify(i18n.T("list.delete_success"), notify.Success)
	}
	if rerr := a.Refresh(ctx); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

// Refresh reloads the cache and re-renders the list from the first batch.
// A failed reload keeps the previous contents on screen.
func (a *App) Refresh(ctx context.Context) error {
	err := a.cache.Reload(ctx)
	if err != nil {
		a.serviceFailure("list.load_failed", err)
	}
	a.rerender()
	return err
}

// refreshIfAuthenticated is the editor's reload hook. A save that lands
// after logout must not repopulate the cleared cache.
func (a *App) refreshIfAuthenticated(ctx context.Context) error {
	if a.gate.State() != session.Authenticated {
		return nil
	}
	return a.Refresh(ctx)
}

// rerender reads the query and the cache while holding a.mu so the last
// render to run always reflects the settled query.
func (a *App) rerender() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.renderer.Reset(a.search.Apply(a.cache.Snapshot()))
	a.renderer.RenderNextBatch()
}

func (a *App) serviceFailure(messageID string, err error) {
	if vaultclient.IsServiceError(err) {
		a.view.Notify(i18n.T(messageID, vaultclient.Reason(err)), notify.Danger)
		return
	}
	logging.Errorf("app: %s: %v", messageID, err)
	a.view.Notify(i18n.T("error.unexpected"), notify.Danger)
}
