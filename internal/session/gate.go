// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package session owns the authentication state of a VaultPass client and
// gates access to the vault behind it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/logging"
	"github.com/toeirei/vaultpass/internal/notify"
	"github.com/toeirei/vaultpass/internal/security"
	"github.com/toeirei/vaultpass/internal/vaultclient"
)

// MinMasterLength is the shortest master secret accepted for registration.
const MinMasterLength = 1

// State is the authentication state of the session.
type State int

const (
	LoggedOut State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged out"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrInvalidTransition is returned when an action is not allowed in the
	// current state, such as logging in while a login is in flight.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrPasswordTooShort is returned before any remote call when the master
	// secret is shorter than MinMasterLength.
	ErrPasswordTooShort = errors.New("master password too short")
)

// Authenticator is the part of the vault client the gate drives.
type Authenticator interface {
	Register(ctx context.Context, master security.Secret, encryptAtRest bool) error
	Login(ctx context.Context, master security.Secret) error
}

var _ Authenticator = (*vaultclient.Client)(nil)

// Hooks let the owner react to state changes. Nil hooks are skipped.
type Hooks struct {
	// OnAuthenticated populates the cache and refreshes the view.
	OnAuthenticated func(ctx context.Context)
	// OnLoggedOut clears the cache.
	OnLoggedOut func()
	// ShowMain reveals or hides the main surface.
	ShowMain func(visible bool)
}

// Gate is the authentication state machine.
type Gate struct {
	sc       *Context
	auth     Authenticator
	notifier notify.Notifier
	hooks    Hooks

	mu    sync.Mutex
	state State
}

// NewGate returns a Gate whose initial state follows the persisted flag.
func NewGate(sc *Context, auth Authenticator, n notify.Notifier, hooks Hooks) *Gate {
	g := &Gate{sc: sc, auth: auth, notifier: n, hooks: hooks}
	if sc.Authenticated() {
		g.state = Authenticated
	}
	return g
}

// CheckStatus reads the persisted flag only.
func (g *Gate) CheckStatus() State {
	if g.sc.Authenticated() {
		return Authenticated
	}
	return LoggedOut
}

// State returns the in-memory state, including Authenticating.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// ValidateMaster warns and returns ErrPasswordTooShort when master is too
// short to register with.
func (g *Gate) ValidateMaster(master security.Secret) error {
	if master.Len() < MinMasterLength {
		g.notifier.Notify(i18n.T("auth.password_too_short", MinMasterLength), notify.Warning)
		return ErrPasswordTooShort
	}
	return nil
}

func (g *Gate) begin() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != LoggedOut {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, g.state, Authenticating)
	}
	g.state = Authenticating
	return nil
}

func (g *Gate) finish(ok bool) {
	g.mu.Lock()
	if ok {
		g.state = Authenticated
	} else {
		g.state = LoggedOut
	}
	g.mu.Unlock()
	if ok {
		g.sc.setAuthenticated(true)
	}
}

// Register creates a vault and enters the authenticated state.
func (g *Gate) Register(ctx context.Context, master security.Secret, encryptAtRest bool) error {
	if err := g.ValidateMaster(master); err != nil {
		return err
	}
	if err := g.begin(); err != nil {
		return err
	}
	if err := g.auth.Register(ctx, master, encryptAtRest); err != nil {
		g.finish(false)
		g.fail("auth.register_failed", err)
		return err
	}
	g.finish(true)
	g.notifier.Notify(i18n.T("auth.register_success"), notify.Success)
	g.enter(ctx)
	return nil
}

// Login unlocks an existing vault and enters the authenticated state.
func (g *Gate) Login(ctx context.Context, master security.Secret) error {
	if err := g.begin(); err != nil {
		return err
	}
	if err := g.auth.Login(ctx, master); err != nil {
		g.finish(false)
		g.fail("auth.login_failed", err)
		return err
	}
	g.finish(true)
	g.notifier.Notify(i18n.T("auth.login_success"), notify.Success)
	g.enter(ctx)
	return nil
}

func (g *Gate) enter(ctx context.Context) {
	if g.hooks.ShowMain != nil {
		g.hooks.ShowMain(true)
	}
	if g.hooks.OnAuthenticated != nil {
		g.hooks.OnAuthenticated(ctx)
	}
}

func (g *Gate) fail(messageID string, err error) {
	if !vaultclient.IsServiceError(err) {
		logging.Errorf("session: %s: %v", messageID, err)
		g.notifier.Notify(i18n.T("error.unexpected"), notify.Danger)
		return
	}
	g.notifier.Notify(i18n.T(messageID, vaultclient.Reason(err)), notify.Danger)
}

// Logout leaves the authenticated state. It makes no remote call.
func (g *Gate) Logout() error {
	g.mu.Lock()
	if g.state != Authenticated {
		st := g.state
		g.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, st, LoggedOut)
	}
	g.state = LoggedOut
	g.mu.Unlock()

	g.sc.setAuthenticated(false)
	if g.hooks.OnLoggedOut != nil {
		g.hooks.OnLoggedOut()
	}
	if g.hooks.ShowMain != nil {
		g.hooks.ShowMain(false)
	}
	g.notifier.Notify(i18n.T("auth.logout_success"), notify.Success)
	return nil
}
