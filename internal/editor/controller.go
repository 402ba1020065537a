// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package editor implements the create/edit modal: loading a target,
// validating a draft and submitting it to the service.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/logging"
	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/notify"
	"github.com/toeirei/vaultpass/internal/vaultclient"
)

// State of the edit session.
type State int

const (
	Idle State = iota
	Editing
	Validating
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Mode tells the modal whether it creates or edits.
type Mode int

const (
	Create Mode = iota
	Edit
)

func (m Mode) String() string {
	if m == Edit {
		return "edit"
	}
	return "create"
}

var (
	// ErrNotEditing is returned by Submit outside the Editing state.
	ErrNotEditing = errors.New("no draft is being edited")
	// ErrStale is returned when a result arrived for a session that has
	// since been cancelled or replaced. It was ignored.
	ErrStale = errors.New("edit session no longer active")
)

// ValidationError lists the violated rules of a rejected draft.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid draft: " + strings.Join(e.Violations, "; ")
}

// Backend is the part of the vault client the editor uses.
type Backend interface {
	Get(ctx context.Context, id string) (model.Credential, error)
	Add(ctx context.Context, f model.Fields) (string, error)
	Update(ctx context.Context, id string, f model.Fields) (string, error)
}

var _ Backend = (*vaultclient.Client)(nil)

// Surface shows and hides the modal.
type Surface interface {
	ShowModal(draft model.Fields, mode Mode)
	HideModal()
}

// Controller is the edit session state machine.
type Controller struct {
	backend  Backend
	surface  Surface
	notifier notify.Notifier
	reload   func(ctx context.Context) error

	mu     sync.Mutex
	state  State
	mode   Mode
	target string
	draft  model.Fields
	token  uint64
}

// New returns an idle Controller. reload refreshes the cache and the list
// after a successful save.
func New(b Backend, s Surface, n notify.Notifier, reload func(ctx context.Context) error) *Controller {
	return &Controller{backend: b, surface: s, notifier: n, reload: reload}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mode returns the mode of the current session.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Target returns the id being edited, or "" in create mode.
func (c *Controller) Target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Draft returns the last draft seen by the controller.
func (c *Controller) Draft() model.Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Open starts a session. With an empty targetID it opens an empty create
// form; otherwise it loads the record from the service, bypassing the cache.
func (c *Controller) Open(ctx context.Context, targetID string) error {
	c.mu.Lock()
	c.token++
	tok := c.token
	if targetID == "" {
		c.state, c.mode, c.target, c.draft = Editing, Create, "", model.Fields{}
		c.mu.Unlock()
		c.surface.ShowModal(model.Fields{}, Create)
		return nil
	}
	c.state = Idle
	c.mu.Unlock()

	cred, err := c.backend.Get(ctx, targetID)

	c.mu.Lock()
	if tok != c.token {
		c.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		c.state = Idle
		c.mu.Unlock()
		switch {
		case errors.Is(err, vaultclient.ErrNotFound):
			c.notifier.Notify(i18n.T("editor.not_found", targetID), notify.Danger)
		case vaultclient.IsServiceError(err):
			c.notifier.Notify(i18n.T("editor.load_failed", vaultclient.Reason(err)), notify.Danger)
		default:
			logging.Errorf("editor: load %s: %v", targetID, err)
			c.notifier.Notify(i18n.T("error.unexpected"), notify.Danger)
		}
		return err
	}
	c.state, c.mode, c.target, c.draft = Editing, Edit, targetID, cred.Fields
	c.mu.Unlock()
	c.surface.ShowModal(cred.Fields, Edit)
	return nil
}

// Submit validates fields and saves them. Violations produce one warning
// each and keep the session editing; service failures keep the draft.
func (c *Controller) Submit(ctx context.Context, fields model.Fields) error {
	c.mu.Lock()
	if c.state != Editing {
		st := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrNotEditing, st)
	}
	c.state = Validating
	c.draft = fields
	tok, mode, target := c.token, c.mode, c.target
	c.mu.Unlock()

	if violations := Validate(fields); len(violations) > 0 {
		c.mu.Lock()
		if tok == c.token {
			c.state = Editing
		}
		c.mu.Unlock()
		for _, v := range violations {
			c.notifier.Notify(v, notify.Warning)
		}
		return &ValidationError{Violations: violations}
	}

	c.mu.Lock()
	if tok != c.token {
		c.mu.Unlock()
		return ErrStale
	}
	c.state = Submitting
	c.mu.Unlock()

	payload := Normalize(fields)
	var err error
	if mode == Edit {
		_, err = c.backend.Update(ctx, target, payload)
	} else {
		_, err = c.backend.Add(ctx, payload)
	}

	c.mu.Lock()
	if tok != c.token || c.state != Submitting {
		c.mu.Unlock()
		logging.Debugf("editor: ignoring late %s result", mode)
		if err == nil && c.reload != nil {
			if rerr := c.reload(ctx); rerr != nil {
				logging.Warnf("editor: reload after late save: %v", rerr)
			}
		}
		return ErrStale
	}
	if err != nil {
		c.state = Editing
		c.mu.Unlock()
		if vaultclient.IsServiceError(err) {
			c.notifier.Notify(i18n.T("editor.save_failed", vaultclient.Reason(err)), notify.Danger)
		} else {
			logging.Errorf("editor: save: %v", err)
			c.notifier.Notify(i18n.T("error.unexpected"), notify.Danger)
		}
		return err
	}
	c.state = Idle
	c.target = ""
	c.mu.Unlock()

	c.surface.HideModal()
	if c.reload != nil {
		if rerr := c.reload(ctx); rerr != nil {
			logging.Warnf("editor: reload after save: %v", rerr)
		}
	}
	if mode == Edit {
		c.notifier.Notify(i18n.T("editor.update_success"), notify.Success)
	} else {
		c.notifier.Notify(i18n.T("editor.add_success"), notify.Success)
	}
	return nil
}

// Cancel closes the modal. Results still in flight change no state and
// notify nothing, but a save that succeeds anyway still reloads the cache.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.token++
	c.state = Idle
	c.target = ""
	c.mu.Unlock()
	c.surface.HideModal()
}
