// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/vaultpass/internal/app"
	"github.com/toeirei/vaultpass/internal/editor"
	"github.com/toeirei/vaultpass/internal/logging"
	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/notify"
)

// Messages posted by Surface into the program loop.
type (
	renderListMsg struct{ batch []model.Credential }
	emptyStateMsg struct{}
	clearListMsg  struct{}
	showModalMsg  struct {
		draft model.Fields
		mode  editor.Mode
	}
	hideModalMsg struct{}
	notifyMsg    struct {
		text     string
		severity notify.Severity
	}
	confirmMsg struct {
		text  string
		reply chan<- bool
	}
	showMainMsg struct{ visible bool }
)

// Surface implements app.View by posting messages to a running program.
// Its methods must be called from outside the program's Update loop, i.e.
// from tea.Cmd goroutines.
type Surface struct {
	mu   sync.Mutex
	send func(tea.Msg)

	done      chan struct{}
	closeOnce sync.Once
}

var _ app.View = (*Surface)(nil)

// NewSurface returns a detached Surface. Output is dropped until Attach.
func NewSurface() *Surface {
	return &Surface{done: make(chan struct{})}
}

// Attach routes output to send, typically (*tea.Program).Send.
func (s *Surface) Attach(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

// Detach stops delivery and releases any goroutine blocked in Confirm.
func (s *Surface) Detach() {
	s.closeOnce.Do(func() { close(s.done) })
	s.mu.Lock()
	s.send = nil
	s.mu.Unlock()
}

func (s *Surface) post(msg tea.Msg) bool {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
	}
	send(msg)
	return true
}

func (s *Surface) RenderList(batch []model.Credential) { s.post(renderListMsg{batch: batch}) }
func (s *Surface) RenderEmptyState()                   { s.post(emptyStateMsg{}) }
func (s *Surface) ClearList()                          { s.post(clearListMsg{}) }

func (s *Surface) ShowModal(draft model.Fields, mode editor.Mode) {
	s.post(showModalMsg{draft: draft, mode: mode})
}

func (s *Surface) HideModal()            { s.post(hideModalMsg{}) }
func (s *Surface) ShowMain(visible bool) { s.post(showMainMsg{visible: visible}) }

func (s *Surface) Notify(message string, severity notify.Severity) {
	logging.Debugf("notify [%s]: %s", severity, message)
	s.post(notifyMsg{text: message, severity: severity})
}

// Confirm shows a yes/no dialog and waits for the answer. A detached
// Surface answers no.
func (s *Surface) Confirm(message string) bool {
	reply := make(chan bool, 1)
	if !s.post(confirmMsg{text: message, reply: reply}) {
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-s.done:
		return false
	}
}
