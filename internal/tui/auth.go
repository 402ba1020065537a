// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/security"
)

// authModel is the login / registration form shown while logged out.
type authModel struct {
	registering bool
	encrypt     bool
	focus       int
	inputs      []textinput.Model // 0: master, 1: confirmation
}

func newAuthModel() authModel {
	m := authModel{inputs: make([]textinput.Model, 2)}
	for i := range m.inputs {
		t := textinput.New()
		t.Cursor.Style = focusedStyle
		t.EchoMode = textinput.EchoPassword
		t.EchoCharacter = '•'
		t.Width = 40
		switch i {
		case 0:
			t.Prompt = i18n.T("tui.auth.master_prompt")
		case 1:
			t.Prompt = i18n.T("tui.auth.confirm_prompt")
		}
		m.inputs[i] = t
	}
	m.inputs[0].Focus()
	return m
}

// fieldCount is the number of inputs the current mode uses.
func (m *authModel) fieldCount() int {
	if m.registering {
		return 2
	}
	return 1
}

func (m *authModel) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
			continue
		}
		m.inputs[j].Blur()
	}
	return cmd
}

// reset clears both inputs and keeps the current mode.
func (m *authModel) reset() {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.setFocus(0)
}

// take returns the entered secrets and clears the form.
func (m *authModel) take() (master, confirm security.Secret) {
	master = security.FromString(m.inputs[0].Value())
	confirm = security.FromString(m.inputs[1].Value())
	m.reset()
	return master, confirm
}

func (t *Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m := &t.auth
	k := t.keys.auth
	if t.busy {
		return t, nil
	}
	switch {
	case key.Matches(msg, k.Quit):
		return t, tea.Quit
	case key.Matches(msg, k.Switch):
		m.registering = !m.registering
		m.reset()
		return t, nil
	case key.Matches(msg, k.Encrypt):
		if m.registering {
			m.encrypt = !m.encrypt
		}
		return t, nil
	case key.Matches(msg, k.Next):
		next := (m.focus + 1) % m.fieldCount()
		return t, m.setFocus(next)
	case key.Matches(msg, k.Submit):
		if m.focus+1 < m.fieldCount() {
			return t, m.setFocus(m.focus + 1)
		}
		return t, t.submitAuth()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return t, cmd
}

func (t *Model) submitAuth() tea.Cmd {
	m := &t.auth
	master, confirm := m.take()
	t.busy = true
	a := t.app
	if m.registering {
		encrypt := m.encrypt
		return t.op(opRegister, func(ctx context.Context) error {
			defer master.Zero()
			defer confirm.Zero()
			return a.Register(ctx, master, confirm, encrypt)
		})
	}
	confirm.Zero()
	return t.op(opLogin, func(ctx context.Context) error {
		defer master.Zero()
		return a.Login(ctx, master)
	})
}

func (t *Model) viewAuth() string {
	m := &t.auth
	var b strings.Builder
	heading := i18n.T("tui.auth.login_heading")
	if m.registering {
		heading = i18n.T("tui.auth.register_heading")
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n")
	for i := 0; i < m.fieldCount(); i++ {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	if m.registering {
		box := "☐ "
		if m.encrypt {
			box = "☑ "
		}
		b.WriteString("\n" + formItemStyle.Render(box+i18n.T("tui.auth.encrypt")) + "\n")
	}
	if t.busy {
		b.WriteString("\n" + specialStyle.Render(i18n.T("tui.auth.working")) + "\n")
	}
	b.WriteString("\n" + t.help.View(t.keys.auth))

	return lipgloss.JoinVertical(lipgloss.Left,
		mainTitleStyle.Render(i18n.T("tui.title")),
		dialogBoxStyle.Render(b.String()),
	)
}
