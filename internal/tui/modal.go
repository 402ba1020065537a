// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/vaultpass/internal/editor"
	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/model"
)

const (
	fieldTitle = iota
	fieldUsername
	fieldPassword
	fieldURL
	fieldNotes
	fieldCount
)

// modalModel is the create/edit form.
type modalModel struct {
	visible bool
	mode    editor.Mode
	focus   int
	reveal  bool
	inputs  []textinput.Model
}

func newModalModel() modalModel {
	m := modalModel{inputs: make([]textinput.Model, fieldCount)}
	prompts := []string{"tui.modal.field_title", "tui.modal.field_username", "tui.modal.field_password", "tui.modal.field_url", "tui.modal.field_notes"}
	for i := range m.inputs {
		t := textinput.New()
		t.Cursor.Style = focusedStyle
		t.Prompt = i18n.T(prompts[i])
		t.Width = 40
		t.CharLimit = 256
		switch i {
		case fieldPassword:
			t.EchoMode = textinput.EchoPassword
			t.EchoCharacter = '•'
		case fieldURL:
			t.Placeholder = "https://example.com"
		case fieldNotes:
			t.CharLimit = model.MaxNotesLength
		}
		m.inputs[i] = t
	}
	return m
}

// open fills the form with draft and focuses the first field.
func (m *modalModel) open(draft model.Fields, mode editor.Mode) tea.Cmd {
	m.visible = true
	m.mode = mode
	m.reveal = false
	m.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	values := []string{draft.Title, draft.Username, draft.Secret, draft.URL, draft.Notes}
	for i := range m.inputs {
		m.inputs[i].SetValue(values[i])
	}
	return m.setFocus(fieldTitle)
}

func (m *modalModel) close() {
	m.visible = false
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
}

func (m *modalModel) setFocus(i int) tea.Cmd {
	m.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == m.focus {
			cmd = m.inputs[j].Focus()
			continue
		}
		m.inputs[j].Blur()
	}
	return cmd
}

func (m *modalModel) toggleReveal() {
	m.reveal = !m.reveal
	if m.reveal {
		m.inputs[fieldPassword].EchoMode = textinput.EchoNormal
	} else {
		m.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	}
}

// fields returns the form contents as entered.
func (m *modalModel) fields() model.Fields {
	return model.Fields{
		Title:    m.inputs[fieldTitle].Value(),
		Username: m.inputs[fieldUsername].Value(),
		Secret:   m.inputs[fieldPassword].Value(),
		URL:      m.inputs[fieldURL].Value(),
		Notes:    m.inputs[fieldNotes].Value(),
	}
}

func (t *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m := &t.modal
	k := t.keys.modal
	a := t.app
	switch {
	case key.Matches(msg, k.Cancel):
		return t, t.op(opCancel, func(context.Context) error { a.Cancel(); return nil })
	case key.Matches(msg, k.Save):
		return t, t.submitModal()
	case msg.Type == tea.KeyEnter:
		if m.focus == fieldCount-1 {
			return t, t.submitModal()
		}
		return t, m.setFocus(m.focus + 1)
	case key.Matches(msg, k.Next):
		return t, m.setFocus(m.focus + 1)
	case key.Matches(msg, k.Prev):
		return t, m.setFocus(m.focus - 1)
	case key.Matches(msg, k.Reveal):
		m.toggleReveal()
		return t, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return t, cmd
}

func (t *Model) submitModal() tea.Cmd {
	fields := t.modal.fields()
	a := t.app
	return t.op(opSubmit, func(ctx context.Context) error { return a.Submit(ctx, fields) })
}

func (t *Model) viewModal() string {
	m := &t.modal
	title := i18n.T("tui.modal.add_title")
	if m.mode == editor.Edit {
		title = i18n.T("tui.modal.edit_title")
	}
	rows := []string{titleStyle.Render(title)}
	for i := range m.inputs {
		rows = append(rows, m.inputs[i].View())
	}
	notes := utf8.RuneCountInString(m.inputs[fieldNotes].Value())
	rows = append(rows,
		helpStyle.Render(i18n.T("tui.modal.notes_counter", notes, model.MaxNotesLength)),
		"",
		t.help.View(t.keys.modal),
	)
	return dialogBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
