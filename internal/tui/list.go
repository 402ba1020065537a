// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/model"
)

const secretMask = "••••••••"

// listModel mirrors what the renderer has emitted since the last clear.
type listModel struct {
	items    []model.Credential
	empty    bool
	more     bool
	cursor   int
	revealed map[string]bool

	search    textinput.Model
	searching bool
}

func newListModel() listModel {
	s := textinput.New()
	s.Prompt = i18n.T("tui.list.search_prompt")
	s.Placeholder = i18n.T("tui.list.search_placeholder")
	s.Cursor.Style = focusedStyle
	s.Width = 40
	return listModel{search: s, revealed: map[string]bool{}}
}

func (l *listModel) clear() {
	l.items = nil
	l.empty = false
	l.cursor = 0
	l.revealed = map[string]bool{}
}

func (l *listModel) append(batch []model.Credential) {
	l.items = append(l.items, batch...)
	l.empty = false
}

// reset drops every trace of the previous session.
func (l *listModel) reset() {
	l.clear()
	l.more = false
	l.searching = false
	l.search.Blur()
	l.search.Reset()
}

func (l *listModel) selected() (model.Credential, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return model.Credential{}, false
	}
	return l.items[l.cursor], true
}

// toggleReveal flips secret visibility of the selected record.
func (l *listModel) toggleReveal() {
	if c, ok := l.selected(); ok {
		l.revealed[c.ID] = !l.revealed[c.ID]
	}
}

func (t *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &t.list
	if l.searching {
		return t.updateSearch(msg)
	}

	k := t.keys.list
	a := t.app
	switch {
	case key.Matches(msg, k.Quit):
		return t, tea.Quit
	case key.Matches(msg, k.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(msg, k.Down):
		if l.cursor < len(l.items)-1 {
			l.cursor++
		}
	case key.Matches(msg, k.Search):
		l.searching = true
		return t, l.search.Focus()
	case key.Matches(msg, k.Reveal):
		l.toggleReveal()
	case key.Matches(msg, k.New):
		return t, t.op(opOpenEditor, func(ctx context.Context) error { return a.OpenEditor(ctx, "") })
	case key.Matches(msg, k.Edit):
		if c, ok := l.selected(); ok {
			return t, t.op(opOpenEditor, func(ctx context.Context) error { return a.OpenEditor(ctx, c.ID) })
		}
	case key.Matches(msg, k.Delete):
		if c, ok := l.selected(); ok {
			return t, t.op(opDelete, func(ctx context.Context) error { return a.Delete(ctx, c.ID) })
		}
	case key.Matches(msg, k.Copy):
		if c, ok := l.selected(); ok {
			return t, t.copySecret(c.Secret)
		}
	case key.Matches(msg, k.More):
		if l.more {
			return t, t.op(opShowMore, func(context.Context) error { a.ShowMore(); return nil })
		}
	case key.Matches(msg, k.Logout):
		return t, t.op(opLogout, func(context.Context) error { return a.Logout() })
	}
	return t, nil
}

func (t *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &t.list
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		l.searching = false
		l.search.Blur()
		return t, nil
	}
	before := l.search.Value()
	var cmd tea.Cmd
	l.search, cmd = l.search.Update(msg)
	if q := l.search.Value(); q != before {
		a := t.app
		return t, tea.Batch(cmd, t.op(opSearch, func(context.Context) error { a.Search(q); return nil }))
	}
	return t, cmd
}

// copySecret writes secret to the system clipboard.
func (t *Model) copySecret(secret string) tea.Cmd {
	write := t.clipboard
	return func() tea.Msg {
		return copiedMsg{err: write(secret)}
	}
}

func (t *Model) viewList() string {
	l := &t.list
	var b strings.Builder
	b.WriteString(mainTitleStyle.Render(i18n.T("tui.list.title")))
	b.WriteString("\n")
	if l.searching || l.search.Value() != "" {
		b.WriteString(l.search.View() + "\n\n")
	}

	switch {
	case l.empty:
		b.WriteString(titleStyle.Render(i18n.T("list.empty_title")) + "\n")
		b.WriteString(helpStyle.Render(i18n.T("list.empty_hint")) + "\n")
	default:
		for i, c := range l.items {
			b.WriteString(t.viewItem(i, c))
			b.WriteString("\n")
		}
	}
	if l.more {
		b.WriteString("\n" + helpStyle.Render(i18n.T("tui.list.show_more")) + "\n")
	}
	return b.String()
}

func (t *Model) viewItem(i int, c model.Credential) string {
	l := &t.list
	line := fmt.Sprintf("%s  %s", c.Title, helpStyle.Render(c.Username))
	if i != l.cursor {
		return itemStyle.Render(line)
	}
	rows := []string{selectedItemStyle.Render("▸ " + c.Title)}
	detail := func(label, value string) {
		rows = append(rows, detailStyle.Render(detailLabelStyle.Render(label)+value))
	}
	detail(i18n.T("tui.list.username"), c.Username)
	secret := secretMask
	if l.revealed[c.ID] {
		secret = c.Secret
	}
	detail(i18n.T("tui.list.password"), secret)
	if c.HasURL() {
		detail(i18n.T("tui.list.url"), c.URL)
	}
	if c.Notes != "" {
		detail(i18n.T("tui.list.notes"), c.Notes)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
