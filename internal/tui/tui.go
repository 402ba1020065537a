// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for VaultPass.
// This file holds the top-level model that routes keys to the active
// screen and renders the overlays (modal, confirmation, toasts).
package tui // import "github.com/toeirei/vaultpass/internal/tui"

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/vaultpass/internal/app"
	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/logging"
	"github.com/toeirei/vaultpass/internal/notify"
)

// ToastDuration is how long a notification stays on screen.
const ToastDuration = 3 * time.Second

const maxToasts = 3

// screen is the surface currently shown below the overlays.
type screen int

const (
	authScreen screen = iota
	listScreen
)

// op names a background application call.
type op string

const (
	opStart      op = "start"
	opLogin      op = "login"
	opRegister   op = "register"
	opLogout     op = "logout"
	opSearch     op = "search"
	opShowMore   op = "show_more"
	opOpenEditor op = "open_editor"
	opSubmit     op = "submit"
	opCancel     op = "cancel"
	opDelete     op = "delete"
)

// opDoneMsg reports the end of a background application call.
type opDoneMsg struct {
	op   op
	err  error
	more bool
}

type toastExpiredMsg struct{ id int }

type copiedMsg struct{ err error }

type toast struct {
	id       int
	text     string
	severity notify.Severity
}

type confirmState struct {
	text  string
	reply chan<- bool
	yes   bool
}

// Model is the root bubbletea model.
type Model struct {
	app       *app.App
	ctx       context.Context
	clipboard func(string) error

	screen        screen
	width, height int
	busy          bool

	keys    keyMaps
	help    help.Model
	auth    authModel
	list    listModel
	modal   modalModel
	confirm *confirmState

	toasts    []toast
	nextToast int
}

// NewModel returns the root model driving a. ctx bounds every call made on
// the user's behalf.
func NewModel(ctx context.Context, a *app.App) *Model {
	return &Model{
		app:       a,
		ctx:       ctx,
		clipboard: clipboard.WriteAll,
		keys:      newKeyMaps(),
		help:      help.New(),
		auth:      newAuthModel(),
		list:      newListModel(),
		modal:     newModalModel(),
	}
}

// op runs fn off the event loop. Surface output produced by fn reaches the
// loop before the returned opDoneMsg.
func (t *Model) op(name op, fn func(ctx context.Context) error) tea.Cmd {
	a, ctx := t.app, t.ctx
	return func() tea.Msg {
		err := fn(ctx)
		if err != nil {
			logging.Debugf("tui: %s: %v", name, err)
		}
		return opDoneMsg{op: name, err: err, more: a.HasMore()}
	}
}

func (t *Model) Init() tea.Cmd {
	a := t.app
	return t.op(opStart, a.Start)
}

func (t *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width, t.height = msg.Width, msg.Height
		t.help.Width = msg.Width
		return t, nil

	case renderListMsg:
		t.list.append(msg.batch)
	case emptyStateMsg:
		t.list.empty = true
	case clearListMsg:
		t.list.clear()
	case showModalMsg:
		return t, t.modal.open(msg.draft, msg.mode)
	case hideModalMsg:
		t.modal.close()
	case showMainMsg:
		if msg.visible {
			t.screen = listScreen
		} else {
			t.screen = authScreen
			t.list.reset()
			t.modal.close()
			t.auth.reset()
		}
	case confirmMsg:
		if t.confirm != nil {
			t.confirm.reply <- false
		}
		t.confirm = &confirmState{text: msg.text, reply: msg.reply}
	case notifyMsg:
		return t, t.pushToast(msg.text, msg.severity)
	case toastExpiredMsg:
		t.dropToast(msg.id)
	case copiedMsg:
		if msg.err != nil {
			return t, t.pushToast(i18n.T("tui.list.copy_failed", msg.err.Error()), notify.Danger)
		}
		return t, t.pushToast(i18n.T("tui.list.copied"), notify.Success)
	case opDoneMsg:
		t.list.more = msg.more
		if msg.op == opLogin || msg.op == opRegister || msg.op == opStart {
			t.busy = false
		}
	case tea.KeyMsg:
		return t.updateKey(msg)
	}
	return t, nil
}

func (t *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, t.keys.quit) {
		t.answer(false)
		return t, tea.Quit
	}
	switch {
	case t.confirm != nil:
		return t.updateConfirm(msg)
	case t.screen == authScreen:
		return t.updateAuth(msg)
	case t.modal.visible:
		return t.updateModal(msg)
	default:
		return t.updateList(msg)
	}
}

// answer resolves a pending confirmation.
func (t *Model) answer(yes bool) {
	if t.confirm == nil {
		return
	}
	t.confirm.reply <- yes
	t.confirm = nil
}

func (t *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := t.keys.confirm
	switch {
	case key.Matches(msg, k.Toggle):
		t.confirm.yes = !t.confirm.yes
	case key.Matches(msg, k.Yes):
		t.answer(true)
	case key.Matches(msg, k.No):
		t.answer(false)
	case key.Matches(msg, k.Select):
		t.answer(t.confirm.yes)
	}
	return t, nil
}

func (t *Model) pushToast(text string, severity notify.Severity) tea.Cmd {
	id := t.nextToast
	t.nextToast++
	t.toasts = append(t.toasts, toast{id: id, text: text, severity: severity})
	if len(t.toasts) > maxToasts {
		t.toasts = t.toasts[len(t.toasts)-maxToasts:]
	}
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (t *Model) dropToast(id int) {
	for i, ts := range t.toasts {
		if ts.id == id {
			t.toasts = append(t.toasts[:i], t.toasts[i+1:]...)
			return
		}
	}
}

func (t *Model) View() string {
	var body string
	switch {
	case t.confirm != nil:
		body = t.viewConfirm()
	case t.screen == authScreen:
		body = t.viewAuth()
	case t.modal.visible:
		body = t.viewModal()
	default:
		body = t.viewList()
	}
	if t.width > 0 && t.height > 0 && (t.confirm != nil || t.modal.visible) {
		body = lipgloss.Place(t.width, t.height-len(t.toasts)*3-1, lipgloss.Center, lipgloss.Center, body)
	}

	parts := []string{body}
	for _, ts := range t.toasts {
		parts = append(parts, toastStyleFor(ts.severity).Render(ts.text))
	}
	if t.screen == listScreen && t.confirm == nil && !t.modal.visible {
		parts = append(parts, footerStyle.Render(AlignFooter(t.help.View(t.keys.list), "", t.width-4)))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (t *Model) viewConfirm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("tui.confirm.title")))
	b.WriteString("\n")
	b.WriteString(t.confirm.text)
	b.WriteString("\n")

	yes, no := buttonStyle.Render(i18n.T("tui.confirm.yes")), activeButtonStyle.Render(i18n.T("tui.confirm.no"))
	if t.confirm.yes {
		yes, no = activeButtonStyle.Render(i18n.T("tui.confirm.yes")), buttonStyle.Render(i18n.T("tui.confirm.no"))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, no, "  ", yes))
	b.WriteString("\n\n" + t.help.View(t.keys.confirm))
	return dialogBoxStyle.Render(b.String())
}

// Run starts the interactive interface over client and blocks until the
// user quits.
func Run(ctx context.Context, client app.Client, opts app.Options) error {
	s := NewSurface()
	a := app.New(client, s, opts)
	p := tea.NewProgram(NewModel(ctx, a), tea.WithAltScreen(), tea.WithContext(ctx))
	s.Attach(p.Send)
	defer s.Detach()

	if _, err := p.Run(); err != nil {
		logging.Errorf("TUI run error: %v", err)
		return err
	}
	return nil
}
