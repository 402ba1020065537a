// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/vaultpass/internal/app"
	"github.com/toeirei/vaultpass/internal/editor"
	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/notify"
	"github.com/toeirei/vaultpass/internal/testutil"
)

// harness drives a Model the way tea.Program would, but synchronously.
type harness struct {
	t      *testing.T
	m      *Model
	msgs   chan tea.Msg
	vault  *testutil.FakeVault
	copied []string
}

func newHarness(t *testing.T, batch int) *harness {
	t.Helper()
	i18n.Init("en")
	h := &harness{t: t, msgs: make(chan tea.Msg, 256), vault: testutil.NewFakeVault()}
	s := NewSurface()
	s.Attach(func(msg tea.Msg) { h.msgs <- msg })
	t.Cleanup(s.Detach)

	a := app.New(testutil.NewClient(h.vault), s, app.Options{BatchSize: batch})
	h.m = NewModel(t.Context(), a)
	h.m.clipboard = func(secret string) error {
		h.copied = append(h.copied, secret)
		return nil
	}
	// Static cursors keep blink timers out of the returned commands.
	for i := range h.m.auth.inputs {
		h.m.auth.inputs[i].Cursor.SetMode(cursor.CursorStatic)
	}
	for i := range h.m.modal.inputs {
		h.m.modal.inputs[i].Cursor.SetMode(cursor.CursorStatic)
	}
	h.m.list.search.Cursor.SetMode(cursor.CursorStatic)
	return h
}

func (h *harness) feed(msg tea.Msg) {
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			h.run(c)
		}
		return
	}
	h.m.Update(msg)
}

func (h *harness) drain() {
	for {
		select {
		case msg := <-h.msgs:
			h.feed(msg)
		default:
			return
		}
	}
}

// run executes cmd to completion and delivers everything it produced.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		h.drain()
		return
	}
	msg := cmd()
	h.drain()
	h.feed(msg)
}

// press sends a key and runs the command it returns.
func (h *harness) press(k tea.KeyMsg) {
	_, cmd := h.m.Update(k)
	h.run(cmd)
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// pressAsync sends a key whose command blocks on a confirmation. It returns
// once the confirmation dialog is up; finish waits for the command.
func (h *harness) pressAsync(k tea.KeyMsg) (finish func()) {
	_, cmd := h.m.Update(k)
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	deadline := time.After(5 * time.Second)
	for h.m.confirm == nil {
		select {
		case msg := <-h.msgs:
			h.feed(msg)
		case <-deadline:
			h.t.Fatalf("no confirmation requested")
		}
	}
	return func() {
		for {
			select {
			case msg := <-h.msgs:
				h.feed(msg)
			case msg := <-done:
				h.drain()
				h.feed(msg)
				return
			case <-deadline:
				h.t.Fatalf("command did not finish")
			}
		}
	}
}

func (h *harness) lastToast() toast {
	h.t.Helper()
	if len(h.m.toasts) == 0 {
		h.t.Fatalf("expected a notification")
	}
	return h.m.toasts[len(h.m.toasts)-1]
}

func (h *harness) titles() []string {
	var out []string
	for _, c := range h.m.list.items {
		out = append(out, c.Title)
	}
	return out
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlR = tea.KeyMsg{Type: tea.KeyCtrlR}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyCtrlN = tea.KeyMsg{Type: tea.KeyCtrlN}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func cred(title string) model.Fields {
	return model.Fields{Title: title, Username: "user-" + title, Secret: "s-" + title}
}

// loggedIn returns a harness past the login screen with alpha, beta and
// gamma stored.
func loggedIn(t *testing.T, batch int) *harness {
	t.Helper()
	h := newHarness(t, batch)
	h.vault.Seed("master", cred("alpha"), cred("beta"), cred("gamma"))
	h.run(h.m.Init())
	if h.m.screen != authScreen {
		t.Fatalf("expected login screen on start")
	}
	h.typeText("master")
	h.press(keyEnter)
	if h.m.screen != listScreen {
		t.Fatalf("expected list screen after login, last toast %+v", h.m.toasts)
	}
	return h
}

func TestLogin_ShowsFirstBatchAndMore(t *testing.T) {
	h := loggedIn(t, 2)
	if got := h.titles(); len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Fatalf("unexpected first batch: %v", got)
	}
	if !h.m.list.more {
		t.Fatalf("expected more records pending")
	}
	if ts := h.lastToast(); ts.text != "Login successful!" || ts.severity != notify.Success {
		t.Fatalf("unexpected toast: %+v", ts)
	}
	if v := h.m.View(); !strings.Contains(v, "alpha") || !strings.Contains(v, "Press m to show more") {
		t.Fatalf("view missing list content:\n%s", v)
	}

	h.press(runes("m"))
	if got := h.titles(); len(got) != 3 || h.m.list.more {
		t.Fatalf("expected all records after show more, got %v (more=%t)", got, h.m.list.more)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t, 4)
	h.vault.Seed("master")
	h.run(h.m.Init())
	h.typeText("nope")
	h.press(keyEnter)
	if h.m.screen != authScreen || h.m.busy {
		t.Fatalf("expected to stay on an idle login screen")
	}
	if ts := h.lastToast(); ts.text != "Login failed: invalid password" || ts.severity != notify.Danger {
		t.Fatalf("unexpected toast: %+v", ts)
	}
	if h.m.auth.inputs[0].Value() != "" {
		t.Fatalf("master input must be cleared after submit")
	}
}

func TestList_RevealAndCopy(t *testing.T) {
	h := loggedIn(t, 4)
	if strings.Contains(h.m.View(), "s-alpha") {
		t.Fatalf("secret must be masked by default")
	}
	h.press(keyCtrlR)
	if !strings.Contains(h.m.View(), "s-alpha") {
		t.Fatalf("secret must be visible after ctrl+r")
	}
	h.press(keyCtrlR)
	if strings.Contains(h.m.View(), "s-alpha") {
		t.Fatalf("second ctrl+r must mask again")
	}

	h.press(keyDown)
	h.press(runes("c"))
	if len(h.copied) != 1 || h.copied[0] != "s-beta" {
		t.Fatalf("expected beta's secret copied, got %v", h.copied)
	}
	if ts := h.lastToast(); ts.text != "Password copied to clipboard" {
		t.Fatalf("unexpected toast: %+v", ts)
	}
}

func TestList_Search(t *testing.T) {
	h := loggedIn(t, 4)
	h.press(runes("/"))
	if !h.m.list.searching {
		t.Fatalf("expected search mode")
	}
	h.typeText("gam")
	if got := h.titles(); len(got) != 1 || got[0] != "gamma" {
		t.Fatalf("expected only gamma, got %v", got)
	}
	h.press(keyEsc)
	if h.m.list.searching {
		t.Fatalf("esc must leave search mode")
	}
	// Keys act on the list again.
	h.press(runes("n"))
	if !h.m.modal.visible {
		t.Fatalf("expected editor to open after leaving search")
	}
}

func TestModal_CreateAndValidate(t *testing.T) {
	h := loggedIn(t, 4)
	h.press(runes("n"))
	if !h.m.modal.visible || h.m.modal.mode != editor.Create {
		t.Fatalf("expected create modal")
	}

	h.press(keyCtrlS)
	if ts := h.lastToast(); ts.text != "Username is required" || ts.severity != notify.Warning {
		t.Fatalf("expected validation warnings, last %+v", ts)
	}
	if !h.m.modal.visible {
		t.Fatalf("modal must stay open on validation failure")
	}

	h.typeText("delta")
	h.press(keyTab)
	h.typeText("dave")
	h.press(keyTab)
	h.typeText("pw")
	h.press(keyCtrlS)
	if h.m.modal.visible {
		t.Fatalf("modal must close after save")
	}
	if h.vault.Count() != 4 {
		t.Fatalf("expected 4 records, got %d", h.vault.Count())
	}
	if ts := h.lastToast(); ts.text != "Password added successfully!" {
		t.Fatalf("unexpected toast: %+v", ts)
	}
	if got := h.titles(); len(got) != 4 || got[3] != "delta" {
		t.Fatalf("list not refreshed: %v", got)
	}
}

func TestModal_EditPrefillAndCancel(t *testing.T) {
	h := loggedIn(t, 4)
	h.press(keyDown)
	h.press(runes("e"))
	if !h.m.modal.visible || h.m.modal.mode != editor.Edit {
		t.Fatalf("expected edit modal")
	}
	if got := h.m.modal.fields(); got != cred("beta") {
		t.Fatalf("draft not prefilled: %+v", got)
	}
	if !strings.Contains(h.m.View(), "Edit Password") {
		t.Fatalf("expected edit title in view")
	}
	h.press(keyEsc)
	if h.m.modal.visible {
		t.Fatalf("esc must close the modal")
	}
}

func TestDelete_ConfirmAndDecline(t *testing.T) {
	h := loggedIn(t, 4)

	finish := h.pressAsync(runes("d"))
	if !strings.Contains(h.m.View(), "Are you sure you want to delete this password?") {
		t.Fatalf("confirmation not shown:\n%s", h.m.View())
	}
	h.press(runes("n"))
	finish()
	if h.vault.Count() != 3 {
		t.Fatalf("declined delete must keep records")
	}
	if ts := h.lastToast(); ts.text != "Deletion cancelled" || ts.severity != notify.Info {
		t.Fatalf("unexpected toast: %+v", ts)
	}

	finish = h.pressAsync(runes("d"))
	h.press(runes("y"))
	finish()
	if h.vault.Count() != 2 {
		t.Fatalf("expected record deleted, %d left", h.vault.Count())
	}
	if got := h.titles(); len(got) != 2 || got[0] != "beta" {
		t.Fatalf("list not refreshed after delete: %v", got)
	}
}

func TestLogout_ReturnsToLogin(t *testing.T) {
	h := loggedIn(t, 4)
	h.press(keyCtrlR)
	h.press(runes("L"))
	if h.m.screen != authScreen {
		t.Fatalf("expected login screen after logout")
	}
	if len(h.m.list.items) != 0 || len(h.m.list.revealed) != 0 {
		t.Fatalf("list state must be cleared on logout")
	}
	if ts := h.lastToast(); ts.text != "Logged out successfully" {
		t.Fatalf("unexpected toast: %+v", ts)
	}
}

func TestRegister_ReplacesExistingVault(t *testing.T) {
	h := newHarness(t, 4)
	h.vault.Seed("old", cred("alpha"))
	h.run(h.m.Init())

	h.press(keyCtrlN)
	if !h.m.auth.registering {
		t.Fatalf("ctrl+n must switch to registration")
	}
	h.typeText("fresh")
	h.press(keyEnter) // moves to confirmation
	h.typeText("fresh")
	finish := h.pressAsync(keyEnter)
	h.press(runes("y"))
	finish()

	if h.m.screen != listScreen || !h.m.list.empty {
		t.Fatalf("expected empty main screen after re-registering")
	}
	if h.vault.Count() != 0 {
		t.Fatalf("old records must be gone")
	}
	if ts := h.lastToast(); ts.text != "Registration successful!" {
		t.Fatalf("unexpected toast: %+v", ts)
	}
}

func TestToasts_ExpireAndCap(t *testing.T) {
	h := newHarness(t, 4)
	for i := 0; i < maxToasts+1; i++ {
		h.m.Update(notifyMsg{text: "n", severity: notify.Info})
	}
	if len(h.m.toasts) != maxToasts {
		t.Fatalf("expected %d toasts, got %d", maxToasts, len(h.m.toasts))
	}
	first := h.m.toasts[0].id
	h.m.Update(toastExpiredMsg{id: first})
	if len(h.m.toasts) != maxToasts-1 {
		t.Fatalf("expired toast not removed")
	}
}
