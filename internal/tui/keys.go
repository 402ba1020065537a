// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/toeirei/vaultpass/internal/i18n"
)

type authKeyMap struct {
	Next    key.Binding
	Submit  key.Binding
	Switch  key.Binding
	Encrypt key.Binding
	Quit    key.Binding
}

func (k authKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Switch, k.Encrypt, k.Quit}
}

func (k authKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var _ help.KeyMap = authKeyMap{}

type listKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Search key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Copy   key.Binding
	Reveal key.Binding
	More   key.Binding
	Logout key.Binding
	Quit   key.Binding
}

func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Search, k.New, k.Edit, k.Delete, k.Copy, k.Reveal, k.More, k.Logout, k.Quit}
}

func (k listKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var _ help.KeyMap = listKeyMap{}

type modalKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Reveal key.Binding
	Save   key.Binding
	Cancel key.Binding
}

func (k modalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Reveal, k.Save, k.Cancel}
}

func (k modalKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var _ help.KeyMap = modalKeyMap{}

type confirmKeyMap struct {
	Toggle key.Binding
	Yes    key.Binding
	No     key.Binding
	Select key.Binding
}

func (k confirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Yes, k.No, k.Select}
}

func (k confirmKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var _ help.KeyMap = confirmKeyMap{}

// keyMaps holds every binding of the interface. Help texts are translated
// when the maps are built, so they are rebuilt on language changes.
type keyMaps struct {
	auth    authKeyMap
	list    listKeyMap
	modal   modalKeyMap
	confirm confirmKeyMap
	quit    key.Binding
}

func newKeyMaps() keyMaps {
	bind := func(help string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
	}
	return keyMaps{
		auth: authKeyMap{
			Next:    bind(i18n.T("tui.help.next"), "tab", "shift+tab"),
			Submit:  bind(i18n.T("tui.help.submit"), "enter"),
			Switch:  bind(i18n.T("tui.help.switch_mode"), "ctrl+n"),
			Encrypt: bind(i18n.T("tui.help.encrypt"), "ctrl+e"),
			Quit:    bind(i18n.T("tui.help.quit"), "esc"),
		},
		list: listKeyMap{
			Up:     bind(i18n.T("tui.help.up"), "up", "k"),
			Down:   bind(i18n.T("tui.help.down"), "down", "j"),
			Search: bind(i18n.T("tui.help.search"), "/"),
			New:    bind(i18n.T("tui.help.new"), "n"),
			Edit:   bind(i18n.T("tui.help.edit"), "e", "enter"),
			Delete: bind(i18n.T("tui.help.delete"), "d"),
			Copy:   bind(i18n.T("tui.help.copy"), "c"),
			Reveal: bind(i18n.T("tui.help.reveal"), "ctrl+r"),
			More:   bind(i18n.T("tui.help.more"), "m", " "),
			Logout: bind(i18n.T("tui.help.logout"), "L"),
			Quit:   bind(i18n.T("tui.help.quit"), "q"),
		},
		modal: modalKeyMap{
			Next:   bind(i18n.T("tui.help.next"), "tab", "down"),
			Prev:   bind(i18n.T("tui.help.prev"), "shift+tab", "up"),
			Reveal: bind(i18n.T("tui.help.reveal"), "ctrl+r"),
			Save:   bind(i18n.T("tui.help.save"), "ctrl+s"),
			Cancel: bind(i18n.T("tui.help.cancel"), "esc"),
		},
		confirm: confirmKeyMap{
			Toggle: bind(i18n.T("tui.help.toggle"), "tab", "left", "right"),
			Yes:    bind(i18n.T("tui.help.yes"), "y"),
			No:     bind(i18n.T("tui.help.no"), "n", "esc"),
			Select: bind(i18n.T("tui.help.select"), "enter"),
		},
		quit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}
