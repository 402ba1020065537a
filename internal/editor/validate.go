// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package editor

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/model"
)

// Normalize trims every field of f, the secret included.
func Normalize(f model.Fields) model.Fields {
	f.Title = strings.TrimSpace(f.Title)
	f.Username = strings.TrimSpace(f.Username)
	f.Secret = strings.TrimSpace(f.Secret)
	f.URL = strings.TrimSpace(f.URL)
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}

// ValidURL reports whether s parses as an absolute URL.
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// Validate returns the violated rules of f in display order. An empty
// result means the draft may be submitted.
func Validate(f model.Fields) []string {
	f = Normalize(f)
	var out []string
	if f.Title == "" {
		out = append(out, i18n.T("editor.title_required"))
	}
	if f.Username == "" {
		out = append(out, i18n.T("editor.username_required"))
	}
	if f.URL != "" && !ValidURL(f.URL) {
		out = append(out, i18n.T("editor.invalid_url"))
	}
	if utf8.RuneCountInString(f.Notes) > model.MaxNotesLength {
		out = append(out, i18n.T("editor.notes_too_long", model.MaxNotesLength))
	}
	return out
}
