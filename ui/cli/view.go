// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toeirei/vaultpass/internal/app"
	"github.com/toeirei/vaultpass/internal/editor"
	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/logging"
	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/notify"
	"github.com/toeirei/vaultpass/internal/security"
	"golang.org/x/term"
)

// masterEnv supplies the master password non-interactively.
const masterEnv = "VAULTPASS_MASTER"

// cliView implements app.View for one command invocation. Rendered batches
// are collected so the command can print them once it is done.
type cliView struct {
	out    io.Writer
	errOut io.Writer
	in     io.Reader
	reader *bufio.Reader
	yes    bool

	items []model.Credential
	empty bool

	modal bool
	mode  editor.Mode
	draft model.Fields
}

var _ app.View = (*cliView)(nil)

func newCLIView(cmd *cobra.Command, assumeYes bool) *cliView {
	in := cmd.InOrStdin()
	return &cliView{
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		in:     in,
		reader: bufio.NewReader(in),
		yes:    assumeYes,
	}
}

func (v *cliView) RenderList(batch []model.Credential) {
	v.empty = false
	v.items = append(v.items, batch...)
}

func (v *cliView) RenderEmptyState() { v.empty = true }

func (v *cliView) ClearList() {
	v.items = nil
	v.empty = false
}

func (v *cliView) ShowModal(draft model.Fields, mode editor.Mode) {
	v.modal, v.mode, v.draft = true, mode, draft
}

func (v *cliView) HideModal() { v.modal = false }

func (v *cliView) ShowMain(bool) {}

// Notify prints status messages to stderr so stdout stays pipeable.
func (v *cliView) Notify(message string, severity notify.Severity) {
	logging.Debugf("notify [%s]: %s", severity, message)
	switch severity {
	case notify.Warning, notify.Danger:
		fmt.Fprintf(v.errOut, "%s: %s\n", severity, message)
	default:
		fmt.Fprintln(v.errOut, message)
	}
}

// Confirm asks a yes/no question on stdin. --yes answers it up front.
func (v *cliView) Confirm(message string) bool {
	if v.yes {
		return true
	}
	fmt.Fprintf(v.errOut, "%s %s ", message, i18n.T("cli.confirm_suffix"))
	line, err := v.line()
	if err != nil {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes", "j", "ja":
		return true
	}
	return false
}

func (v *cliView) line() (string, error) {
	s, err := v.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// ask prompts for a plain value.
func (v *cliView) ask(prompt string) (string, error) {
	fmt.Fprint(v.errOut, prompt)
	return v.line()
}

// secret reads a password from env, the terminal without echo, or a line of
// piped input, in that order.
func (v *cliView) secret(prompt, env string) (security.Secret, error) {
	if env != "" {
		if s := os.Getenv(env); s != "" {
			return security.FromString(s), nil
		}
	}
	fmt.Fprint(v.errOut, prompt)
	if f, ok := v.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(v.errOut)
		if err != nil {
			return nil, fmt.Errorf("could not read password: %w", err)
		}
		return security.Secret(b), nil
	}
	s, err := v.line()
	if err != nil {
		return nil, fmt.Errorf("could not read password: %w", err)
	}
	return security.FromString(s), nil
}
