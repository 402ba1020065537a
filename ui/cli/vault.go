// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/toeirei/vaultpass/internal/app"
	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/notify"
)

// newApp builds an application controller whose output goes to cmd.
func newApp(cmd *cobra.Command, assumeYes bool) (*app.App, *cliView) {
	view := newCLIView(cmd, assumeYes)
	return app.New(newClient(), view, app.Options{BatchSize: appConfig.UI.BatchSize}), view
}

// unlock asks for the master password and logs in. The list of the first
// batch is rendered into view on success.
func unlock(cmd *cobra.Command, a *app.App, view *cliView) error {
	master, err := view.secret(i18n.T("cli.master_prompt"), masterEnv)
	if err != nil {
		return err
	}
	defer master.Zero()
	return a.Login(cmd.Context(), master)
}

func newInitCmd() *cobra.Command {
	var encrypt, yes bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new vault",
		Long:  "Creates a new vault protected by a master password. An existing vault is destroyed after confirmation.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("encrypt") {
				encrypt = appConfig.Security.EncryptAtRest
			}
			a, view := newApp(cmd, yes)
			master, err := view.secret(i18n.T("cli.master_prompt"), masterEnv)
			if err != nil {
				return err
			}
			defer master.Zero()
			// With the master password in the environment the confirmation
			// reads the same value.
			confirm, err := view.secret(i18n.T("cli.confirm_prompt"), masterEnv)
			if err != nil {
				return err
			}
			defer confirm.Zero()
			err = a.Register(cmd.Context(), master, confirm, encrypt)
			if errors.Is(err, app.ErrCancelled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "Encrypt usernames, URLs and notes at rest")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace an existing vault without asking")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List stored passwords",
		Long:  "Lists every stored password, optionally filtered by a case-insensitive match on title, username or url.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, view := newApp(cmd, false)
			if err := unlock(cmd, a, view); err != nil {
				return err
			}
			if len(args) == 1 {
				a.Search(args[0])
			}
			for a.ShowMore() > 0 {
			}

			out := cmd.OutOrStdout()
			if view.empty || len(view.items) == 0 {
				fmt.Fprintln(out, i18n.T("list.empty_title"))
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tUSERNAME\tURL")
			for _, c := range view.items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Title, c.Username, c.URL)
			}
			return w.Flush()
		},
	}
}

func newShowCmd() *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one stored password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, view := newApp(cmd, false)
			if err := unlock(cmd, a, view); err != nil {
				return err
			}
			c, ok := a.Credential(args[0])
			if !ok {
				return errors.New(i18n.T("editor.not_found", args[0]))
			}
			printCredential(cmd, c, reveal)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the password in clear text")
	return cmd
}

func printCredential(cmd *cobra.Command, c model.Credential, reveal bool) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	secret := strings.Repeat("•", 8)
	if reveal {
		secret = c.Secret
	}
	fmt.Fprintf(w, "ID:\t%s\n", c.ID)
	fmt.Fprintf(w, "%s:\t%s\n", i18n.T("cli.label_title"), c.Title)
	fmt.Fprintf(w, "%s:\t%s\n", i18n.T("cli.label_username"), c.Username)
	fmt.Fprintf(w, "%s:\t%s\n", i18n.T("cli.label_password"), secret)
	if c.HasURL() {
		fmt.Fprintf(w, "%s:\t%s\n", i18n.T("cli.label_url"), c.URL)
	}
	if c.Notes != "" {
		fmt.Fprintf(w, "%s:\t%s\n", i18n.T("cli.label_notes"), c.Notes)
	}
	fmt.Fprintf(w, "%s:\t%s\n", i18n.T("cli.label_created"), c.CreatedAt.Local().Format(time.RFC3339))
	if !c.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "%s:\t%s\n", i18n.T("cli.label_updated"), c.UpdatedAt.Local().Format(time.RFC3339))
	}
	_ = w.Flush()
}

// draftFlags binds the editable fields of a record to cmd.
type draftFlags struct {
	title, username, url, notes string
}

func (d *draftFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.title, "title", "", "Title")
	cmd.Flags().StringVar(&d.username, "username", "", "Username")
	cmd.Flags().StringVar(&d.url, "url", "", "URL (http or https)")
	cmd.Flags().StringVar(&d.notes, "notes", "", "Notes")
}

// apply overwrites the fields of f whose flags were given.
func (d *draftFlags) apply(cmd *cobra.Command, f model.Fields) model.Fields {
	if cmd.Flags().Changed("title") {
		f.Title = d.title
	}
	if cmd.Flags().Changed("username") {
		f.Username = d.username
	}
	if cmd.Flags().Changed("url") {
		f.URL = d.url
	}
	if cmd.Flags().Changed("notes") {
		f.Notes = d.notes
	}
	return f
}

func newAddCmd() *cobra.Command {
	var d draftFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a new password",
		Long:  "Stores a new password. The password itself is read from the terminal or from stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, view := newApp(cmd, false)
			if err := unlock(cmd, a, view); err != nil {
				return err
			}
			if err := a.OpenEditor(cmd.Context(), ""); err != nil {
				return err
			}
			fields := d.apply(cmd, view.draft)
			secret, err := view.secret(i18n.T("cli.entry_password_prompt"), "")
			if err != nil {
				return err
			}
			fields.Secret = string(secret)
			secret.Zero()
			return a.Submit(cmd.Context(), fields)
		},
	}
	d.bind(cmd)
	return cmd
}

func newEditCmd() *cobra.Command {
	var d draftFlags
	var newPassword bool
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a stored password",
		Long:  "Changes the given fields of a stored record. Fields without a flag keep their value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, view := newApp(cmd, false)
			if err := unlock(cmd, a, view); err != nil {
				return err
			}
			if err := a.OpenEditor(cmd.Context(), args[0]); err != nil {
				return err
			}
			fields := d.apply(cmd, view.draft)
			if newPassword {
				secret, err := view.secret(i18n.T("cli.entry_password_prompt"), "")
				if err != nil {
					return err
				}
				fields.Secret = string(secret)
				secret.Zero()
			}
			return a.Submit(cmd.Context(), fields)
		},
	}
	d.bind(cmd)
	cmd.Flags().BoolVar(&newPassword, "password", false, "Prompt for a new password")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a stored password",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, view := newApp(cmd, yes)
			if err := unlock(cmd, a, view); err != nil {
				return err
			}
			err := a.Delete(cmd.Context(), args[0])
			if errors.Is(err, app.ErrCancelled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

func newExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists",
		Short: "Report whether a vault has been created",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := newClient().Exists(cmd.Context())
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.exists_yes"))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.exists_no"))
			}
			return nil
		},
	}
}

func newDestroyCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete the vault and every stored password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := newCLIView(cmd, yes)
			if !view.Confirm(i18n.T("auth.destroy_confirm")) {
				view.Notify(i18n.T("cli.destroy_cancelled"), notify.Info)
				return nil
			}
			if err := newClient().Destroy(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("auth.destroy_success"))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Destroy without asking")
	return cmd
}
