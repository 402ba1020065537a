// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/toeirei/vaultpass/internal/backup"
	"github.com/toeirei/vaultpass/internal/db"
	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/notify"
)

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [output-file]",
		Short: "Write a compressed backup of the vault",
		Long: `Exports the vault to a zstd-compressed JSON file. Secrets stay sealed with
the master password, so the backup can only be opened with it.
If no file is given, a dated file name is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			filename := backup.FileName(name, time.Now())

			data, err := store.ExportBackup(cmd.Context())
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			if err := backup.WriteFile(filename, data); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.backup_success", len(data.Credentials), filename))
			return nil
		},
	}
}

func newRestoreCmd() *cobra.Command {
	var full, yes bool
	cmd := &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Load a vault backup",
		Long: `Imports a backup written by 'vaultpass backup'. By default records whose id
already exists are kept. With --full the current vault is wiped first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if full {
				view := newCLIView(cmd, yes)
				if !view.Confirm(i18n.T("cli.restore_full_confirm")) {
					view.Notify(i18n.T("cli.restore_cancelled"), notify.Info)
					return nil
				}
			}
			data, err := backup.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := store.ImportBackup(cmd.Context(), data, full); err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.restore_success", len(data.Credentials)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Replace the whole vault instead of merging")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask before a full restore")
	return cmd
}

func newDBMaintainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db-maintain",
		Short: "Run database maintenance",
		Long:  "Runs engine-specific maintenance (VACUUM, ANALYZE or OPTIMIZE TABLE) on the vault database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.RunDBMaintenance(cmd.Context(), store.BunDB(), store.Type()); err != nil {
				return fmt.Errorf("maintenance failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.maintain_success"))
			return nil
		},
	}
}
