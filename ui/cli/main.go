// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/vaultpass/buildvars"
	"github.com/toeirei/vaultpass/internal/app"
	"github.com/toeirei/vaultpass/internal/command"
	"github.com/toeirei/vaultpass/internal/config"
	"github.com/toeirei/vaultpass/internal/db"
	"github.com/toeirei/vaultpass/internal/i18n"
	"github.com/toeirei/vaultpass/internal/logging"
	"github.com/toeirei/vaultpass/internal/tui"
	"github.com/toeirei/vaultpass/internal/vault"
	"github.com/toeirei/vaultpass/internal/vaultclient"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

var cfgFile string
var verbose bool

var appConfig config.Config

// store and service live for one command execution.
var (
	store   *db.BunStore
	service *vault.Service
)

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := config.Defaults()
	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optionalConfigPath)
	// A "file not found" error is expected on first run.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if optionalConfigPath == nil {
			if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
				logging.Warnf("could not write default config file: %v", writeErr)
			} else {
				logging.Debugf("wrote default config to user config path")
			}
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Empty values in a user's file fall back to defaults.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}

	i18n.Init(appConfig.Language)
	if err := logging.SetLevel(appConfig.Log.Level); err != nil {
		logging.Warnf("%v", err)
	}
	if verbose {
		db.SetDebug(true)
		_ = logging.SetLevel("debug")
	}

	if store != nil {
		return nil
	}
	if appConfig.Database.Type == "sqlite" {
		ensureSQLiteDir(appConfig.Database.Dsn)
	}
	s, err := db.NewStoreFromDSN(appConfig.Database.Type, appConfig.Database.Dsn)
	if err != nil {
		return errors.New(i18n.T("cli.error_init_db", err))
	}
	store = s
	service = vault.New(store, vault.Config{KDF: appConfig.KDF()})
	return nil
}

// ensureSQLiteDir creates the parent directory of a plain sqlite file path.
func ensureSQLiteDir(dsn string) {
	if strings.HasPrefix(dsn, "file:") || strings.HasPrefix(dsn, ":memory:") {
		return
	}
	if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
		logging.Warnf("could not create database directory: %v", err)
	}
}

// closeServices releases the store opened by setupDefaultServices.
func closeServices() {
	if store != nil {
		if err := store.Close(); err != nil {
			logging.Warnf("closing database: %v", err)
		}
	}
	store, service = nil, nil
}

// newClient connects a vault client to the service over the in-process
// command channel.
func newClient() *vaultclient.Client {
	return vaultclient.New(command.NewLocal(command.NewDispatcher(service)))
}

// Execute runs the CLI entrypoint. The cmd/vaultpass main package should
// call this function and handle process exit.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer closeServices()

	return NewRootCmd().ExecuteContext(ctx)
}

func applyDefaultFlags(cmd *cobra.Command) {
	// NewRootCmd may be called repeatedly in tests; pflag panics on
	// duplicate definitions.
	if cmd.Flags().Lookup("database.type") == nil {
		cmd.Flags().String("database.type", "sqlite", `Database type ("sqlite", "postgres", "mysql")`)
	}
	if cmd.Flags().Lookup("database.dsn") == nil {
		cmd.Flags().String("database.dsn", "", "Database connection string (DSN)")
	}
	if cmd.Flags().Lookup("log.level") == nil {
		cmd.Flags().String("log.level", "info", `Log level ("debug", "info", "warn", "error")`)
	}
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaultpass",
		Short: "VaultPass is a local, master-password protected credential vault.",
		Long: `VaultPass keeps website and application credentials in a local database.
Secrets are sealed with a key derived from your master password, which is
never stored.

Running without a subcommand will launch the interactive TUI.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupDefaultServices,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { closeServices() },
		RunE: func(cmd *cobra.Command, args []string) error {
			closer, err := logging.RedirectToFile(appConfig.Log.File)
			if err != nil {
				logging.Warnf("could not redirect logs: %v", err)
			} else {
				defer func() { _ = closer.Close() }()
				defer logging.SetOutput(os.Stderr)
			}
			return tui.Run(cmd.Context(), newClient(), app.Options{BatchSize: appConfig.UI.BatchSize})
		},
	}

	v, c, d := resolveBuildVersion(nil)
	compositeVersion := v
	if c != "" && c != "dev" {
		compositeVersion = compositeVersion + " (" + c + ")"
	}
	if d != "" {
		compositeVersion = compositeVersion + " built: " + d
	}
	cmd.Version = compositeVersion

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logs, including SQL)")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Interface language ("en", "de")`)
	applyDefaultFlags(cmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		// No database needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		PersistentPostRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}

	cmd.AddCommand(
		newInitCmd(),
		newListCmd(),
		newShowCmd(),
		newAddCmd(),
		newEditCmd(),
		newRemoveCmd(),
		newExistsCmd(),
		newDestroyCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newDBMaintainCmd(),
		versionCmd,
	)
	for _, sub := range cmd.Commands() {
		applyDefaultFlags(sub)
	}

	return cmd
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If info is nil, it reads build info from the
// runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}
	if info != nil {
		if resolvedVersion == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" && resolvedCommit == "dev" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" && resolvedDate == "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort show the commit to aid support.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}
