package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/chatdb-migrate/internal/config"
	"github.com/example/chatdb-migrate/internal/logging"
	"github.com/example/chatdb-migrate/internal/persistence/sqlite/migration"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitConfigError = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	path        string
	logFormat   string
	busyTimeout time.Duration
	synchronous string
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}

	var opts options
	cmd := newRootCmd(&opts, stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrConfiguration):
		fmt.Fprintln(stderr, err)
		return exitConfigError
	default:
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
}

func newRootCmd(opts *options, stdout io.Writer) *cobra.Command {
	defaults := migration.DefaultSQLiteConfig()

	cmd := &cobra.Command{
		Use:   "chatdb-migrate",
		Short: "Upgrade chat databases to the current schema version",
		Long: "chatdb-migrate opens every *.db file directly inside the chat database directory " +
			"and adds forwarded_message.sender_id to databases whose user_version is below " +
			fmt.Sprint(migration.TargetVersion) + ".",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(stdout, opts.logFormat, slog.LevelInfo)

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("path") {
				cfg.ChatDatabasePath = opts.path
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sqliteCfg := migration.SQLiteConfig{
				BusyTimeout: opts.busyTimeout,
				Synchronous: opts.synchronous,
			}
			if err := sqliteCfg.Validate(); err != nil {
				return fmt.Errorf("invalid sqlite settings: %w", err)
			}

			migrator := migration.NewMigrator(
				migration.NewDirectoryScanner(),
				migration.NewSQLiteOpener(sqliteCfg),
				logger,
			)

			report, err := migrator.Run(cmd.Context(), cfg.ChatDatabasePath)
			if err != nil {
				logger.Error("migration failed",
					"run_id", report.RunID,
					"processed", len(report.Files),
					"error", err)
				return err
			}

			logger.Info("chat databases up to date",
				"run_id", report.RunID,
				"processed", len(report.Files),
				"migrated", report.Migrated(),
				"skipped", report.Skipped)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.path, "path", "", "chat database directory (overrides "+config.EnvChatDatabasePath+")")
	flags.StringVar(&opts.logFormat, "log-format", "json", "log output format: json or text")
	flags.DurationVar(&opts.busyTimeout, "busy-timeout", defaults.BusyTimeout, "how long to wait for locked databases")
	flags.StringVar(&opts.synchronous, "synchronous", defaults.Synchronous, "SQLite synchronous mode (OFF, NORMAL, FULL, EXTRA)")

	return cmd
}
