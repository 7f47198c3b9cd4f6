package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/linejournal/internal/config"
	"github.com/roach88/linejournal/internal/entry"
	"github.com/roach88/linejournal/internal/journal"
	"github.com/roach88/linejournal/internal/logging"
	"github.com/roach88/linejournal/internal/store"
)

// env is what a command needs to reach the journals.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	journal *journal.Store
	close   func() error
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	if opts.WatchDir != "" {
		cfg.WatchDir = opts.WatchDir
	}
	if opts.JournalDir != "" {
		cfg.JournalDir = opts.JournalDir
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if opts.Verbose {
		cfg.Log.Level = logging.LevelDebug.String()
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the command logger. Logs go to w so they never mix with
// command output.
func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{
		Level:   level,
		JSON:    cfg.Log.JSON,
		Writer:  w,
		Service: "linejournal",
	}), nil
}

// openEnv loads configuration and opens the configured journal backend.
// Callers must call close when done.
func openEnv(opts *RootOptions, cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	backend, closeFn, err := openBackend(cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journals", err)
	}

	js, err := journal.New(backend, journal.Options{
		Prefix: cfg.Prefix,
		Cap:    cfg.Retention,
		Format: entry.Format(cfg.Format),
		Logger: logger,
	})
	if err != nil {
		closeFn()
		return nil, WrapExitError(ExitCommandError, "failed to open journals", err)
	}

	logger.Debug("journals opened",
		"backend", cfg.Backend,
		"journal_dir", cfg.JournalDir,
		"retention", cfg.Retention)

	return &env{cfg: cfg, logger: logger, journal: js, close: closeFn}, nil
}

func openBackend(cfg config.Config) (journal.Backend, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
		st, err := store.Open(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		b, err := journal.NewDirBackend(cfg.JournalDir)
		if err != nil {
			return nil, nil, err
		}
		return b, func() error { return nil }, nil
	}
}

// formatter returns the output formatter for cmd.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
