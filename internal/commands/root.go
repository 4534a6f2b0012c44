package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/gctool/internal/book"
	"github.com/cleared-dev/gctool/internal/buildinfo"
	"github.com/cleared-dev/gctool/internal/config"
	"github.com/cleared-dev/gctool/internal/logger"
)

// app carries settings shared by every subcommand. Flags win over GCTOOL_*
// environment variables, which win over the project file.
type app struct {
	env        *config.Env
	logLevel   string
	logFormat  string
	bookPath   string
	configPath string
	log        *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "gctool",
		Short:   "Search, summarize, reassign and report on GnuCash XML books",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.bookPath, "book", "b", "", "GnuCash XML book (env GCTOOL_BOOK, or book: in the config)")
	flags.StringVarP(&a.configPath, "config", "c", "", "project config file (env GCTOOL_CONFIG, default gctool.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (env GCTOOL_LOG_LEVEL)")
	flags.StringVar(&a.logFormat, "log-format", "", "text or json (env GCTOOL_LOG_FORMAT)")

	rootCmd.AddCommand(
		newInitCommand(a),
		newAccountsCommand(a),
		newSplitsCommand(a),
		newSummaryCommand(a),
		newReassignCommand(a),
		newReportCommand(a),
		newCheckCommand(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	a.env = env

	if a.logLevel == "" {
		a.logLevel = env.LogLevel
	}
	if a.logFormat == "" {
		a.logFormat = env.LogFormat
	}
	if a.configPath == "" {
		a.configPath = env.Config
	}
	if a.bookPath == "" {
		a.bookPath = env.Book
	}

	log, err := logger.New(a.logLevel, a.logFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

// loadConfig reads the project file. A missing file is only an error when
// required; otherwise an empty Config is returned.
func (a *app) loadConfig(required bool) (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err == nil {
		a.log.Debug("loaded config", "path", a.configPath)
		return cfg, nil
	}
	if !required && errors.Is(err, os.ErrNotExist) {
		return &config.Config{}, nil
	}
	return nil, fmt.Errorf("%s: %w", a.configPath, err)
}

// resolveBook picks the book path. A book named in the config file is
// relative to that file.
func (a *app) resolveBook(cfg *config.Config) (string, error) {
	switch {
	case a.bookPath != "":
		return a.bookPath, nil
	case cfg.Book != "":
		if filepath.IsAbs(cfg.Book) {
			return cfg.Book, nil
		}
		return filepath.Join(filepath.Dir(a.configPath), cfg.Book), nil
	}
	return "", errors.New("no book given: use --book, GCTOOL_BOOK or book: in the config")
}

func (a *app) loadBook(cfg *config.Config) (*book.Book, string, error) {
	path, err := a.resolveBook(cfg)
	if err != nil {
		return nil, "", err
	}
	b, err := book.Load(path)
	if err != nil {
		return nil, "", err
	}
	a.log.Debug("loaded book", "path", path, "accounts", len(b.Index().All()), "compressed", b.Compressed())
	return b, path, nil
}
