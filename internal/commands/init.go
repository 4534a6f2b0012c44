package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/gctool/internal/config"
	"github.com/cleared-dev/gctool/internal/gitops"
)

func newInitCommand(a *app) *cobra.Command {
	var force bool
	var git bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter gctool.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			path, err := runInit(absDir, a.bookPath, force, git)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	cmd.Flags().BoolVar(&git, "git", false, "initialize a git repository if the directory is not in one")

	return cmd
}

func runInit(dir, bookPath string, force, git bool) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, "gctool.yaml")
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("checking %s: %w", path, err)
	}

	if bookPath != "" {
		if rel, err := filepath.Rel(dir, absPath(bookPath)); err == nil {
			bookPath = rel
		}
	}

	cfg := config.Default(bookPath)
	if err := config.Save(path, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	if git && !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return "", err
		}
	}
	return path, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
