package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/gctool/internal/book"
	"github.com/cleared-dev/gctool/internal/changelog"
	"github.com/cleared-dev/gctool/internal/config"
	"github.com/cleared-dev/gctool/internal/export"
	"github.com/cleared-dev/gctool/internal/gitops"
	"github.com/cleared-dev/gctool/internal/id"
	"github.com/cleared-dev/gctool/internal/reassign"
)

type reassignOptions struct {
	dryRun      bool
	out         string
	summaryDir  string
	changelog   string
	noChangelog bool
	commit      bool
}

func newReassignCommand(a *app) *cobra.Command {
	var o reassignOptions

	cmd := &cobra.Command{
		Use:   "reassign",
		Short: "Move splits between accounts using the reassign rules in the config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(true)
			if err != nil {
				return err
			}
			if len(cfg.Reassign) == 0 {
				return fmt.Errorf("%s: no reassign rules configured", a.configPath)
			}
			b, path, err := a.loadBook(cfg)
			if err != nil {
				return err
			}
			if o.out == "" {
				o.out = path
			}
			return runReassign(a, cmd.OutOrStdout(), cfg, b, o)
		},
	}

	cmd.Flags().BoolVarP(&o.dryRun, "dry-run", "n", false, "report matches without changing the book")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write the book here instead of overwriting it")
	cmd.Flags().StringVar(&o.summaryDir, "summary-dir", "", "write initial-summary.csv and final-summary.csv here")
	cmd.Flags().StringVar(&o.changelog, "changelog", "", "change log file (default gctool-changes.csv next to the book)")
	cmd.Flags().BoolVar(&o.noChangelog, "no-changelog", false, "do not record changes")
	cmd.Flags().BoolVar(&o.commit, "commit", false, "commit the saved book to git (also git.auto_commit)")

	return cmd
}

func runReassign(a *app, out io.Writer, cfg *config.Config, b *book.Book, o reassignOptions) error {
	if o.summaryDir != "" {
		if err := writeSummaryFile(filepath.Join(o.summaryDir, "initial-summary.csv"), b); err != nil {
			return err
		}
	}

	res, err := reassign.Apply(b, reassignGroups(cfg.Reassign), o.dryRun, a.log)
	if err != nil {
		return err
	}

	if o.summaryDir != "" {
		if err := writeSummaryFile(filepath.Join(o.summaryDir, "final-summary.csv"), b); err != nil {
			return err
		}
	}

	for _, name := range res.Missing {
		fmt.Fprintf(out, "account not found: %s\n", name)
	}
	if o.dryRun {
		for _, ch := range res.Changes {
			fmt.Fprintf(out, "%s  %s: %s -> %s\n", ch.SplitID, ch.Description, ch.From, ch.To)
		}
		fmt.Fprintf(out, "would change %d splits\n", len(res.Changes))
		return nil
	}
	fmt.Fprintf(out, "changed %d splits\n", len(res.Changes))
	if len(res.Changes) == 0 {
		return nil
	}

	if err := b.Save(o.out); err != nil {
		return err
	}
	a.log.Info("saved book", "path", o.out, "changes", len(res.Changes))
	committed := []string{o.out}

	if !o.noChangelog {
		logPath := o.changelog
		if logPath == "" {
			logPath = changelog.PathFor(o.out)
		}
		if err := changelog.Append(logPath, changeEntries(res.Changes)); err != nil {
			// The book is already saved.
			a.log.Warn("failed to write change log", "path", logPath, "error", err)
		} else {
			committed = append(committed, logPath)
		}
	}

	if o.commit || cfg.Git.AutoCommit {
		author, err := commitAuthor(a.env, cfg.Git)
		if err != nil {
			return err
		}
		hash, err := gitops.CommitFiles(fmt.Sprintf("reassign: %d splits", len(res.Changes)), author, committed...)
		if err != nil {
			return fmt.Errorf("committing: %w", err)
		}
		fmt.Fprintf(out, "committed %s\n", hash)
	}
	return nil
}

func reassignGroups(groups []config.ReassignGroup) []reassign.Group {
	out := make([]reassign.Group, 0, len(groups))
	for _, g := range groups {
		rg := reassign.Group{Account: g.Account}
		for _, r := range g.Rules {
			rg.Rules = append(rg.Rules, reassign.Rule{Description: r.Description, Memo: r.Memo, To: r.To})
		}
		out = append(out, rg)
	}
	return out
}

func changeEntries(changes []reassign.Change) []changelog.Entry {
	runID := id.NewGUID()
	now := time.Now().UTC().Truncate(time.Second)
	entries := make([]changelog.Entry, 0, len(changes))
	for _, ch := range changes {
		entries = append(entries, changelog.Entry{
			Timestamp:   now,
			RunID:       runID,
			SplitID:     ch.SplitID,
			Description: ch.Description,
			FromAccount: ch.From,
			ToAccount:   ch.To,
		})
	}
	return entries
}

func commitAuthor(env *config.Env, git config.GitConfig) (gitops.Author, error) {
	if env != nil && env.GitAuthor != "" {
		return gitops.ParseAuthor(env.GitAuthor)
	}
	a := gitops.Author{Name: git.AuthorName, Email: git.AuthorEmail}
	if a.Name == "" {
		a.Name = "gctool"
	}
	if a.Email == "" {
		a.Email = "gctool@localhost"
	}
	return a, nil
}

func writeSummaryFile(path string, b *book.Book) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.WriteSummary(f, b.Summarize()); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
