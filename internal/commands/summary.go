package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/gctool/internal/export"
)

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Split count and total per account, as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(false)
			if err != nil {
				return err
			}
			b, _, err := a.loadBook(cfg)
			if err != nil {
				return err
			}
			return export.WriteSummary(cmd.OutOrStdout(), b.Summarize())
		},
	}
}
