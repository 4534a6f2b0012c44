package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/gctool/internal/accounts"
)

func newAccountsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the chart of accounts as CSV",
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
			return accounts.WriteChart(cmd.OutOrStdout(), b.Index())
		},
	}
}
