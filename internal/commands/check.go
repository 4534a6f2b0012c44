package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate transactions: balance, account references, values, dates, GUIDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(false)
			if err != nil {
				return err
			}
			b, path, err := a.loadBook(cfg)
			if err != nil {
				return err
			}

			problems := b.Validate()
			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintln(out, p.Error())
			}
			if len(problems) > 0 {
				return fmt.Errorf("%s: %d problems found", path, len(problems))
			}
			fmt.Fprintf(out, "%s: ok\n", path)
			return nil
		},
	}
}
