package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/gctool/internal/config"
	"github.com/cleared-dev/gctool/internal/report"
)

func newReportCommand(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the configured periodic report as CSV sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(true)
			if err != nil {
				return err
			}
			if len(cfg.Report.Sections) == 0 {
				return fmt.Errorf("%s: no report sections configured", a.configPath)
			}
			b, _, err := a.loadBook(cfg)
			if err != nil {
				return err
			}

			opts, err := reportOptions(cfg.Report)
			if err != nil {
				return err
			}
			tables, err := report.NewBuilder(b, opts, a.log).Build(reportSections(cfg.Report))
			if err != nil {
				return err
			}

			paths, err := report.WriteDir(outDir, tables)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "report", "output directory")

	return cmd
}

func reportOptions(rc config.ReportConfig) (report.Options, error) {
	rng, err := rc.Range()
	if err != nil {
		return report.Options{}, err
	}
	rates, err := rc.Rates()
	if err != nil {
		return report.Options{}, err
	}
	return report.Options{Range: rng, Currency: rc.Currency, Rates: rates}, nil
}

func reportSections(rc config.ReportConfig) []report.Section {
	secs := make([]report.Section, 0, len(rc.Sections))
	for _, s := range rc.Sections {
		secs = append(secs, report.Section{
			Title:    s.Title,
			Period:   report.ParsePeriod(s.AggPeriod),
			Accounts: s.Accounts,
		})
	}
	return secs
}
