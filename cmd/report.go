package cmd

import (
	"context"
	"fmt"
	"strings"

	"daybrief/internal/model"
	"daybrief/internal/report"

	"github.com/spf13/cobra"
)

var (
	reportFresh bool
	reportOut   string
)

var reportCmd = &cobra.Command{
	Use:       "report <morning|evening>",
	Short:     "Show today's morning or evening briefing",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(model.ReportMorning), string(model.ReportEvening)},
	RunE: func(cmd *cobra.Command, args []string) error {
		t := model.ReportType(strings.ToLower(args[0]))
		return withApp(func(ctx context.Context, a *app) error {
			r, err := a.reports.Get(ctx, t, reportFresh)
			if err != nil {
				return err
			}
			if reportOut != "" {
				path, err := report.Archive(reportOut, r, a.cfg.Report.MorningCategories)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), r)
			}
			md, err := report.Render(r, a.cfg.Report.MorningCategories)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		})
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportFresh, "fresh", false, "regenerate even if today's report is cached")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "write the briefing as Markdown with frontmatter into this directory")
	rootCmd.AddCommand(reportCmd)
}
