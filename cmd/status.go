package cmd

import (
	"context"
	"fmt"

	"daybrief/internal/provider"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which provider families are configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			st := map[string]bool{
				string(provider.FamilyDomestic):      a.news.Configured(provider.FamilyDomestic),
				string(provider.FamilyInternational): a.news.Configured(provider.FamilyInternational),
				string(provider.FamilyWeather):       a.weather.Configured(),
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), st)
			}
			for _, f := range []provider.Family{provider.FamilyDomestic, provider.FamilyInternational, provider.FamilyWeather} {
				mark := "not configured"
				if st[string(f)] {
					mark = "configured"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", f, mark)
			}
			chain := a.news.Chain(a.cfg.App.Locale)
			names := make([]string, 0, len(chain))
			for _, p := range chain {
				names = append(names, p.Name())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "news order for %s: %v\n", a.cfg.App.Locale, names)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
