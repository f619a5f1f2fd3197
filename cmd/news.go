package cmd

import (
	"context"
	"fmt"
	"strings"

	"daybrief/internal/news"

	"github.com/spf13/cobra"
)

var (
	pageSize  int
	skipCache bool
)

func newsRequest(a *app) news.Request {
	return news.Request{Locale: a.cfg.App.Locale, PageSize: pageSize, SkipCache: skipCache}
}

// withApp wires the services, runs fn, and releases them.
func withApp(fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(GetConfig())
	if err != nil {
		return err
	}
	defer a.Close()
	return explain(fn(context.Background(), a))
}

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Show top headlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			arts, err := a.news.Headlines(ctx, newsRequest(a))
			if err != nil {
				return err
			}
			return printArticles(cmd.OutOrStdout(), arts)
		})
	},
}

var categoryCmd = &cobra.Command{
	Use:   "category <key>",
	Short: "Show headlines of one category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			req := newsRequest(a)
			req.Category = args[0]
			arts, err := a.news.Category(ctx, req)
			if err != nil {
				return err
			}
			return printArticles(cmd.OutOrStdout(), arts)
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search news articles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			req := newsRequest(a)
			req.Query = strings.Join(args, " ")
			arts, err := a.news.Search(ctx, req)
			if err != nil {
				return err
			}
			return printArticles(cmd.OutOrStdout(), arts)
		})
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories of the first provider for the locale",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			cats, err := a.news.Categories(ctx, a.cfg.App.Locale)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), cats)
			}
			for _, c := range cats {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", c.ID, c.Label)
			}
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{headlinesCmd, categoryCmd, searchCmd} {
		c.Flags().IntVar(&pageSize, "size", 20, "number of articles")
		c.Flags().BoolVar(&skipCache, "fresh", false, "bypass the cache and fetch from providers")
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(categoriesCmd)
}
