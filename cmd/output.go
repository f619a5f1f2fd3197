package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"daybrief/internal/apierr"
	"daybrief/internal/model"
)

var jsonOut bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printArticles(w io.Writer, arts []model.Article) error {
	if jsonOut {
		return printJSON(w, arts)
	}
	if len(arts) == 0 {
		fmt.Fprintln(w, "No articles right now.")
		return nil
	}
	for i, a := range arts {
		fmt.Fprintf(w, "%2d. %s\n    %s · %s\n    %s\n", i+1, a.Title, a.Source, a.PublishedAt, a.URL)
	}
	return nil
}

// explain adds a hint to errors the user can act on.
func explain(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case apierr.IsNotConfigured(err):
		return fmt.Errorf("%w\nhint: run `daybrief settings set <provider>_key <key>`", err)
	case apierr.IsAggregate(err), apierr.IsTransport(err):
		return fmt.Errorf("fetch failed, try again later: %w", err)
	default:
		return err
	}
}
