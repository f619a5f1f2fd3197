package cmd

import (
	"context"
	"fmt"
	"time"

	"daybrief/internal/storage"

	"github.com/spf13/cobra"
)

// storeCmd groups cache storage utilities.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Cache storage utilities",
}

// storePingCmd checks that the configured storage backend is reachable.
var storePingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the cache storage backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()

			if rs, ok := a.platform.Store.(*storage.RedisStore); ok {
				res, err := rs.Ping(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), res)
				return nil
			}
			// Other backends are local files: a read proves the store is usable.
			if _, _, err := a.platform.Store.Get(ctx, "daybrief:ping"); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK (%s)\n", a.platform.Kind)
			return nil
		})
	},
}

func init() {
	storeCmd.AddCommand(storePingCmd)
	rootCmd.AddCommand(storeCmd)
}
