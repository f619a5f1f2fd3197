package cmd

import (
	"fmt"

	"daybrief/internal/config"
	"daybrief/internal/settings"

	"github.com/spf13/cobra"
)

// settingsCmd groups the per-installation settings subcommands.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage per-installation settings such as provider API keys",
}

func openSettings() (*settings.File, error) {
	return settings.Open(GetConfig().Settings.Path)
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openSettings()
		if err != nil {
			return err
		}
		v, ok := st.Get(args[0])
		if !ok {
			return fmt.Errorf("setting %q is not set", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openSettings()
		if err != nil {
			return err
		}
		return st.Set(args[0], args[1])
	},
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openSettings()
		if err != nil {
			return err
		}
		return st.Unset(args[0])
	},
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List provider keys and where they resolve from",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		st, err := openSettings()
		if err != nil {
			return err
		}
		defaults := cfg.Defaults()
		for _, k := range config.KeyNames {
			origin := "unset"
			if v, ok := st.Get(string(k)); ok && v != "" {
				origin = "settings"
			} else if defaults[k] != "" {
				origin = "default"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", k, origin)
		}
		for _, k := range st.Keys() {
			if !isKeyName(k) {
				v, _ := st.Get(k)
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", k, v)
			}
		}
		return nil
	},
}

func isKeyName(k string) bool {
	for _, n := range config.KeyNames {
		if string(n) == k {
			return true
		}
	}
	return false
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd, settingsUnsetCmd, settingsListCmd)
	rootCmd.AddCommand(settingsCmd)
}
