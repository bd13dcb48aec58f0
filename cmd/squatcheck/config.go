package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/squatcheck/internal/userconfig"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage squatcheck configuration",
	Long: `Manage squatcheck configuration settings.

Configuration is stored in $SQUATCHECK_HOME/config.toml (default ~/.squatcheck).
Command-line flags and SQUATCHECK_* environment variables take precedence.

Examples:
  squatcheck config get threshold
  squatcheck config set threshold 0.85
  squatcheck config set ignore acme-core,acme-tools
  squatcheck config list`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := userconfig.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		value, ok := cfg.Get(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown config key: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nAvailable keys:\n")
			printAvailableKeys(os.Stderr)
			exitWithCode(ExitUsage)
		}

		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		cfg, err := userconfig.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if err := cfg.Set(key, value); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "\nAvailable keys:\n")
			printAvailableKeys(os.Stderr)
			exitWithCode(ExitUsage)
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		stored, _ := cfg.Get(key)
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, stored)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := userconfig.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, key := range userconfig.SortedKeys() {
			value, _ := cfg.Get(key)
			fmt.Fprintf(out, "%s = %s\n", key, value)
		}
		return nil
	},
}

func printAvailableKeys(w io.Writer) {
	keys := userconfig.AvailableKeys()
	for _, k := range userconfig.SortedKeys() {
		fmt.Fprintf(w, "  %s - %s\n", k, keys[k])
	}
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}
