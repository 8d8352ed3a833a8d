package cmd

import (
	"fmt"
	"strings"

	"adsreport-cli/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure Google Ads credentials and settings",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var setCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Supported keys: " + strings.Join(config.Keys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("error setting %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s set successfully.\n", args[0])
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.Get(args[0])
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not set.\n", args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], value)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values, with tokens masked",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, key := range config.Keys() {
			value, _ := config.Get(key)
			if key == config.DeveloperToken || key == config.AccessToken {
				value = mask(value)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, value)
		}
	},
}

// mask keeps the last four characters of a secret.
func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(setCmd)
	configCmd.AddCommand(getCmd)
	configCmd.AddCommand(listCmd)
}
