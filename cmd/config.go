package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/laetho/slack-message/internal/config"
	"github.com/spf13/cobra"
)

var slackConfig = &cobra.Command{
	Use:   "config",
	Short: "Manipulate the configuration file",
	Long:  "Set, get, and list the values stored in the slack-message config file.",
	Args:  cobra.ArbitraryArgs,
	RunE:  groupRunE,
}

var slackConfigSet = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration option",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value := args[1]

		cfg, path, err := loadForWrite()
		if err != nil {
			return err
		}

		if err := cfg.Set(key, value); err != nil {
			return err
		}
		if err := config.SaveConfig(path, cfg); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration updated: %s = %s\n", key, display(key, value))
		return nil
	},
}

var slackConfigGet = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration option",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		cfg, _, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, value)
		return nil
	},
}

var slackConfigList = &cobra.Command{
	Use:   "list",
	Short: "List all configuration options",
	Long:  "Display all currently stored configuration options. The token is masked.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		out := cmd.OutOrStdout()
		if path == "" {
			fmt.Fprintln(out, "No configuration file found")
			return nil
		}
		fmt.Fprintf(out, "Current Configuration (%s):\n", path)
		for _, key := range config.Keys() {
			value, _ := cfg.Get(key)
			fmt.Fprintf(out, "  %-17s: %s\n", key, display(key, value))
		}
		return nil
	},
}

var slackConfigPath = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use and the search order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if configPath != "" {
			fmt.Fprintln(out, configPath)
			return nil
		}
		paths, err := config.SearchPaths()
		if err != nil {
			return err
		}
		found, _ := config.FindConfig()
		for _, p := range paths {
			marker := " "
			if p == found {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n", marker, p)
		}
		return nil
	},
}

// loadForWrite is LoadConfig, except that a file which does not exist yet
// starts out empty at --config or the default location.
func loadForWrite() (*config.Config, string, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
			return &config.Config{}, configPath, nil
		}
	}
	cfg, path, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("error loading config: %w", err)
	}
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return nil, "", err
		}
	}
	return cfg, path, nil
}

func display(key, value string) string {
	if key != "token" || value == "" {
		return value
	}
	keep := 0
	if len(value) > 8 {
		keep = 5
	}
	return value[:keep] + strings.Repeat("*", len(value)-keep)
}

func init() {
	slackConfig.AddCommand(slackConfigSet, slackConfigGet, slackConfigList, slackConfigPath)
	rootCmd.AddCommand(slackConfig)
}
