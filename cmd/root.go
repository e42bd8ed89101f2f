package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	completion string
)

var rootCmd = &cobra.Command{
	Use:   "slack-message <message>",
	Short: "Send a Slack message",
	Long: `slack-message posts a single message to a Slack channel through the
chat.postMessage Web API.

The channel and OAuth token are taken from --channel/--auth-token, then
SLACK_CHANNEL/SLACK_TOKEN (a .env file in the working directory is honoured),
then the config file.

A message whose first word is also a command name (config, auth, message,
help) must follow a -- separator:

  slack-message -c C0123 -- config drift detected`,
	Args:          cobra.ArbitraryArgs, // Allow any number of arguments
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if completion != "" {
			return writeCompletion(cmd, completion)
		}
		if len(args) > 0 {
			return runMessage(cmd, args)
		}
		return cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadDotEnv)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: first of ~/.slack-message.toml, ~/.config/slack-message/{config,slack-message}.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log request details to stderr")
	rootCmd.Flags().StringVar(&completion, "completion", "", "print a completion script for the given shell (bash, zsh, fish, powershell)")
	addMessageFlags(rootCmd)
}

// loadDotEnv never overrides variables that are already set.
func loadDotEnv() {
	_ = godotenv.Load()
}

// groupRunE makes a command group fail on stray words instead of printing
// help and exiting 0, which would silently drop a message like
// "config drift detected".
func groupRunE(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	return fmt.Errorf("unknown %s command %q; to send this as a message use: %s -- %s %s",
		cmd.Name(), args[0], cmd.Root().Name(), cmd.Name(), strings.Join(args, " "))
}

func writeCompletion(cmd *cobra.Command, shell string) error {
	out := cmd.OutOrStdout()
	switch shell {
	case "bash":
		return cmd.Root().GenBashCompletionV2(out, true)
	case "zsh":
		return cmd.Root().GenZshCompletion(out)
	case "fish":
		return cmd.Root().GenFishCompletion(out, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(out)
	default:
		return fmt.Errorf("unsupported shell %q", shell)
	}
}
