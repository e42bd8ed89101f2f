package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/slack-go/slack"
	"github.com/spf13/cobra"

	"github.com/laetho/slack-message/internal/config"
	"github.com/laetho/slack-message/internal/credential"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect the configured OAuth token",
	Args:  cobra.ArbitraryArgs,
	RunE:  groupRunE,
}

var authTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Check that the token is accepted by Slack",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		cfg, _, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		token, err := credential.Resolve(credential.TokenVariable,
			credential.Arg(flagValue(cmd, "auth-token", &authToken)),
			credential.Env(credential.TokenVariable),
			credential.File(cfg.Token),
		)
		if err != nil {
			return err
		}

		base, err := apiBase(settings.APIURL)
		if err != nil {
			return err
		}
		api := slack.New(token,
			slack.OptionAPIURL(base),
			slack.OptionHTTPClient(&http.Client{Timeout: settings.Timeout}),
		)
		resp, err := api.AuthTestContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("auth test failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Authenticated as %s (%s) on team %s (%s)\n",
			resp.User, resp.UserID, resp.Team, resp.TeamID)
		return nil
	},
}

func init() {
	authTestCmd.Flags().StringVarP(&authToken, "auth-token", "a", "", "OAuth token (env SLACK_TOKEN)")
	authCmd.AddCommand(authTestCmd)
	rootCmd.AddCommand(authCmd)
}

// apiBase turns the chat.postMessage endpoint into the Web API base URL
// slack-go expects, e.g. https://slack.com/api/.
func apiBase(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid API URL %q: %w", endpoint, err)
	}
	dir := path.Dir(u.Path)
	if dir == "." || dir == "/" {
		dir = ""
	}
	u.Path = dir + "/"
	u.RawQuery = ""
	return u.String(), nil
}
