package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/laetho/slack-message/internal/config"
	"github.com/laetho/slack-message/internal/credential"
	"github.com/laetho/slack-message/internal/logging"
	"github.com/laetho/slack-message/internal/receipt"
	sc "github.com/laetho/slack-message/internal/slackclient"
	"github.com/laetho/slack-message/internal/slackmessage"
)

var (
	channel   string
	authToken string
	username  string
	icon      string
	threadTS  string
	timeout   time.Duration
)

var slackMessage = &cobra.Command{
	Use:   "message <string>",
	Short: "Send a chat message",
	Long:  "Send a chat message to a channel, optionally as a threaded reply.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMessage,
}

func init() {
	addMessageFlags(slackMessage)
	rootCmd.AddCommand(slackMessage)
}

func addMessageFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&channel, "channel", "c", "", "channel ID or name (env SLACK_CHANNEL)")
	flags.StringVarP(&authToken, "auth-token", "a", "", "OAuth token (env SLACK_TOKEN)")
	flags.StringVar(&username, "username", "", "display name for the message")
	flags.StringVarP(&icon, "icon", "i", "", "icon emoji, e.g. :robot_face:")
	flags.StringVarP(&threadTS, "timestamp", "t", "", "timestamp of the message to reply to")
	flags.DurationVar(&timeout, "timeout", 0, "request timeout (env SLACK_MESSAGE_TIMEOUT, default 30s)")
}

// flagValue is nil unless the flag was given on the command line, in which
// case an empty value is kept as is.
func flagValue(cmd *cobra.Command, name string, value *string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v := *value
	return &v
}

func runMessage(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	cfg, cfgPath, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, closeLog := logging.New(logging.Options{
		Verbose: verbose,
		Stderr:  cmd.ErrOrStderr(),
		File:    settings.LogFile,
	})
	defer closeLog()
	if cfgPath != "" {
		logger.Printf("using config file %s", cfgPath)
	}

	cred, err := credential.ResolvePair(
		flagValue(cmd, "channel", &channel),
		flagValue(cmd, "auth-token", &authToken),
		credential.Lookup{FileChannel: cfg.Channel, FileToken: cfg.Token},
	)
	if err != nil {
		return err
	}

	msg := slackmessage.New(cred.Channel, text,
		slackmessage.WithIconEmoji(flagValue(cmd, "icon", &icon)),
		slackmessage.WithUsername(flagValue(cmd, "username", &username)),
		slackmessage.WithThreadTS(flagValue(cmd, "timestamp", &threadTS)),
	)

	requestTimeout := settings.Timeout
	if timeout > 0 {
		requestTimeout = timeout
	}
	client := sc.NewClient(cred.Token,
		sc.WithEndpoint(settings.APIURL),
		sc.WithTimeout(requestTimeout),
		sc.WithLogger(logger),
	)

	res, err := client.Send(cmd.Context(), msg)
	if err != nil {
		return fmt.Errorf("unable to send message: %w", err)
	}
	if apiErr := res.Err(); apiErr != nil {
		dump, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(cmd.ErrOrStderr(), string(dump))
		return fmt.Errorf("message not sent: %w", apiErr)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Message sent, timestamp: %s\n", res.TS)

	if cfg.NATSURL != "" {
		publishReceipt(cfg, msg, res, logger)
	}
	return nil
}

// publishReceipt is best effort: the message is already delivered.
func publishReceipt(cfg *config.Config, msg slackmessage.OutboundMessage, res *slackmessage.InboundResponse, logger *log.Logger) {
	nc, err := receipt.Connect(cfg.NATSURL, cfg.NATSCredentials)
	if err != nil {
		logger.Printf("receipt not published: %v", err)
		return
	}
	pub := receipt.NewPublisher(nc, cfg.NATSSubject)
	defer pub.Close()

	if err := pub.Publish(receipt.FromResponse(msg, res, time.Now())); err != nil {
		logger.Printf("receipt not published: %v", err)
		return
	}
	logger.Printf("receipt published on %s", pub.Subject())
}
