package config

import (
	"fmt"
	"net/url"
	"time"

	env "github.com/netflix/go-env"
)

// Settings holds runtime knobs read from the environment.
type Settings struct {
	APIURL  string        `env:"SLACK_API_URL,default=https://slack.com/api/chat.postMessage"`
	Timeout time.Duration `env:"SLACK_MESSAGE_TIMEOUT,default=30s"`
	LogFile string        `env:"SLACK_MESSAGE_LOG_FILE"`
}

// LoadSettings loads Settings from environment variables
func LoadSettings() (*Settings, error) {
	var settings Settings
	if _, err := env.UnmarshalFromEnviron(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	u, err := url.Parse(settings.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid SLACK_API_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("SLACK_API_URL scheme must be http or https")
	}
	if settings.Timeout <= 0 {
		return nil, fmt.Errorf("SLACK_MESSAGE_TIMEOUT must be greater than 0")
	}
	return &settings, nil
}
