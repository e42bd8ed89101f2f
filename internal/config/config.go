package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"
)

// Config defines the structure of the configuration file
type Config struct {
	Channel         string `mapstructure:"channel,omitempty"`
	Token           string `mapstructure:"token,omitempty"`
	NATSURL         string `mapstructure:"nats_url,omitempty"`
	NATSCredentials string `mapstructure:"nats_credentials,omitempty"`
	NATSSubject     string `mapstructure:"nats_subject,omitempty"`
}

// ErrNoConfig is returned by FindConfig when no candidate file exists.
var ErrNoConfig = errors.New("couldn't find config.toml")

var candidates = []string{
	".slack-message.toml",
	".config/slack-message/config.toml",
	".config/slack-message/slack-message.toml",
}

// SearchPaths lists candidate config files under the home directory, in
// lookup order.
func SearchPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	paths := make([]string, 0, len(candidates))
	for _, c := range candidates {
		paths = append(paths, filepath.Join(home, c))
	}
	return paths, nil
}

func FindConfig() (string, error) {
	paths, err := SearchPaths()
	if err != nil {
		return "", err
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrNoConfig
}

// DefaultPath is where SaveConfig writes when no file exists yet.
func DefaultPath() (string, error) {
	paths, err := SearchPaths()
	if err != nil {
		return "", err
	}
	return paths[1], nil
}

// Validate ensures the configuration values are correct
func (c *Config) Validate() error {
	if c.NATSCredentials != "" && c.NATSURL == "" {
		return fmt.Errorf("nats_credentials requires nats_url")
	}
	if c.NATSSubject != "" && c.NATSURL == "" {
		return fmt.Errorf("nats_subject requires nats_url")
	}
	return nil
}

// ReadConfig decodes the TOML file at path.
func ReadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

// LoadConfig reads path, or the first file found by FindConfig when path is
// empty. A missing default file yields an empty Config; a missing explicit
// path is an error.
func LoadConfig(path string) (*Config, string, error) {
	if path == "" {
		found, err := FindConfig()
		if errors.Is(err, ErrNoConfig) {
			return &Config{}, "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}
	config, err := ReadConfig(path)
	if err != nil {
		return nil, "", err
	}
	return config, path, nil
}

// SaveConfig writes the config struct to path, creating parent directories.
func SaveConfig(path string, config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	for key, value := range config.values() {
		if value != "" {
			v.Set(key, value)
		}
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return os.Chmod(path, 0o600)
}

func (c *Config) values() map[string]string {
	return map[string]string{
		"channel":          c.Channel,
		"token":            c.Token,
		"nats_url":         c.NATSURL,
		"nats_credentials": c.NATSCredentials,
		"nats_subject":     c.NATSSubject,
	}
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, 5)
	for key := range (&Config{}).values() {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (c *Config) Get(key string) (string, error) {
	value, ok := c.values()[key]
	if !ok {
		return "", fmt.Errorf("invalid configuration key: %s", key)
	}
	return value, nil
}

func (c *Config) Set(key, value string) error {
	switch key {
	case "channel":
		c.Channel = value
	case "token":
		c.Token = value
	case "nats_url":
		c.NATSURL = value
	case "nats_credentials":
		c.NATSCredentials = value
	case "nats_subject":
		c.NATSSubject = value
	default:
		return fmt.Errorf("invalid configuration key: %s", key)
	}
	return nil
}
