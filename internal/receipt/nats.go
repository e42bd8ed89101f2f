package receipt

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// Connect dials url, using the credentials file when one is given.
func Connect(url, credentials string) (*nats.Conn, error) {
	opts := []nats.Option{nats.Name("slack-message")}
	if credentials != "" {
		opts = append(opts, nats.UserCredentials(credentials))
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS server %s: %w", url, err)
	}
	return nc, nil
}
